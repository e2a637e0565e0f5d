package eth2

import (
	"errors"
	"fmt"

	"github.com/rocket-pool/node-manager-core/utils"
)

const (
	ForkVersionLength = 4
	GenesisRootLength = 32
	DomainLength      = 32
	RootLength        = 32
)

// Domain type for voluntary exit signatures
var DomainVoluntaryExit = [4]byte{0x04, 0x00, 0x00, 0x00}

var (
	ErrInvalidForkVersion = errors.New("fork version must be exactly 4 bytes")
	ErrInvalidGenesisRoot = errors.New("genesis validators root must be exactly 32 bytes")
	ErrInvalidRootLength  = errors.New("signing root inputs must be exactly 32 bytes")
)

// ComputeDomain reproduces the beacon chain's compute_domain algorithm:
// the domain is the 4-byte domain type followed by the first 28 bytes of
// the fork data root. A nil genesisRoot falls back to an all-zero root.
func ComputeDomain(domainType [4]byte, forkVersionHex string, genesisRoot []byte) ([]byte, error) {
	forkVersion, err := utils.DecodeHex(forkVersionHex)
	if err != nil {
		return nil, fmt.Errorf("%w: error decoding [%s]: %s", ErrInvalidForkVersion, forkVersionHex, err.Error())
	}
	if len(forkVersion) != ForkVersionLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidForkVersion, len(forkVersion))
	}
	if genesisRoot == nil {
		genesisRoot = make([]byte, GenesisRootLength)
	}
	if len(genesisRoot) != GenesisRootLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidGenesisRoot, len(genesisRoot))
	}

	forkData := ForkData{}
	copy(forkData.CurrentVersion[:], forkVersion)
	copy(forkData.GenesisValidatorsRoot[:], genesisRoot)
	forkDataRoot, err := forkData.HashTreeRoot()
	if err != nil {
		return nil, fmt.Errorf("error hashing fork data: %w", err)
	}

	domain := make([]byte, DomainLength)
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain, nil
}

// ComputeSigningRoot reproduces the beacon chain's compute_signing_root
// algorithm, merkleizing the object root with the signature domain.
func ComputeSigningRoot(objectRoot []byte, domain []byte) ([32]byte, error) {
	if len(objectRoot) != RootLength {
		return [32]byte{}, fmt.Errorf("%w: object root is %d bytes", ErrInvalidRootLength, len(objectRoot))
	}
	if len(domain) != DomainLength {
		return [32]byte{}, fmt.Errorf("%w: domain is %d bytes", ErrInvalidRootLength, len(domain))
	}

	signingData := SigningData{}
	copy(signingData.ObjectRoot[:], objectRoot)
	copy(signingData.Domain[:], domain)
	return signingData.HashTreeRoot()
}
