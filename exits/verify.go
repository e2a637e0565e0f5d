package exits

import (
	"fmt"

	"github.com/rocket-pool/node-manager-core/beacon"
	e2types "github.com/wealdtech/go-eth2-types/v2"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/eth2"
)

// VerifyPartialExitSignature verifies one operator's partial signature
// over an exit message against the operator's public key share. The
// message is signed under the network's Capella voluntary exit domain. A
// false return means the signature didn't verify; it is not an error.
func VerifyPartialExitSignature(publicShareKey string, signedMessage api.SignedExitMessage, baseForkVersion string, genesisRoot []byte) (bool, error) {
	capellaFork, err := eth2.CapellaFork(baseForkVersion)
	if err != nil {
		return false, err
	}
	return verifyPartialExitSignatureForFork(publicShareKey, signedMessage, capellaFork, genesisRoot)
}

// Verification core, taking the Capella fork already resolved so batch
// callers resolve it once instead of per blob.
func verifyPartialExitSignatureForFork(publicShareKey string, signedMessage api.SignedExitMessage, capellaFork string, genesisRoot []byte) (bool, error) {
	epoch, err := eth2.ParseUint64(signedMessage.Message.Epoch)
	if err != nil {
		return false, fmt.Errorf("error parsing epoch: %w", err)
	}
	validatorIndex, err := eth2.ParseUint64(signedMessage.Message.ValidatorIndex)
	if err != nil {
		return false, fmt.Errorf("error parsing validator index: %w", err)
	}
	exit := eth2.VoluntaryExit{
		Epoch:          epoch,
		ValidatorIndex: validatorIndex,
	}
	exitRoot, err := exit.HashTreeRoot()
	if err != nil {
		return false, fmt.Errorf("error hashing voluntary exit: %w", err)
	}

	domain, err := eth2.ComputeDomain(eth2.DomainVoluntaryExit, capellaFork, genesisRoot)
	if err != nil {
		return false, fmt.Errorf("error computing voluntary exit domain: %w", err)
	}
	signingRoot, err := eth2.ComputeSigningRoot(exitRoot[:], domain)
	if err != nil {
		return false, fmt.Errorf("error computing signing root: %w", err)
	}

	pubkey, err := beacon.HexToValidatorPubkey(publicShareKey)
	if err != nil {
		return false, fmt.Errorf("error parsing public key share [%s]: %w", publicShareKey, err)
	}
	signatureBytes, err := beacon.HexToValidatorSignature(signedMessage.Signature)
	if err != nil {
		return false, fmt.Errorf("error parsing partial exit signature: %w", err)
	}

	blsPubkey, err := e2types.BLSPublicKeyFromBytes(pubkey[:])
	if err != nil {
		return false, fmt.Errorf("error deserializing public key share: %w", err)
	}
	blsSignature, err := e2types.BLSSignatureFromBytes(signatureBytes[:])
	if err != nil {
		return false, fmt.Errorf("error deserializing partial exit signature: %w", err)
	}
	return blsSignature.Verify(signingRoot[:], blsPubkey), nil
}
