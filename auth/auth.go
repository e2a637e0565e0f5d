package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/p2p/enode"
	"github.com/rocket-pool/node-manager-core/utils"

	"github.com/dvnet-org/dv-exit-svc/api"
)

const (
	// An exit payload signature is r || s || v
	payloadSignatureLength int = 65
)

var (
	ErrInvalidIdentity        = errors.New("operator identity record could not be decoded")
	ErrInvalidSignatureFormat = errors.New("payload signature must be exactly 65 bytes")
)

// DecodeIdentity decodes an operator's ENR into its secp256k1 public key.
func DecodeIdentity(identityRecord string) (*ecdsa.PublicKey, error) {
	node, err := enode.Parse(enode.ValidSchemes, identityRecord)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIdentity, err.Error())
	}
	return node.Pubkey(), nil
}

// VerifyExitPayloadSignature verifies the submitting operator's signature
// over the full exit payload against the public key in its identity
// record. A false return means the signature simply didn't verify; it is
// not an error.
func VerifyExitPayloadSignature(identityRecord string, payload api.ExitPayload) (bool, error) {
	root, err := PayloadRoot(payload)
	if err != nil {
		return false, fmt.Errorf("error hashing exit payload: %w", err)
	}

	pubkey, err := DecodeIdentity(identityRecord)
	if err != nil {
		return false, err
	}

	signature, err := utils.DecodeHex(payload.Signature)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidSignatureFormat, err.Error())
	}
	if len(signature) != payloadSignatureLength {
		return false, fmt.Errorf("%w: got %d bytes", ErrInvalidSignatureFormat, len(signature))
	}

	// Drop the recovery byte; only r || s participates in verification
	verified := crypto.VerifySignature(crypto.CompressPubkey(pubkey), root[:], signature[:payloadSignatureLength-1])
	return verified, nil
}
