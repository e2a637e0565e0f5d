package auth

import (
	"fmt"

	"github.com/rocket-pool/node-manager-core/beacon"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/eth2"
)

// PayloadRoot computes the hash tree root an operator signs when
// submitting an exit payload. The partial exit list is merkleized in the
// order it was submitted; agreeing on that order is part of the contract
// between submitters and this service.
func PayloadRoot(payload api.ExitPayload) ([32]byte, error) {
	request := eth2.PartialExitRequest{
		PartialExits: make([]eth2.PartialExit, len(payload.PartialExits)),
		ShareIndex:   uint64(payload.ShareIndex),
	}

	for i, blob := range payload.PartialExits {
		pubkey, err := beacon.HexToValidatorPubkey(blob.PublicKey)
		if err != nil {
			return [32]byte{}, fmt.Errorf("error parsing validator pubkey [%s]: %w", blob.PublicKey, err)
		}
		signature, err := beacon.HexToValidatorSignature(blob.SignedExitMessage.Signature)
		if err != nil {
			return [32]byte{}, fmt.Errorf("error parsing partial exit signature for [%s]: %w", blob.PublicKey, err)
		}
		epoch, err := eth2.ParseUint64(blob.SignedExitMessage.Message.Epoch)
		if err != nil {
			return [32]byte{}, fmt.Errorf("error parsing epoch: %w", err)
		}
		validatorIndex, err := eth2.ParseUint64(blob.SignedExitMessage.Message.ValidatorIndex)
		if err != nil {
			return [32]byte{}, fmt.Errorf("error parsing validator index: %w", err)
		}

		request.PartialExits[i] = eth2.PartialExit{
			PublicKey: [48]byte(pubkey),
			Message: eth2.VoluntaryExit{
				Epoch:          epoch,
				ValidatorIndex: validatorIndex,
			},
			Signature: [96]byte(signature),
		}
	}

	return request.HashTreeRoot()
}
