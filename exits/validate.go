package exits

import (
	"context"
	"fmt"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/auth"
	"github.com/dvnet-org/dv-exit-svc/db"
	"github.com/dvnet-org/dv-exit-svc/eth2"
)

// GenesisProvider supplies the genesis validators root for a network.
// Normally backed by a beacon node client.
type GenesisProvider interface {
	GetGenesisValidatorsRoot(ctx context.Context, forkVersion string) ([]byte, error)
}

// RecordSource supplies the existing exit records to validate submissions
// against. Normally backed by the database.
type RecordSource interface {
	GetExitRecord(pubkey string) *db.ExitRecord
}

// ValidateExitBlobs validates one operator's exit payload against the
// cluster definition and the existing exit records:
//
//   - the payload signature is verified once against the submitting
//     operator's identity record,
//   - the fork and genesis validators root are resolved once,
//   - each partial exit is classified against the validator's record and,
//     if new, its partial signature is verified under the exit domain.
//
// It returns only the newly verified blobs: duplicates of recorded
// partials are dropped silently, and the first failure aborts the whole
// batch. The caller is responsible for serializing submissions that
// target the same validator's record.
func ValidateExitBlobs(ctx context.Context, cluster *db.Cluster, payload api.ExitPayload, genesisProvider GenesisProvider, records RecordSource) ([]api.ExitBlob, error) {
	// Bounds-check the share index before using it as an ordinal
	if payload.ShareIndex < 1 || payload.ShareIndex > len(cluster.Operators) {
		return nil, fmt.Errorf("%w: share index %d, cluster has %d operators", ErrShareIndexOutOfRange, payload.ShareIndex, len(cluster.Operators))
	}
	operator := cluster.Operators[payload.ShareIndex-1]

	// Authorize the payload as a whole before looking at its contents
	verified, err := auth.VerifyExitPayloadSignature(operator.IdentityRecord, payload)
	if err != nil {
		return nil, fmt.Errorf("error verifying exit payload signature: %w", err)
	}
	if !verified {
		return nil, ErrInvalidPayloadSignature
	}

	// Resolve the fork and genesis root once for the whole batch
	capellaFork, err := eth2.CapellaFork(cluster.ForkVersion)
	if err != nil {
		return nil, err
	}
	genesisRoot, err := genesisProvider.GetGenesisValidatorsRoot(ctx, cluster.ForkVersion)
	if err != nil {
		return nil, fmt.Errorf("error getting genesis validators root: %w", err)
	}

	newBlobs := []api.ExitBlob{}
	for _, blob := range payload.PartialExits {
		validator := cluster.GetValidator(blob.PublicKey)
		if validator == nil {
			return nil, fmt.Errorf("%w: validator [%s]", ErrValidatorNotFound, blob.PublicKey)
		}
		if payload.ShareIndex > len(validator.PublicShares) {
			return nil, fmt.Errorf("%w: validator [%s] has no share at index %d", ErrValidatorNotFound, blob.PublicKey, payload.ShareIndex)
		}
		share := validator.PublicShares[payload.ShareIndex-1]

		record := records.GetExitRecord(blob.PublicKey)
		classification, err := Classify(blob, record, payload.ShareIndex-1)
		if err != nil {
			return nil, err
		}
		if classification == ClassificationDuplicate {
			continue
		}

		verified, err := verifyPartialExitSignatureForFork(share, blob.SignedExitMessage, capellaFork, genesisRoot)
		if err != nil {
			return nil, fmt.Errorf("error verifying partial exit signature for [%s]: %w", blob.PublicKey, err)
		}
		if !verified {
			return nil, fmt.Errorf("%w: validator [%s], share index %d", ErrInvalidPartialSignature, blob.PublicKey, payload.ShareIndex)
		}
		newBlobs = append(newBlobs, blob)
	}
	return newBlobs, nil
}
