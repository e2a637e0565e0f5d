package exits

import (
	"fmt"

	"github.com/rocket-pool/node-manager-core/beacon"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/db"
	"github.com/dvnet-org/dv-exit-svc/eth2"
)

// Classification of a submitted partial exit against the existing record
type Classification int

const (
	// The partial exit contributes new information and must be verified
	// and recorded
	ClassificationNew Classification = iota

	// The partial exit is already on record and can be dropped silently
	ClassificationDuplicate
)

func (c Classification) String() string {
	switch c {
	case ClassificationNew:
		return "new"
	case ClassificationDuplicate:
		return "duplicate"
	default:
		return fmt.Sprintf("unknown (%d)", int(c))
	}
}

// Classify decides whether a submitted partial exit is new or a duplicate
// of what's already on record for its validator, or fails if it conflicts
// with the record. shareOrdinal is the submitting operator's zero-based
// ordinal. Epochs only move forward: an older epoch is stale regardless
// of whether its signature would verify.
func Classify(blob api.ExitBlob, record *db.ExitRecord, shareOrdinal int) (Classification, error) {
	// No record yet, or a record for a different validator
	if record == nil {
		return ClassificationNew, nil
	}
	if record.PublicKey != api.NormalizePublicKey(blob.PublicKey) {
		return ClassificationNew, nil
	}

	epoch, err := eth2.ParseUint64(blob.SignedExitMessage.Message.Epoch)
	if err != nil {
		return 0, fmt.Errorf("error parsing epoch: %w", err)
	}
	validatorIndex, err := eth2.ParseUint64(blob.SignedExitMessage.Message.ValidatorIndex)
	if err != nil {
		return 0, fmt.Errorf("error parsing validator index: %w", err)
	}

	if validatorIndex != record.ValidatorIndex {
		return 0, fmt.Errorf("%w: submitted %d, recorded %d", ErrIndexMismatch, validatorIndex, record.ValidatorIndex)
	}
	if epoch < record.Epoch {
		return 0, fmt.Errorf("%w: submitted %d, recorded %d", ErrStaleEpoch, epoch, record.Epoch)
	}
	if epoch > record.Epoch {
		return ClassificationNew, nil
	}

	// Same epoch: compare against the operator's recorded signature
	existing := record.SignatureAt(shareOrdinal)
	if existing == "" {
		return ClassificationNew, nil
	}
	existingSignature, err := beacon.HexToValidatorSignature(existing)
	if err != nil {
		return 0, fmt.Errorf("error parsing recorded signature: %w", err)
	}
	submittedSignature, err := beacon.HexToValidatorSignature(blob.SignedExitMessage.Signature)
	if err != nil {
		return 0, fmt.Errorf("error parsing submitted signature: %w", err)
	}
	if existingSignature != submittedSignature {
		return 0, fmt.Errorf("%w: share index %d", ErrSignatureConflict, shareOrdinal+1)
	}
	return ClassificationDuplicate, nil
}
