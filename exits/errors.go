package exits

import (
	"errors"
)

var (
	// Submission-level failures
	ErrShareIndexOutOfRange    = errors.New("share index is outside the cluster's operator range")
	ErrInvalidPayloadSignature = errors.New("exit payload signature does not verify against the operator's identity record")
	ErrValidatorNotFound       = errors.New("validator or key share not found in the cluster")
	ErrInvalidPartialSignature = errors.New("partial exit signature does not verify against the operator's key share")

	// Conflict classifications. These are fatal for the submission and
	// are never resolved automatically.
	ErrIndexMismatch     = errors.New("validator index does not match the existing exit record")
	ErrStaleEpoch        = errors.New("submitted epoch is older than the existing exit record")
	ErrSignatureConflict = errors.New("operator already recorded a different signature for this epoch")

	// Recombination failures
	ErrNoExitData             = errors.New("exit record has no share data")
	ErrNoSignatures           = errors.New("exit record has no partial signatures to aggregate")
	ErrInvalidSignatureLength = errors.New("partial exit signature must be exactly 96 bytes")
)
