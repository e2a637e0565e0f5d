package db

// One operator's contribution slot in an exit record. The signature is
// empty until the operator submits a valid partial exit.
type ShareExitData struct {
	PartialExitSignature string
}

// ExitRecord accumulates partial exit signatures for one validator across
// submissions. SharesExitData is indexed by zero-based operator ordinal
// (one-based share index minus one). The record's epoch only moves
// forward: a submission with a higher epoch resets the collected
// signatures, since partials over different messages can't be aggregated.
type ExitRecord struct {
	PublicKey      string
	Epoch          uint64
	ValidatorIndex uint64
	SharesExitData []ShareExitData
}

func NewExitRecord(pubkey string, epoch uint64, validatorIndex uint64, numOperators int) *ExitRecord {
	return &ExitRecord{
		PublicKey:      pubkey,
		Epoch:          epoch,
		ValidatorIndex: validatorIndex,
		SharesExitData: make([]ShareExitData, numOperators),
	}
}

// SignatureAt returns the partial signature stored for the given
// zero-based operator ordinal, or an empty string if there is none.
func (r *ExitRecord) SignatureAt(ordinal int) string {
	if ordinal < 0 || ordinal >= len(r.SharesExitData) {
		return ""
	}
	return r.SharesExitData[ordinal].PartialExitSignature
}

// SignatureCount returns the number of contributed partial signatures.
func (r *ExitRecord) SignatureCount() int {
	count := 0
	for _, share := range r.SharesExitData {
		if share.PartialExitSignature != "" {
			count++
		}
	}
	return count
}

func (r *ExitRecord) Clone() *ExitRecord {
	clone := NewExitRecord(r.PublicKey, r.Epoch, r.ValidatorIndex, len(r.SharesExitData))
	copy(clone.SharesExitData, r.SharesExitData)
	return clone
}
