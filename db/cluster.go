package db

import (
	"github.com/dvnet-org/dv-exit-svc/api"
)

// One key-share holder in a cluster. The identity record is the
// operator's signed ENR; its embedded secp256k1 key authorizes the
// operator's exit payload submissions.
type Operator struct {
	IdentityRecord string
}

// A single validator whose key was split across the cluster's operators
// at DKG time. PublicShares is ordered by operator: the share at ordinal
// i belongs to the operator with one-based index i+1.
type DistributedValidator struct {
	PublicKey    string
	PublicShares []string
}

func (v *DistributedValidator) Clone() *DistributedValidator {
	clone := &DistributedValidator{
		PublicKey:    v.PublicKey,
		PublicShares: make([]string, len(v.PublicShares)),
	}
	copy(clone.PublicShares, v.PublicShares)
	return clone
}

// Immutable reference data for one distributed validator cluster
type Cluster struct {
	LockHash    string
	ForkVersion string
	Threshold   int
	Operators   []Operator
	Validators  []*DistributedValidator
}

func NewCluster(lockHash string, forkVersion string, threshold int) *Cluster {
	return &Cluster{
		LockHash:    lockHash,
		ForkVersion: forkVersion,
		Threshold:   threshold,
	}
}

// GetValidator returns the distributed validator with the given public
// key, or nil if the cluster doesn't contain it. Keys are compared in
// normalized form.
func (c *Cluster) GetValidator(pubkey string) *DistributedValidator {
	normalized := api.NormalizePublicKey(pubkey)
	for _, validator := range c.Validators {
		if api.NormalizePublicKey(validator.PublicKey) == normalized {
			return validator
		}
	}
	return nil
}

func (c *Cluster) Clone() *Cluster {
	clone := NewCluster(c.LockHash, c.ForkVersion, c.Threshold)
	clone.Operators = make([]Operator, len(c.Operators))
	copy(clone.Operators, c.Operators)
	clone.Validators = make([]*DistributedValidator, len(c.Validators))
	for i, validator := range c.Validators {
		clone.Validators[i] = validator.Clone()
	}
	return clone
}
