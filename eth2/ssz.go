package eth2

import (
	ssz "github.com/ferranbt/fastssz"
)

// Maximum number of partial exits in one submission
const partialExitsLimit = 65536

// ForkData mirrors the beacon chain's ForkData container, hashed to
// produce the fork data root that domains are derived from.
type ForkData struct {
	CurrentVersion        [4]byte
	GenesisValidatorsRoot [32]byte
}

// HashTreeRoot ssz hashes the ForkData object
func (f *ForkData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(f)
}

// HashTreeRootWith ssz hashes the ForkData object with a hasher
func (f *ForkData) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	// Field (0) 'CurrentVersion'
	hh.PutBytes(f.CurrentVersion[:])

	// Field (1) 'GenesisValidatorsRoot'
	hh.PutBytes(f.GenesisValidatorsRoot[:])

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the ForkData object
func (f *ForkData) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(f)
}

// SigningData mirrors the beacon chain's SigningData container, the final
// object hashed before signing.
type SigningData struct {
	ObjectRoot [32]byte
	Domain     [32]byte
}

// HashTreeRoot ssz hashes the SigningData object
func (s *SigningData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SigningData object with a hasher
func (s *SigningData) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	// Field (0) 'ObjectRoot'
	hh.PutBytes(s.ObjectRoot[:])

	// Field (1) 'Domain'
	hh.PutBytes(s.Domain[:])

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the SigningData object
func (s *SigningData) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(s)
}

// VoluntaryExit is the consensus-layer voluntary exit operation.
type VoluntaryExit struct {
	Epoch          uint64
	ValidatorIndex uint64
}

// HashTreeRoot ssz hashes the VoluntaryExit object
func (v *VoluntaryExit) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(v)
}

// HashTreeRootWith ssz hashes the VoluntaryExit object with a hasher
func (v *VoluntaryExit) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	// Field (0) 'Epoch'
	hh.PutUint64(v.Epoch)

	// Field (1) 'ValidatorIndex'
	hh.PutUint64(v.ValidatorIndex)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the VoluntaryExit object
func (v *VoluntaryExit) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(v)
}

// PartialExit is one validator's partially signed exit as merkleized for
// payload authorization.
type PartialExit struct {
	PublicKey [48]byte
	Message   VoluntaryExit
	Signature [96]byte
}

// HashTreeRoot ssz hashes the PartialExit object
func (p *PartialExit) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(p)
}

// HashTreeRootWith ssz hashes the PartialExit object with a hasher
func (p *PartialExit) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	// Field (0) 'PublicKey'
	hh.PutBytes(p.PublicKey[:])

	// Field (1) 'Message'
	if err = p.Message.HashTreeRootWith(hh); err != nil {
		return
	}

	// Field (2) 'Signature'
	hh.PutBytes(p.Signature[:])

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the PartialExit object
func (p *PartialExit) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(p)
}

// PartialExitRequest is a full partial exit submission as merkleized for
// payload authorization. The partial exit list is hashed in submission
// order: signer and verifier must agree on the ordering end to end, since
// nothing here re-sorts it.
type PartialExitRequest struct {
	PartialExits []PartialExit
	ShareIndex   uint64
}

// HashTreeRoot ssz hashes the PartialExitRequest object
func (p *PartialExitRequest) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(p)
}

// HashTreeRootWith ssz hashes the PartialExitRequest object with a hasher
func (p *PartialExitRequest) HashTreeRootWith(hh ssz.HashWalker) (err error) {
	indx := hh.Index()

	// Field (0) 'PartialExits'
	{
		subIndx := hh.Index()
		num := uint64(len(p.PartialExits))
		if num > partialExitsLimit {
			err = ssz.ErrIncorrectListSize
			return
		}
		for i := range p.PartialExits {
			if err = p.PartialExits[i].HashTreeRootWith(hh); err != nil {
				return
			}
		}
		hh.MerkleizeWithMixin(subIndx, num, partialExitsLimit)
	}

	// Field (1) 'ShareIndex'
	hh.PutUint64(p.ShareIndex)

	hh.Merkleize(indx)
	return
}

// GetTree ssz hashes the PartialExitRequest object
func (p *PartialExitRequest) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(p)
}
