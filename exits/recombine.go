package exits

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rocket-pool/node-manager-core/utils"
	e2types "github.com/wealdtech/go-eth2-types/v2"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/db"
)

const partialSignatureLength int = 96

// RecombineExitBlobs aggregates every partial signature on record for a
// validator into one threshold signature. Each partial is a full BLS
// signature over the identical message and domain, so recombination is
// plain signature aggregation (point addition), not Lagrange
// interpolation. Signatures are always combined in ascending one-based
// operator index order, never submission order.
func RecombineExitBlobs(record *db.ExitRecord) (api.FullExitBlob, error) {
	if len(record.SharesExitData) == 0 {
		return api.FullExitBlob{}, ErrNoExitData
	}

	// Collect the present signatures, re-keyed from zero-based storage
	// ordinal to the one-based share index convention
	signatures := map[int][]byte{}
	for ordinal, share := range record.SharesExitData {
		if share.PartialExitSignature == "" {
			continue
		}
		signature, err := utils.DecodeHex(share.PartialExitSignature)
		if err != nil {
			return api.FullExitBlob{}, fmt.Errorf("%w: error decoding signature at share index %d: %s", ErrInvalidSignatureLength, ordinal+1, err.Error())
		}
		if len(signature) != partialSignatureLength {
			return api.FullExitBlob{}, fmt.Errorf("%w: got %d bytes at share index %d", ErrInvalidSignatureLength, len(signature), ordinal+1)
		}
		signatures[ordinal+1] = signature
	}
	if len(signatures) == 0 {
		return api.FullExitBlob{}, ErrNoSignatures
	}

	// Aggregate in ascending share index order
	indices := make([]int, 0, len(signatures))
	for index := range signatures {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	partials := make([]e2types.Signature, len(indices))
	for i, index := range indices {
		partial, err := e2types.BLSSignatureFromBytes(signatures[index])
		if err != nil {
			return api.FullExitBlob{}, fmt.Errorf("error deserializing signature at share index %d: %w", index, err)
		}
		partials[i] = partial
	}
	aggregate := e2types.AggregateSignatures(partials)

	return api.FullExitBlob{
		PublicKey: record.PublicKey,
		SignedExitMessage: api.SignedExitMessage{
			Message: api.ExitMessage{
				Epoch:          strconv.FormatUint(record.Epoch, 10),
				ValidatorIndex: strconv.FormatUint(record.ValidatorIndex, 10),
			},
			Signature: utils.EncodeHexWithPrefix(aggregate.Marshal()),
		},
	}, nil
}
