package clusters

import (
	"crypto/ecdsa"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rocket-pool/node-manager-core/beacon"
	"github.com/rocket-pool/node-manager-core/node/validator"
	"github.com/rocket-pool/node-manager-core/utils"
	types "github.com/wealdtech/go-eth2-types/v2"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/auth"
	"github.com/dvnet-org/dv-exit-svc/db"
	"github.com/dvnet-org/dv-exit-svc/internal/test"
)

// Share keys are derived per validator in banks of this size, so a
// cluster can hold up to this many operators
const maxOperators uint = 8

// Aggregate validator keys are derived starting at this offset to keep
// them clear of the share key banks
const validatorKeyOffset uint = 4096

var (
	OperatorKeys map[uint]*ecdsa.PrivateKey    = map[uint]*ecdsa.PrivateKey{}
	ShareKeys    map[uint]*types.BLSPrivateKey = map[uint]*types.BLSPrivateKey{}
)

// Create a cluster definition with derived operator and share keys
func ProvisionCluster(t *testing.T, numOperators int, threshold int, numValidators int) *db.Cluster {
	cluster := db.NewCluster(test.LockHash, test.GenesisForkVersionString, threshold)

	// Derive the operators and their identity records
	for i := 0; i < numOperators; i++ {
		operatorKey := GetOperatorKey(t, uint(i))
		identity, err := test.GetOperatorIdentity(operatorKey)
		if err != nil {
			t.Fatalf("Error building identity record for operator %d: %v", i, err)
		}
		cluster.Operators = append(cluster.Operators, db.Operator{IdentityRecord: identity})
	}

	// Derive each validator's aggregate key and one share per operator
	for v := 0; v < numValidators; v++ {
		aggregateKey := GetShareKey(t, validatorKeyOffset+uint(v))
		dv := &db.DistributedValidator{
			PublicKey: utils.EncodeHexWithPrefix(aggregateKey.PublicKey().Marshal()),
		}
		for o := 0; o < numOperators; o++ {
			shareKey := GetShareKey(t, shareKeyIndex(uint(v), uint(o)))
			dv.PublicShares = append(dv.PublicShares, utils.EncodeHexWithPrefix(shareKey.PublicKey().Marshal()))
		}
		cluster.Validators = append(cluster.Validators, dv)
	}
	return cluster
}

// Get the secp256k1 key for the operator at the index
func GetOperatorKey(t *testing.T, index uint) *ecdsa.PrivateKey {
	key, exists := OperatorKeys[index]
	if !exists {
		var err error
		key, err = test.GetOperatorPrivateKey(index)
		if err != nil {
			t.Fatalf("Error getting private key for operator %d: %v", index, err)
		}
		OperatorKeys[index] = key
	}
	return key
}

// Get the BLS key at the derivation index
func GetShareKey(t *testing.T, index uint) *types.BLSPrivateKey {
	key, exists := ShareKeys[index]
	if !exists {
		var err error
		key, err = test.GetSharePrivateKey(index)
		if err != nil {
			t.Fatalf("Error getting share key %d: %v", index, err)
		}
		ShareKeys[index] = key
	}
	return key
}

// Generate a partial exit for a validator, signed by one operator's key
// share under the Capella voluntary exit domain. The domain is computed
// with an independent implementation so it doubles as a reference check.
func CreateSignedPartialExit(t *testing.T, cluster *db.Cluster, validatorOrdinal int, shareIndex int, epoch uint64) api.ExitBlob {
	domain, err := types.ComputeDomain(types.DomainVoluntaryExit, test.CapellaForkVersion, test.GenesisValidatorsRoot)
	if err != nil {
		t.Fatalf("Error computing domain: %v", err)
	}

	shareKey := GetShareKey(t, shareKeyIndex(uint(validatorOrdinal), uint(shareIndex-1)))
	validatorIndex := strconv.FormatUint(uint64(55+validatorOrdinal), 10)
	exitSignature, err := validator.GetSignedExitMessage(
		shareKey,
		validatorIndex,
		epoch,
		domain,
	)
	if err != nil {
		t.Fatalf("Error signing exit for validator %d: %v", validatorOrdinal, err)
	}

	return api.ExitBlob{
		PublicKey: cluster.Validators[validatorOrdinal].PublicKey,
		SignedExitMessage: api.SignedExitMessage{
			Message: api.ExitMessage{
				Epoch:          strconv.FormatUint(epoch, 10),
				ValidatorIndex: validatorIndex,
			},
			Signature: exitSignature.HexWithPrefix(),
		},
	}
}

// Wrap partial exits into a payload signed by the submitting operator
func CreateExitPayload(t *testing.T, blobs []api.ExitBlob, shareIndex int) api.ExitPayload {
	payload := api.ExitPayload{
		PartialExits: blobs,
		ShareIndex:   shareIndex,
	}

	root, err := auth.PayloadRoot(payload)
	if err != nil {
		t.Fatalf("Error hashing exit payload: %v", err)
	}
	operatorKey := GetOperatorKey(t, uint(shareIndex-1))
	signature, err := crypto.Sign(root[:], operatorKey)
	if err != nil {
		t.Fatalf("Error signing exit payload: %v", err)
	}
	payload.Signature = utils.EncodeHexWithPrefix(signature)
	return payload
}

// SharePubkey returns the typed pubkey for a validator's share
func SharePubkey(t *testing.T, cluster *db.Cluster, validatorOrdinal int, shareIndex int) beacon.ValidatorPubkey {
	pubkey, err := beacon.HexToValidatorPubkey(cluster.Validators[validatorOrdinal].PublicShares[shareIndex-1])
	if err != nil {
		t.Fatalf("Error parsing share pubkey: %v", err)
	}
	return pubkey
}

func shareKeyIndex(validatorOrdinal uint, shareOrdinal uint) uint {
	return validatorOrdinal*maxOperators + shareOrdinal
}
