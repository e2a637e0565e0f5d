package exits

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/db"
	"github.com/dvnet-org/dv-exit-svc/internal/clusters"
	"github.com/dvnet-org/dv-exit-svc/internal/test"
)

// End-to-end validation against a live record set: submissions from
// several operators for the same validator, with replays, stale epochs,
// and conflicts along the way
func TestValidateExitBlobs(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)
	database := db.NewDatabase(slog.Default())
	require.NoError(t, database.AddCluster(cluster))
	records := database.ExitRecordSet(cluster.LockHash)
	genesis := &test.StaticGenesisProvider{Root: test.GenesisValidatorsRoot}
	ctx := context.Background()

	// Operator 2 submits first
	blob2 := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	payload2 := clusters.CreateExitPayload(t, []api.ExitBlob{blob2}, 2)
	newBlobs, err := ValidateExitBlobs(ctx, cluster, payload2, genesis, records)
	require.NoError(t, err)
	require.Len(t, newBlobs, 1)
	require.NoError(t, database.ApplyExitBlob(cluster.LockHash, newBlobs[0], 2, len(cluster.Operators)))
	t.Log("Accepted operator 2's partial exit")

	// Replaying the same payload is a silent no-op
	newBlobs, err = ValidateExitBlobs(ctx, cluster, payload2, genesis, records)
	require.NoError(t, err)
	require.Empty(t, newBlobs)
	t.Log("Replay was dropped silently")

	// An older epoch from operator 3 is stale
	staleBlob := clusters.CreateSignedPartialExit(t, cluster, 0, 3, test.ExitEpoch-1)
	stalePayload := clusters.CreateExitPayload(t, []api.ExitBlob{staleBlob}, 3)
	_, err = ValidateExitBlobs(ctx, cluster, stalePayload, genesis, records)
	require.ErrorIs(t, err, ErrStaleEpoch)
	t.Log("Stale epoch was rejected")

	// Operator 2 resubmitting the same epoch with a different signature
	// is a conflict
	conflictBlob := blob2
	conflictBlob.SignedExitMessage.Signature = "0x" + strings.Repeat("cd", 96)
	conflictPayload := clusters.CreateExitPayload(t, []api.ExitBlob{conflictBlob}, 2)
	_, err = ValidateExitBlobs(ctx, cluster, conflictPayload, genesis, records)
	require.ErrorIs(t, err, ErrSignatureConflict)
	t.Log("Conflicting signature was rejected")

	// Operators 3 and 4 contribute at the same epoch
	for _, shareIndex := range []int{3, 4} {
		blob := clusters.CreateSignedPartialExit(t, cluster, 0, shareIndex, test.ExitEpoch)
		payload := clusters.CreateExitPayload(t, []api.ExitBlob{blob}, shareIndex)
		newBlobs, err = ValidateExitBlobs(ctx, cluster, payload, genesis, records)
		require.NoError(t, err)
		require.Len(t, newBlobs, 1)
		require.NoError(t, database.ApplyExitBlob(cluster.LockHash, newBlobs[0], shareIndex, len(cluster.Operators)))
	}
	record := records.GetExitRecord(cluster.Validators[0].PublicKey)
	require.NotNil(t, record)
	require.Equal(t, 3, record.SignatureCount())
	t.Log("Collected three partial signatures")
}

func TestValidateExitBlobsShareIndexOutOfRange(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)
	genesis := &test.StaticGenesisProvider{Root: test.GenesisValidatorsRoot}

	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 1, test.ExitEpoch)
	payload := clusters.CreateExitPayload(t, []api.ExitBlob{blob}, 1)

	payload.ShareIndex = 0
	_, err := ValidateExitBlobs(context.Background(), cluster, payload, genesis, db.RecordSet{})
	require.ErrorIs(t, err, ErrShareIndexOutOfRange)

	payload.ShareIndex = len(cluster.Operators) + 1
	_, err = ValidateExitBlobs(context.Background(), cluster, payload, genesis, db.RecordSet{})
	require.ErrorIs(t, err, ErrShareIndexOutOfRange)
}

func TestValidateExitBlobsBadPayloadSignature(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)
	genesis := &test.StaticGenesisProvider{Root: test.GenesisValidatorsRoot}

	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 1, test.ExitEpoch)

	// Payload signed by operator 2's key but submitted as operator 1
	payload := clusters.CreateExitPayload(t, []api.ExitBlob{blob}, 2)
	payload.ShareIndex = 1
	_, err := ValidateExitBlobs(context.Background(), cluster, payload, genesis, db.RecordSet{})
	require.ErrorIs(t, err, ErrInvalidPayloadSignature)

	// Payload contents changed after signing
	payload = clusters.CreateExitPayload(t, []api.ExitBlob{blob}, 1)
	payload.PartialExits[0].SignedExitMessage.Message.Epoch = "101"
	_, err = ValidateExitBlobs(context.Background(), cluster, payload, genesis, db.RecordSet{})
	require.ErrorIs(t, err, ErrInvalidPayloadSignature)
}

func TestValidateExitBlobsUnknownValidator(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)
	genesis := &test.StaticGenesisProvider{Root: test.GenesisValidatorsRoot}

	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 1, test.ExitEpoch)
	blob.PublicKey = "0x" + strings.Repeat("ff", 48)
	payload := clusters.CreateExitPayload(t, []api.ExitBlob{blob}, 1)

	_, err := ValidateExitBlobs(context.Background(), cluster, payload, genesis, db.RecordSet{})
	require.ErrorIs(t, err, ErrValidatorNotFound)
}

func TestValidateExitBlobsInvalidPartialSignature(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)
	genesis := &test.StaticGenesisProvider{Root: test.GenesisValidatorsRoot}

	// Exit signed by share 2's key, submitted by operator 1: the payload
	// authorization passes but the partial signature doesn't match share 1
	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	payload := clusters.CreateExitPayload(t, []api.ExitBlob{blob}, 1)

	_, err := ValidateExitBlobs(context.Background(), cluster, payload, genesis, db.RecordSet{})
	require.ErrorIs(t, err, ErrInvalidPartialSignature)
}
