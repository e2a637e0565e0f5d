package db

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvnet-org/dv-exit-svc/api"
)

const (
	testLockHash    string = "0x66cf1e1072b46d387e8972948274b4ff3c8df52eeb329e88cae6e4c2fcb7925f"
	testForkVersion string = "0x01017000"
)

func makeTestCluster() *Cluster {
	cluster := NewCluster(testLockHash, testForkVersion, 3)
	cluster.Operators = make([]Operator, 4)
	cluster.Validators = []*DistributedValidator{
		{
			PublicKey:    "0x" + strings.Repeat("b1", 48),
			PublicShares: []string{"0x" + strings.Repeat("01", 48), "0x" + strings.Repeat("02", 48), "0x" + strings.Repeat("03", 48), "0x" + strings.Repeat("04", 48)},
		},
	}
	return cluster
}

func makeTestBlob(epoch string, signature string) api.ExitBlob {
	return api.ExitBlob{
		PublicKey: "0x" + strings.Repeat("B1", 48), // mixed case on purpose
		SignedExitMessage: api.SignedExitMessage{
			Message: api.ExitMessage{
				Epoch:          epoch,
				ValidatorIndex: "55",
			},
			Signature: signature,
		},
	}
}

func TestAddCluster(t *testing.T) {
	database := NewDatabase(slog.Default())
	cluster := makeTestCluster()
	require.NoError(t, database.AddCluster(cluster))
	require.Same(t, cluster, database.GetCluster(testLockHash))
	require.NotNil(t, database.ExitRecordSet(testLockHash))

	// Lock hashes are unique
	require.Error(t, database.AddCluster(makeTestCluster()))
}

func TestApplyExitBlob(t *testing.T) {
	database := NewDatabase(slog.Default())
	require.NoError(t, database.AddCluster(makeTestCluster()))

	// First submission starts a record under the normalized pubkey
	signature := "0x" + strings.Repeat("ab", 96)
	blob := makeTestBlob("100", signature)
	require.NoError(t, database.ApplyExitBlob(testLockHash, blob, 2, 4))

	record := database.ExitRecordSet(testLockHash).GetExitRecord(blob.PublicKey)
	require.NotNil(t, record)
	require.Equal(t, api.NormalizePublicKey(blob.PublicKey), record.PublicKey)
	require.Equal(t, uint64(100), record.Epoch)
	require.Equal(t, uint64(55), record.ValidatorIndex)
	require.Len(t, record.SharesExitData, 4)
	require.Equal(t, signature, record.SignatureAt(1))
	require.Equal(t, 1, record.SignatureCount())

	// A second operator fills its own slot
	otherSignature := "0x" + strings.Repeat("cd", 96)
	require.NoError(t, database.ApplyExitBlob(testLockHash, makeTestBlob("100", otherSignature), 3, 4))
	record = database.ExitRecordSet(testLockHash).GetExitRecord(blob.PublicKey)
	require.Equal(t, signature, record.SignatureAt(1))
	require.Equal(t, otherSignature, record.SignatureAt(2))
	require.Equal(t, 2, record.SignatureCount())
}

// A higher epoch starts the record over: partials over different
// messages can't be aggregated together
func TestApplyExitBlobEpochBump(t *testing.T) {
	database := NewDatabase(slog.Default())
	require.NoError(t, database.AddCluster(makeTestCluster()))

	signature := "0x" + strings.Repeat("ab", 96)
	require.NoError(t, database.ApplyExitBlob(testLockHash, makeTestBlob("100", signature), 2, 4))
	require.NoError(t, database.ApplyExitBlob(testLockHash, makeTestBlob("100", signature), 3, 4))

	newSignature := "0x" + strings.Repeat("ef", 96)
	require.NoError(t, database.ApplyExitBlob(testLockHash, makeTestBlob("101", newSignature), 4, 4))

	record := database.ExitRecordSet(testLockHash).GetExitRecord("0x" + strings.Repeat("b1", 48))
	require.Equal(t, uint64(101), record.Epoch)
	require.Equal(t, 1, record.SignatureCount())
	require.Equal(t, "", record.SignatureAt(1))
	require.Equal(t, newSignature, record.SignatureAt(3))
}

func TestApplyExitBlobUnknownCluster(t *testing.T) {
	database := NewDatabase(slog.Default())
	signature := "0x" + strings.Repeat("ab", 96)
	require.Error(t, database.ApplyExitBlob("0xmissing", makeTestBlob("100", signature), 1, 4))
}

func TestClone(t *testing.T) {
	database := NewDatabase(slog.Default())
	require.NoError(t, database.AddCluster(makeTestCluster()))
	signature := "0x" + strings.Repeat("ab", 96)
	require.NoError(t, database.ApplyExitBlob(testLockHash, makeTestBlob("100", signature), 2, 4))

	clone := database.Clone()

	// Mutating the original must not leak into the clone
	otherSignature := "0x" + strings.Repeat("cd", 96)
	require.NoError(t, database.ApplyExitBlob(testLockHash, makeTestBlob("100", otherSignature), 3, 4))
	database.GetCluster(testLockHash).Validators[0].PublicShares[0] = "changed"

	cloneRecord := clone.ExitRecordSet(testLockHash).GetExitRecord("0x" + strings.Repeat("b1", 48))
	require.Equal(t, 1, cloneRecord.SignatureCount())
	require.Equal(t, "0x"+strings.Repeat("01", 48), clone.GetCluster(testLockHash).Validators[0].PublicShares[0])
}
