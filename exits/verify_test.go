package exits

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dvnet-org/dv-exit-svc/eth2"
	"github.com/dvnet-org/dv-exit-svc/internal/clusters"
	"github.com/dvnet-org/dv-exit-svc/internal/test"
)

func TestVerifyPartialExitSignature(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)

	// Sign with share 2's key, verify against share 2's public key
	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	share := cluster.Validators[0].PublicShares[1]

	verified, err := VerifyPartialExitSignature(share, blob.SignedExitMessage, cluster.ForkVersion, test.GenesisValidatorsRoot)
	require.NoError(t, err)
	require.True(t, verified)
	t.Logf("Verified partial exit signature for share %s", share)
}

// Batch validation resolves the Capella fork once up front; verifying
// under the pre-resolved fork must agree with resolving from the base
// fork version
func TestVerifyPartialExitSignaturePreResolvedFork(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)

	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	share := cluster.Validators[0].PublicShares[1]

	capellaFork, err := eth2.CapellaFork(cluster.ForkVersion)
	require.NoError(t, err)
	require.Equal(t, test.CapellaForkVersionString, capellaFork)

	verified, err := verifyPartialExitSignatureForFork(share, blob.SignedExitMessage, capellaFork, test.GenesisValidatorsRoot)
	require.NoError(t, err)
	require.True(t, verified)
}

func TestVerifyPartialExitSignatureWrongShare(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)

	// Signed by share 2's key but checked against share 3's public key
	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	share := cluster.Validators[0].PublicShares[2]

	verified, err := VerifyPartialExitSignature(share, blob.SignedExitMessage, cluster.ForkVersion, test.GenesisValidatorsRoot)
	require.NoError(t, err)
	require.False(t, verified)
}

// A signature over one message must not verify for another
func TestVerifyPartialExitSignatureWrongMessage(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)

	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	share := cluster.Validators[0].PublicShares[1]

	tampered := blob.SignedExitMessage
	tampered.Message.Epoch = strconv.FormatUint(test.ExitEpoch+1, 10)
	verified, err := VerifyPartialExitSignature(share, tampered, cluster.ForkVersion, test.GenesisValidatorsRoot)
	require.NoError(t, err)
	require.False(t, verified)

	tampered = blob.SignedExitMessage
	tampered.Message.ValidatorIndex = "56"
	verified, err = VerifyPartialExitSignature(share, tampered, cluster.ForkVersion, test.GenesisValidatorsRoot)
	require.NoError(t, err)
	require.False(t, verified)
}

// The domain binds the signature to the network
func TestVerifyPartialExitSignatureWrongNetwork(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)

	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	share := cluster.Validators[0].PublicShares[1]

	// Mainnet instead of the cluster's network
	verified, err := VerifyPartialExitSignature(share, blob.SignedExitMessage, "0x00000000", test.GenesisValidatorsRoot)
	require.NoError(t, err)
	require.False(t, verified)

	// Different genesis validators root
	otherRoot := make([]byte, 32)
	verified, err = VerifyPartialExitSignature(share, blob.SignedExitMessage, cluster.ForkVersion, otherRoot)
	require.NoError(t, err)
	require.False(t, verified)
}

func TestVerifyPartialExitSignatureBadInputs(t *testing.T) {
	cluster := clusters.ProvisionCluster(t, 4, 3, 1)
	blob := clusters.CreateSignedPartialExit(t, cluster, 0, 2, test.ExitEpoch)
	share := cluster.Validators[0].PublicShares[1]

	// Unknown network
	_, err := VerifyPartialExitSignature(share, blob.SignedExitMessage, "0xdeadbeef", test.GenesisValidatorsRoot)
	require.Error(t, err)

	// Malformed epoch
	tampered := blob.SignedExitMessage
	tampered.Message.Epoch = "100.5"
	_, err = VerifyPartialExitSignature(share, tampered, cluster.ForkVersion, test.GenesisValidatorsRoot)
	require.Error(t, err)

	// Malformed signature
	tampered = blob.SignedExitMessage
	tampered.Signature = "0x1234"
	_, err = VerifyPartialExitSignature(share, tampered, cluster.ForkVersion, test.GenesisValidatorsRoot)
	require.Error(t, err)

	// Malformed public key share
	_, err = VerifyPartialExitSignature("0x1234", blob.SignedExitMessage, cluster.ForkVersion, test.GenesisValidatorsRoot)
	require.Error(t, err)
}
