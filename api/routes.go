package api

const (
	// API routes
	PartialExitsPath string = "partial-exits"
	ExitPath         string = "exit"

	// Admin routes
	AdminAddClusterPath string = "add-cluster"
	AdminSnapshotPath   string = "snapshot"
	AdminRevertPath     string = "revert"

	// Query args
	ClusterKey string = "cluster"
	PubkeyKey  string = "pubkey"
)
