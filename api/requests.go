package api

// Details of a voluntary exit message. Epoch and validator index are
// decimal strings on the wire, following the beacon API convention.
type ExitMessage struct {
	Epoch          string `json:"epoch"`
	ValidatorIndex string `json:"validator_index"`
}

// A voluntary exit message carrying one operator's partial BLS signature
type SignedExitMessage struct {
	Message   ExitMessage `json:"message"`
	Signature string      `json:"signature"`
}

// A single validator's partial exit
type ExitBlob struct {
	PublicKey         string            `json:"public_key"`
	SignedExitMessage SignedExitMessage `json:"signed_exit_message"`
}

// One authenticated partial exit submission from an operator, possibly
// covering many validators. ShareIndex is the operator's one-based index in
// the cluster definition; Signature is the operator's secp256k1 signature
// over the hash tree root of the submission.
type ExitPayload struct {
	PartialExits []ExitBlob `json:"partial_exits"`
	ShareIndex   int        `json:"share_index"`
	Signature    string     `json:"signature"`
}

// Request to register a cluster with the service
type AddClusterRequest struct {
	LockHash    string             `json:"lock_hash"`
	ForkVersion string             `json:"fork_version"`
	Threshold   int                `json:"threshold"`
	Operators   []string           `json:"operators"`
	Validators  []ClusterValidator `json:"validators"`
}

// A distributed validator within a cluster definition
type ClusterValidator struct {
	PublicKey    string   `json:"public_key"`
	PublicShares []string `json:"public_shares"`
}
