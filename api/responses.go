package api

// A fully recombined voluntary exit, ready for broadcast to a beacon node
type FullExitBlob struct {
	PublicKey         string            `json:"public_key"`
	SignedExitMessage SignedExitMessage `json:"signed_exit_message"`
}

// api/partial-exits
type PartialExitsResponse struct {
	// The partial exits that were newly accepted by this submission;
	// duplicates of already-recorded partials are dropped silently
	Accepted []ExitBlob `json:"accepted"`
}

// api/exit
type ExitResponse struct {
	Data FullExitBlob `json:"data"`
}

// Generic response for errors
type ErrorResponse struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
}
