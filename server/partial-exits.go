package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/auth"
	"github.com/dvnet-org/dv-exit-svc/eth2"
	"github.com/dvnet-org/dv-exit-svc/exits"
	"github.com/dvnet-org/dv-exit-svc/manager"
)

func (s *ExitServiceServer) submitPartialExits(w http.ResponseWriter, r *http.Request) {
	// Get the submission
	var payload api.ExitPayload
	args := s.processApiRequest(w, r, &payload)
	if args == nil {
		return
	}
	lockHash := args.Get(api.ClusterKey)
	if lockHash == "" {
		handleInputError(w, s.logger, fmt.Errorf("missing required query arg [%s]", api.ClusterKey))
		return
	}

	// Handle the upload
	accepted, err := s.manager.HandlePartialExitUpload(r.Context(), lockHash, payload)
	if err != nil {
		switch {
		// Conflicting submissions are fatal and never resolved automatically
		case errors.Is(err, exits.ErrStaleEpoch),
			errors.Is(err, exits.ErrSignatureConflict),
			errors.Is(err, exits.ErrIndexMismatch):
			handleConflict(w, s.logger, err)

		// The payload wasn't signed by the claimed operator
		case errors.Is(err, exits.ErrInvalidPayloadSignature),
			errors.Is(err, auth.ErrInvalidIdentity):
			handleUnauthorized(w, s.logger, err)

		case errors.Is(err, manager.ErrUnknownCluster),
			errors.Is(err, exits.ErrValidatorNotFound):
			handleNotFound(w, s.logger, err)

		case errors.Is(err, exits.ErrShareIndexOutOfRange),
			errors.Is(err, exits.ErrInvalidPartialSignature),
			errors.Is(err, auth.ErrInvalidSignatureFormat),
			errors.Is(err, eth2.ErrOutOfRange),
			errors.Is(err, eth2.ErrUnsupportedNetwork):
			handleInputError(w, s.logger, err)

		default:
			handleServerError(w, s.logger, err)
		}
		return
	}
	handleSuccess(w, s.logger, api.PartialExitsResponse{Accepted: accepted})
}
