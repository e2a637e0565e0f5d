package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/manager"
)

func (s *ExitServiceServer) getFullExit(w http.ResponseWriter, r *http.Request) {
	args := s.processApiRequest(w, r, nil)
	lockHash := args.Get(api.ClusterKey)
	pubkey := args.Get(api.PubkeyKey)
	if lockHash == "" || pubkey == "" {
		handleInputError(w, s.logger, fmt.Errorf("missing required query args [%s] and [%s]", api.ClusterKey, api.PubkeyKey))
		return
	}

	// Recombine the exit
	fullExit, err := s.manager.GetFullExit(lockHash, pubkey)
	if err != nil {
		switch {
		case errors.Is(err, manager.ErrUnknownCluster),
			errors.Is(err, manager.ErrExitNotFound),
			errors.Is(err, manager.ErrThresholdNotReached):
			handleNotFound(w, s.logger, err)
		default:
			handleServerError(w, s.logger, err)
		}
		return
	}
	handleSuccess(w, s.logger, api.ExitResponse{Data: fullExit})
}
