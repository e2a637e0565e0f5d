package server

import (
	"fmt"
	"net/http"
)

func (s *ExitServiceServer) revert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		handleInvalidMethod(w, s.logger)
		return
	}

	args := s.processApiRequest(w, r, nil)
	name := args.Get("name")
	if name == "" {
		handleInputError(w, s.logger, fmt.Errorf("missing snapshot name"))
		return
	}

	err := s.manager.RevertToSnapshot(name)
	if err != nil {
		handleServerError(w, s.logger, err)
		return
	}
	handleSuccess(w, s.logger, struct{}{})
}
