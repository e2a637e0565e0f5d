package server

import (
	"fmt"
	"net/http"
)

func (s *ExitServiceServer) snapshot(w http.ResponseWriter, r *http.Request) {
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

	s.manager.TakeSnapshot(name)
	handleSuccess(w, s.logger, struct{}{})
}
