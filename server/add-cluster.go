package server

import (
	"fmt"
	"net/http"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/db"
)

func (s *ExitServiceServer) addCluster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		handleInvalidMethod(w, s.logger)
		return
	}

	// Get the cluster definition
	var request api.AddClusterRequest
	args := s.processApiRequest(w, r, &request)
	if args == nil {
		return
	}
	if request.LockHash == "" {
		handleInputError(w, s.logger, fmt.Errorf("cluster definition is missing a lock hash"))
		return
	}
	if request.Threshold < 1 || request.Threshold > len(request.Operators) {
		handleInputError(w, s.logger, fmt.Errorf("threshold %d is invalid for %d operators", request.Threshold, len(request.Operators)))
		return
	}

	// Build and register it
	cluster := db.NewCluster(request.LockHash, request.ForkVersion, request.Threshold)
	for _, enr := range request.Operators {
		cluster.Operators = append(cluster.Operators, db.Operator{IdentityRecord: enr})
	}
	for _, validator := range request.Validators {
		if len(validator.PublicShares) != len(request.Operators) {
			handleInputError(w, s.logger, fmt.Errorf("validator [%s] has %d shares for %d operators", validator.PublicKey, len(validator.PublicShares), len(request.Operators)))
			return
		}
		cluster.Validators = append(cluster.Validators, &db.DistributedValidator{
			PublicKey:    validator.PublicKey,
			PublicShares: validator.PublicShares,
		})
	}
	err := s.manager.AddCluster(cluster)
	if err != nil {
		handleServerError(w, s.logger, err)
		return
	}
	s.logger.Info("Added cluster", "lock_hash", request.LockHash, "validators", len(request.Validators))
	handleSuccess(w, s.logger, struct{}{})
}
