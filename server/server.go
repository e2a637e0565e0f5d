package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rocket-pool/node-manager-core/log"

	"github.com/dvnet-org/dv-exit-svc/api"
	"github.com/dvnet-org/dv-exit-svc/exits"
	"github.com/dvnet-org/dv-exit-svc/manager"
)

type ExitServiceServer struct {
	logger  *slog.Logger
	ip      string
	port    uint16
	socket  net.Listener
	server  http.Server
	router  *mux.Router
	manager *manager.ExitServiceManager
}

func NewExitServiceServer(logger *slog.Logger, ip string, port uint16, genesisProvider exits.GenesisProvider) (*ExitServiceServer, error) {
	// Create the router
	router := mux.NewRouter()

	// Create the manager
	server := &ExitServiceServer{
		logger: logger,
		ip:     ip,
		port:   port,
		router: router,
		server: http.Server{
			Handler: router,
		},
		manager: manager.NewExitServiceManager(logger, genesisProvider),
	}

	// Register each route
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(server.requestID)
	server.registerApiRoutes(apiRouter)
	adminRouter := router.PathPrefix("/admin").Subrouter()
	server.registerAdminRoutes(adminRouter)
	return server, nil
}

// Starts listening for incoming HTTP requests
func (s *ExitServiceServer) Start(wg *sync.WaitGroup) error {
	// Create the socket
	socket, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.ip, s.port))
	if err != nil {
		return fmt.Errorf("error creating socket: %w", err)
	}
	s.socket = socket

	// Get the port if random
	if s.port == 0 {
		s.port = uint16(socket.Addr().(*net.TCPAddr).Port)
	}

	// Start listening
	wg.Add(1)
	go func() {
		err := s.server.Serve(socket)
		if !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("error while listening for HTTP requests", log.Err(err))
		}
		wg.Done()
	}()

	return nil
}

// Stops the HTTP listener
func (s *ExitServiceServer) Stop() error {
	err := s.server.Shutdown(context.Background())
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error stopping listener: %w", err)
	}
	return nil
}

// Get the port the server is listening on
func (s *ExitServiceServer) GetPort() uint16 {
	return s.port
}

// Get the manager for direct access
func (s *ExitServiceServer) GetManager() *manager.ExitServiceManager {
	return s.manager
}

// API routes
func (s *ExitServiceServer) registerApiRoutes(apiRouter *mux.Router) {
	// partial-exits
	partialExits := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.submitPartialExits(w, r)
		default:
			handleInvalidMethod(w, s.logger)
		}
	}
	apiRouter.HandleFunc("/"+api.PartialExitsPath, partialExits)

	// exit
	exit := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.getFullExit(w, r)
		default:
			handleInvalidMethod(w, s.logger)
		}
	}
	apiRouter.HandleFunc("/"+api.ExitPath, exit)
}

// Admin routes
func (s *ExitServiceServer) registerAdminRoutes(adminRouter *mux.Router) {
	adminRouter.HandleFunc("/"+api.AdminAddClusterPath, s.addCluster)
	adminRouter.HandleFunc("/"+api.AdminSnapshotPath, s.snapshot)
	adminRouter.HandleFunc("/"+api.AdminRevertPath, s.revert)
}

// Tags each request with a short ID so concurrent submissions can be told
// apart in the logs
func (s *ExitServiceServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		s.logger.Info("New request",
			"id", id,
			slog.String(log.MethodKey, r.Method),
			slog.String(log.PathKey, r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

// =============
// === Utils ===
// =============

func (s *ExitServiceServer) processApiRequest(w http.ResponseWriter, r *http.Request, requestBody any) url.Values {
	args := r.URL.Query()
	s.logger.Debug("Request params:", slog.String(log.QueryKey, r.URL.RawQuery))

	if requestBody != nil {
		// Read the body
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			handleInputError(w, s.logger, fmt.Errorf("error reading request body: %w", err))
			return nil
		}
		s.logger.Debug("Request body:", slog.String(log.BodyKey, string(bodyBytes)))

		// Deserialize the body
		err = json.Unmarshal(bodyBytes, &requestBody)
		if err != nil {
			handleInputError(w, s.logger, fmt.Errorf("error deserializing request body: %w", err))
			return nil
		}
	}

	return args
}
