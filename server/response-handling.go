package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rocket-pool/node-manager-core/log"

	"github.com/dvnet-org/dv-exit-svc/api"
)

// Handle routes called with an invalid method
func handleInvalidMethod(w http.ResponseWriter, logger *slog.Logger) {
	writeResponse(w, logger, http.StatusMethodNotAllowed, []byte{})
}

// Handles an error related to parsing the input parameters of a request
func handleInputError(w http.ResponseWriter, logger *slog.Logger, err error) {
	msg := err.Error()
	bytes := formatError(msg)
	writeResponse(w, logger, http.StatusBadRequest, bytes)
}

// Write an error if the payload wasn't authorized by the claimed operator
func handleUnauthorized(w http.ResponseWriter, logger *slog.Logger, err error) {
	msg := err.Error()
	bytes := formatError(msg)
	writeResponse(w, logger, http.StatusUnauthorized, bytes)
}

// Write an error if the submission conflicts with the recorded state
func handleConflict(w http.ResponseWriter, logger *slog.Logger, err error) {
	msg := err.Error()
	bytes := formatError(msg)
	writeResponse(w, logger, http.StatusConflict, bytes)
}

// Write an error if the requested resource doesn't exist yet
func handleNotFound(w http.ResponseWriter, logger *slog.Logger, err error) {
	msg := err.Error()
	bytes := formatError(msg)
	writeResponse(w, logger, http.StatusNotFound, bytes)
}

// Write an error for an unexpected server fault
func handleServerError(w http.ResponseWriter, logger *slog.Logger, err error) {
	msg := err.Error()
	bytes := formatError(msg)
	writeResponse(w, logger, http.StatusInternalServerError, bytes)
}

// The request completed successfully
func handleSuccess(w http.ResponseWriter, logger *slog.Logger, message any) {
	bytes := []byte{}
	if message != nil {
		// Serialize the response
		var err error
		bytes, err = json.Marshal(message)
		if err != nil {
			handleServerError(w, logger, fmt.Errorf("error serializing response: %w", err))
		}
	}

	// Write it
	logger.Debug("Response body", slog.String(log.BodyKey, string(bytes)))
	writeResponse(w, logger, http.StatusOK, bytes)
}

// Writes a response to an HTTP request back to the client and logs it
func writeResponse(w http.ResponseWriter, logger *slog.Logger, statusCode int, message []byte) {
	// Prep the log attributes
	codeMsg := fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	attrs := []any{
		slog.String(log.CodeKey, codeMsg),
	}

	// Log the response
	logMsg := "Responded with:"
	switch statusCode {
	case http.StatusOK:
		logger.Info(logMsg, attrs...)
	case http.StatusInternalServerError:
		logger.Error(logMsg, attrs...)
	default:
		logger.Warn(logMsg, attrs...)
	}

	// Write it to the client
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, writeErr := w.Write(message)
	if writeErr != nil {
		logger.Error("Error writing response", "error", writeErr)
	}
}

// JSONifies an error for responding to requests
func formatError(message string) []byte {
	msg := api.ErrorResponse{
		Ok:      false,
		Message: message,
	}

	bytes, _ := json.Marshal(msg)
	return bytes
}
