package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"bakebot/internal/domain"
	"bakebot/internal/middleware"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// SuccessResponse wraps every successful payload
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}

// respondError writes err as an AppError body. Server side failures are
// logged with their internal cause; the client only sees the message.
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	appErr := errors.As(err)
	requestID := middleware.RequestID(r)

	if appErr.StatusCode >= http.StatusInternalServerError {
		entry := log.WithFields(map[string]interface{}{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     appErr.StatusCode,
		})
		if appErr.Internal != nil {
			entry = entry.WithError(appErr.Internal)
		}
		entry.Error(appErr.Message)
	}

	errors.Write(w, appErr, requestID)
}

// decodeJSON reads a JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if err == io.EOF {
			return errors.NewValidationError("Request body is required", nil)
		}
		return errors.NewValidationError("Invalid request body", nil)
	}
	return nil
}

// currentUser returns the session user or an authentication error
func currentUser(r *http.Request) (*domain.AuthUser, error) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		return nil, errors.NewAuthenticationError("Unauthorized")
	}
	return user, nil
}
