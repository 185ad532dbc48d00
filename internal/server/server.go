// Package server exposes the HTTP API. Routing uses the standard
// library mux; all domain work is delegated to the expert service, the
// AI gateway and storage.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/plant-pal/internal/ai"
	"github.com/xaenox/plant-pal/internal/apperr"
	"github.com/xaenox/plant-pal/internal/expert"
	"github.com/xaenox/plant-pal/internal/models"
	"github.com/xaenox/plant-pal/internal/storage"
)

// Identifier is the slice of the AI gateway the identify endpoints use.
type Identifier interface {
	IdentifyByName(ctx context.Context, name string) (*models.IdentificationResult, error)
	IdentifyByImage(ctx context.Context, image []byte, mimeType string) (*models.IdentificationResult, error)
}

type Server struct {
	storage    storage.Storage
	identifier Identifier
	expert     *expert.Service
	logger     *zap.Logger
}

func New(store storage.Storage, identifier Identifier, expertSvc *expert.Service, logger *zap.Logger) *Server {
	return &Server{
		storage:    store,
		identifier: identifier,
		expert:     expertSvc,
		logger:     logger,
	}
}

// Router builds the API mux.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/identify/by-name", s.handleIdentifyByName)
	mux.HandleFunc("POST /api/identify/by-image", s.handleIdentifyByImage)

	mux.HandleFunc("POST /api/care-guide/generate", s.handleGenerateCareGuide)

	mux.HandleFunc("POST /api/chat/{plantId}/message", s.handleChatMessage)
	mux.HandleFunc("GET /api/chat/{plantId}/history", s.handleChatHistory)
	mux.HandleFunc("DELETE /api/chat/{plantId}/history", s.handleClearChatHistory)

	mux.HandleFunc("POST /api/plants", s.handleAddPlant)
	mux.HandleFunc("GET /api/plants/user/{userId}", s.handleListPlants)
	mux.HandleFunc("GET /api/plants/{plantId}", s.handleGetPlant)
	mux.HandleFunc("PATCH /api/plants/{plantId}", s.handleUpdatePlant)
	mux.HandleFunc("DELETE /api/plants/{plantId}", s.handleDeletePlant)

	mux.HandleFunc("GET /api/journal/{plantId}", s.handleListJournal)
	mux.HandleFunc("POST /api/journal", s.handleAddJournalEntry)
	mux.HandleFunc("DELETE /api/journal/{entryId}", s.handleDeleteJournalEntry)

	mux.HandleFunc("GET /api/notifications/user/{userId}", s.handleListNotifications)
	mux.HandleFunc("PATCH /api/notifications/{notifId}/read", s.handleMarkNotificationRead)
	mux.HandleFunc("PATCH /api/notifications/user/{userId}/read-all", s.handleMarkAllNotificationsRead)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	return mux
}

// timeNow is a hook for tests that pin days_growing computations.
var timeNow = time.Now

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// respond writes a JSON body with the given status.
func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// fail maps the error taxonomy onto status codes: bad input and missing
// entities are client errors, provider and storage failures are server
// errors with a generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *apperr.ValidationError
		notFound   *apperr.NotFoundError
		malformed  *ai.MalformedResponseError
		provider   *apperr.ProviderError
	)

	switch {
	case errors.As(err, &validation):
		s.respond(w, http.StatusBadRequest, map[string]string{"error": validation.Error()})
	case errors.As(err, &notFound):
		s.respond(w, http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.As(err, &malformed):
		s.logger.Error("AI returned unparseable output",
			zap.String("path", r.URL.Path),
			zap.Error(err),
			zap.String("response", malformed.Excerpt))
		s.respond(w, http.StatusInternalServerError, map[string]string{"error": "AI response could not be processed"})
	case errors.As(err, &provider):
		s.logger.Error("AI provider failure", zap.String("path", r.URL.Path), zap.Error(err))
		s.respond(w, http.StatusInternalServerError, map[string]string{"error": "AI service unavailable"})
	default:
		s.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		s.respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &apperr.ValidationError{Field: "body", Reason: fmt.Sprintf("is not valid JSON: %v", err)}
	}
	return nil
}
