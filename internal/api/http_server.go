package api

import (
	"time"

	"herbalog/internal/audit"
	"herbalog/internal/auth"
	"herbalog/internal/config"
	"herbalog/internal/model"
)

// SessionCookieName is the cookie carrying the signed session id.
const SessionCookieName = "herbalog_session"

// HTTPHandler serves the JSON API.
type HTTPHandler struct {
	cfg      config.Config
	repo     model.Repository
	sessions *auth.SessionManager
	auditLog *audit.Recorder
}

// NewHTTPHandler creates the HTTP handler with its collaborators.
func NewHTTPHandler(cfg config.Config, repo model.Repository) (*HTTPHandler, error) {
	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	sessions, err := auth.NewSessionManager(cfg.SessionSecret, ttl, repo)
	if err != nil {
		return nil, err
	}

	return &HTTPHandler{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		auditLog: audit.NewRecorder(repo),
	}, nil
}

// Sessions exposes the session manager for the purge loop in main.
func (h *HTTPHandler) Sessions() *auth.SessionManager {
	return h.sessions
}
