package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"herbalog/internal/entity"

	"github.com/google/uuid"
)

// ErrNoSession signals a missing, expired, or tampered session.
var ErrNoSession = errors.New("no valid session")

// SessionStore is the persistence surface the session manager needs.
type SessionStore interface {
	CreateSession(ctx context.Context, session *entity.DbSession) error
	GetSession(ctx context.Context, sid string) (*entity.DbSession, error)
	DeleteSession(ctx context.Context, sid string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionManager issues and resolves durable server-side sessions.
// The cookie value is <sid>.<hmacHex>, so a stored session can only
// be replayed by a client holding a cookie signed with our secret.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	store  SessionStore
}

// NewSessionManager creates a session manager.
func NewSessionManager(secret string, ttl time.Duration, store SessionStore) (*SessionManager, error) {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if store == nil {
		return nil, errors.New("session store must not be nil")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionManager{
		secret: []byte(trimmed),
		ttl:    ttl,
		store:  store,
	}, nil
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Create persists a new session for the user and returns the signed
// cookie value.
func (m *SessionManager) Create(ctx context.Context, userID uint) (string, error) {
	if m == nil {
		return "", errors.New("session manager is nil")
	}
	if userID == 0 {
		return "", errors.New("invalid user for session creation")
	}
	sid := uuid.NewString()
	session := &entity.DbSession{
		SID:       sid,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(m.ttl),
	}
	if err := m.store.CreateSession(ctx, session); err != nil {
		return "", err
	}
	return sid + "." + m.sign(sid), nil
}

// Resolve validates the signed cookie value and returns the user id
// it belongs to. Expired or unknown sessions yield ErrNoSession.
func (m *SessionManager) Resolve(ctx context.Context, cookieValue string) (uint, error) {
	sid, err := m.verify(cookieValue)
	if err != nil {
		return 0, err
	}
	session, err := m.store.GetSession(ctx, sid)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, ErrNoSession
	}
	if !session.ExpiresAt.After(time.Now().UTC()) {
		return 0, ErrNoSession
	}
	return session.UserID, nil
}

// Destroy removes the session behind the cookie value. Destroying an
// already-gone session is not an error.
func (m *SessionManager) Destroy(ctx context.Context, cookieValue string) error {
	sid, err := m.verify(cookieValue)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}
	return m.store.DeleteSession(ctx, sid)
}

// PurgeExpired deletes sessions past their expiry. Expired rows are
// already invisible to Resolve; this is storage hygiene only.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, time.Now().UTC())
}

func (m *SessionManager) sign(sid string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(sid))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *SessionManager) verify(cookieValue string) (string, error) {
	if m == nil {
		return "", errors.New("session manager is nil")
	}
	sid, signature, found := strings.Cut(strings.TrimSpace(cookieValue), ".")
	if !found || sid == "" || signature == "" {
		return "", ErrNoSession
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return "", ErrNoSession
	}
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(sid))
	if !hmac.Equal(mac.Sum(nil), expected) {
		return "", ErrNoSession
	}
	return sid, nil
}
