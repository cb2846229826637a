package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herbalog/internal/entity"

	"gorm.io/gorm"
)

// CreateSession persists a new login session.
func (r *GormRepository) CreateSession(ctx context.Context, session *entity.DbSession) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if session == nil || strings.TrimSpace(session.SID) == "" {
		return fmt.Errorf("invalid session")
	}
	return r.db.WithContext(ctx).Create(session).Error
}

// GetSession loads a session by id. A missing session returns
// (nil, nil) so the caller decides how absence is reported.
func (r *GormRepository) GetSession(ctx context.Context, sid string) (*entity.DbSession, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(sid) == "" {
		return nil, nil
	}
	var session entity.DbSession
	if err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// DeleteSession removes a session by id. Deleting a session that no
// longer exists is not an error.
func (r *GormRepository) DeleteSession(ctx context.Context, sid string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}
	return r.db.WithContext(ctx).Where("sid = ?", sid).Delete(&entity.DbSession{}).Error
}

// DeleteExpiredSessions purges sessions whose expiry has passed.
func (r *GormRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&entity.DbSession{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
