package sql

import (
	"context"
	"fmt"

	"herbalog/internal/entity"
)

// CreateAdminActivity appends a record to the audit log. The
// timestamp is assigned by the store at write time; a caller-supplied
// value is ignored. The log is append-only: no update or delete
// operation exists for this table.
func (r *GormRepository) CreateAdminActivity(ctx context.Context, activity *entity.DbAdminActivity) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if activity == nil {
		return fmt.Errorf("activity is nil")
	}
	if activity.Details == nil {
		activity.Details = entity.JSONMap{}
	}
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListAdminActivities retrieves one page of the audit log, newest
// first, with the acting user preloaded. The returned count is the
// unfiltered total.
func (r *GormRepository) ListAdminActivities(ctx context.Context, page, pageSize int) ([]entity.DbAdminActivity, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, fmt.Errorf("repository not initialised")
	}
	if page <= 0 || pageSize <= 0 {
		return nil, 0, fmt.Errorf("invalid pagination: page=%d pageSize=%d", page, pageSize)
	}

	var totalCount int64
	if err := r.db.WithContext(ctx).Model(&entity.DbAdminActivity{}).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	var activities []entity.DbAdminActivity
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("timestamp DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, totalCount, nil
}
