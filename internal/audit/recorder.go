// Package audit maintains the append-only admin activity log.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"herbalog/internal/entity"
)

// ErrInvalidPage signals non-positive pagination parameters.
var ErrInvalidPage = errors.New("page and pageSize must be positive")

// Details is one variant of the per-action payload union. The log
// stores it as JSON and never interprets it; new actions add new
// variants.
type Details interface {
	Action() entity.AdminAction
}

// CategoryCreated records a new product category.
type CategoryCreated struct {
	CategoryID   uint   `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

func (CategoryCreated) Action() entity.AdminAction { return entity.ActionCreatedCategory }

// CategoryDeleted records a removed product category.
type CategoryDeleted struct {
	CategoryID   uint   `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

func (CategoryDeleted) Action() entity.AdminAction { return entity.ActionDeletedCategory }

// ProductCreated records a new product.
type ProductCreated struct {
	ProductID   uint   `json:"productId"`
	ProductName string `json:"productName"`
	SKU         string `json:"sku"`
}

func (ProductCreated) Action() entity.AdminAction { return entity.ActionCreatedProduct }

// ProductUpdated records a partial product update.
type ProductUpdated struct {
	ProductID     uint     `json:"productId"`
	ChangedFields []string `json:"changedFields"`
}

func (ProductUpdated) Action() entity.AdminAction { return entity.ActionUpdatedProduct }

// ProductPriceSet records a new effective price.
type ProductPriceSet struct {
	ProductID uint  `json:"productId"`
	Price     int64 `json:"price"`
}

func (ProductPriceSet) Action() entity.AdminAction { return entity.ActionSetProductPrice }

// ActivityStore is the persistence surface the recorder needs.
type ActivityStore interface {
	CreateAdminActivity(ctx context.Context, activity *entity.DbAdminActivity) error
	ListAdminActivities(ctx context.Context, page, pageSize int) ([]entity.DbAdminActivity, int64, error)
}

// Recorder appends to and reads from the admin activity log.
type Recorder struct {
	store ActivityStore
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(store ActivityStore) *Recorder {
	return &Recorder{store: store}
}

// Record appends one audit record for the acting user. The record's
// timestamp is assigned by the store, not by the caller.
func (r *Recorder) Record(ctx context.Context, actingUserID uint, details Details) (*entity.DbAdminActivity, error) {
	if r == nil || r.store == nil {
		return nil, errors.New("audit recorder not initialised")
	}
	if actingUserID == 0 {
		return nil, errors.New("acting user id is required")
	}
	if details == nil {
		return nil, errors.New("details are required")
	}

	payload, err := toJSONMap(details)
	if err != nil {
		return nil, fmt.Errorf("serialise audit details: %w", err)
	}

	activity := &entity.DbAdminActivity{
		UserID:  actingUserID,
		Action:  details.Action(),
		Details: payload,
	}
	if err := r.store.CreateAdminActivity(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// List returns one page of the log, newest first, each record joined
// with the acting user's public profile, plus the unfiltered total.
func (r *Recorder) List(ctx context.Context, page, pageSize int) ([]entity.AdminActivityItem, int64, error) {
	if r == nil || r.store == nil {
		return nil, 0, errors.New("audit recorder not initialised")
	}
	if page <= 0 || pageSize <= 0 {
		return nil, 0, ErrInvalidPage
	}

	activities, totalCount, err := r.store.ListAdminActivities(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]entity.AdminActivityItem, 0, len(activities))
	for _, activity := range activities {
		items = append(items, entity.AdminActivityItem{
			ID:        activity.ID,
			Action:    activity.Action,
			Details:   activity.Details,
			Timestamp: activity.Timestamp,
			User:      activity.User.Public(),
		})
	}
	return items, totalCount, nil
}

func toJSONMap(details Details) (entity.JSONMap, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	var payload entity.JSONMap
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
