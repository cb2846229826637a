package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"herbalog/internal/authz"
	"herbalog/internal/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) *GormRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&entity.DbUser{},
		&entity.DbSession{},
		&entity.DbProductCategory{},
		&entity.DbProduct{},
		&entity.DbProductPrice{},
		&entity.DbAdminActivity{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return NewGormRepository(db)
}

func TestCreateUserNormalisesEmailAndDefaultsRole(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := &entity.DbUser{
		Email:        "Jan.DeVries@Example.COM",
		PasswordHash: "hash.salt",
		FirstName:    "Jan",
		LastName:     "de Vries",
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("unexpected error creating user: %v", err)
	}
	if user.Email != "jan.devries@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.Role != authz.RoleDistributor {
		t.Fatalf("expected default role DISTRIBUTOR, got %q", user.Role)
	}

	loaded, err := repo.GetUserByEmail(ctx, "JAN.DEVRIES@example.com")
	if err != nil {
		t.Fatalf("unexpected error loading user: %v", err)
	}
	if loaded.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, loaded.ID)
	}
}

func TestCreateUserDuplicateEmailIsDistinctError(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &entity.DbUser{Email: "A@B.com", PasswordHash: "h.s", FirstName: "A", LastName: "B"}
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("unexpected error creating first user: %v", err)
	}

	second := &entity.DbUser{Email: "a@b.com", PasswordHash: "h.s", FirstName: "A", LastName: "B"}
	err := repo.CreateUser(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	count, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error counting users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 users, got %d", count)
	}

	for _, email := range []string{"a@b.com", "c@d.com"} {
		user := &entity.DbUser{Email: email, PasswordHash: "h.s", FirstName: "A", LastName: "B"}
		if err := repo.CreateUser(ctx, user); err != nil {
			t.Fatalf("unexpected error creating %s: %v", email, err)
		}
	}

	count, err = repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error counting users: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 users, got %d", count)
	}
}

func TestGetUserByEmailEmptyShortCircuits(t *testing.T) {
	repo := newTestRepository(t)
	if _, err := repo.GetUserByEmail(context.Background(), "   "); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound for empty email, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	session := &entity.DbSession{
		SID:       "sid-1",
		UserID:    5,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("unexpected error creating session: %v", err)
	}

	loaded, err := repo.GetSession(ctx, "sid-1")
	if err != nil {
		t.Fatalf("unexpected error loading session: %v", err)
	}
	if loaded == nil || loaded.UserID != 5 {
		t.Fatalf("expected session for user 5, got %+v", loaded)
	}

	missing, err := repo.GetSession(ctx, "sid-unknown")
	if err != nil {
		t.Fatalf("unexpected error for missing session: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing session, got %+v", missing)
	}

	if err := repo.DeleteSession(ctx, "sid-1"); err != nil {
		t.Fatalf("unexpected error deleting session: %v", err)
	}
	if err := repo.DeleteSession(ctx, "sid-1"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	sessions := []entity.DbSession{
		{SID: "live", UserID: 1, ExpiresAt: now.Add(time.Hour)},
		{SID: "stale-1", UserID: 1, ExpiresAt: now.Add(-time.Minute)},
		{SID: "stale-2", UserID: 2, ExpiresAt: now.Add(-time.Hour)},
	}
	for i := range sessions {
		if err := repo.CreateSession(ctx, &sessions[i]); err != nil {
			t.Fatalf("unexpected error creating session: %v", err)
		}
	}

	purged, err := repo.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("unexpected error purging: %v", err)
	}
	if purged != 2 {
		t.Fatalf("expected 2 purged sessions, got %d", purged)
	}

	remaining, err := repo.GetSession(ctx, "live")
	if err != nil || remaining == nil {
		t.Fatalf("expected live session to survive, got %+v err=%v", remaining, err)
	}
}

func TestCategoryNameLookupIsCaseInsensitive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	category := &entity.DbProductCategory{Name: "Supplementen", CreatedByID: 1}
	if err := repo.CreateProductCategory(ctx, category); err != nil {
		t.Fatalf("unexpected error creating category: %v", err)
	}

	found, err := repo.FindProductCategoryByName(ctx, "sUpPlEmEnTeN")
	if err != nil {
		t.Fatalf("unexpected error finding category: %v", err)
	}
	if found == nil || found.ID != category.ID {
		t.Fatalf("expected category %d, got %+v", category.ID, found)
	}

	missing, err := repo.FindProductCategoryByName(ctx, "Onbekend")
	if err != nil {
		t.Fatalf("unexpected error for missing category: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing category, got %+v", missing)
	}

	duplicate := &entity.DbProductCategory{Name: "Supplementen", CreatedByID: 1}
	if err := repo.CreateProductCategory(ctx, duplicate); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey for duplicate name, got %v", err)
	}
}

func TestListProductCategoriesOrderedByName(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, name := range []string{"Vitamines", "Dranken", "Supplementen"} {
		category := &entity.DbProductCategory{Name: name, CreatedByID: 1}
		if err := repo.CreateProductCategory(ctx, category); err != nil {
			t.Fatalf("unexpected error creating %s: %v", name, err)
		}
	}

	categories, err := repo.ListProductCategories(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing categories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	for i, want := range []string{"Dranken", "Supplementen", "Vitamines"} {
		if categories[i].Name != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, categories[i].Name)
		}
	}
}

func TestProductPriceHistory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	category := &entity.DbProductCategory{Name: "Proteïne", CreatedByID: 1}
	if err := repo.CreateProductCategory(ctx, category); err != nil {
		t.Fatalf("unexpected error creating category: %v", err)
	}
	product := &entity.DbProduct{Name: "Formula 1", SKU: "F100", CategoryID: category.ID, IsActive: true, CreatedByID: 1}
	if err := repo.CreateProduct(ctx, product); err != nil {
		t.Fatalf("unexpected error creating product: %v", err)
	}

	now := time.Now().UTC()
	first := &entity.DbProductPrice{ProductID: product.ID, Price: 35, ValidFrom: now.Add(-time.Hour), CreatedByID: 1}
	if err := repo.CreateProductPrice(ctx, first); err != nil {
		t.Fatalf("unexpected error creating first price: %v", err)
	}

	if err := repo.CloseCurrentProductPrice(ctx, product.ID, now); err != nil {
		t.Fatalf("unexpected error closing current price: %v", err)
	}
	second := &entity.DbProductPrice{ProductID: product.ID, Price: 38, ValidFrom: now, CreatedByID: 1}
	if err := repo.CreateProductPrice(ctx, second); err != nil {
		t.Fatalf("unexpected error creating second price: %v", err)
	}

	prices, err := repo.ListProductPrices(ctx, product.ID)
	if err != nil {
		t.Fatalf("unexpected error listing prices: %v", err)
	}
	if len(prices) != 2 {
		t.Fatalf("expected 2 price entries, got %d", len(prices))
	}
	if prices[0].Price != 38 || prices[0].ValidUntil != nil {
		t.Fatalf("expected newest open price first, got %+v", prices[0])
	}
	if prices[1].ValidUntil == nil {
		t.Fatal("expected previous price to be closed")
	}
}

func TestListAdminActivitiesPagination(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	actor := &entity.DbUser{Email: "admin@example.com", PasswordHash: "h.s", FirstName: "Ada", LastName: "Admin", Role: authz.RoleAdmin}
	if err := repo.CreateUser(ctx, actor); err != nil {
		t.Fatalf("unexpected error creating actor: %v", err)
	}

	for _, name := range []string{"first", "second", "third"} {
		activity := &entity.DbAdminActivity{
			UserID:  actor.ID,
			Action:  entity.ActionCreatedCategory,
			Details: entity.JSONMap{"categoryName": name},
		}
		if err := repo.CreateAdminActivity(ctx, activity); err != nil {
			t.Fatalf("unexpected error creating activity: %v", err)
		}
	}

	pageOne, total, err := repo.ListAdminActivities(ctx, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error listing page 1: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(pageOne) != 2 {
		t.Fatalf("expected 2 records on page 1, got %d", len(pageOne))
	}
	if pageOne[0].Details["categoryName"] != "third" {
		t.Fatalf("expected newest record first, got %v", pageOne[0].Details["categoryName"])
	}
	if pageOne[0].User.Email != "admin@example.com" {
		t.Fatalf("expected acting user preloaded, got %+v", pageOne[0].User)
	}

	pageTwo, total, err := repo.ListAdminActivities(ctx, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error listing page 2: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3 on page 2, got %d", total)
	}
	if len(pageTwo) != 1 {
		t.Fatalf("expected 1 record on page 2, got %d", len(pageTwo))
	}
	if pageTwo[0].Details["categoryName"] != "first" {
		t.Fatalf("expected oldest record on page 2, got %v", pageTwo[0].Details["categoryName"])
	}
}
