package model

import (
	"context"
	"errors"

	"herbalog/internal/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultProductCategories is the stock category set shipped with a
// fresh install.
var defaultProductCategories = []string{
	"Ontbijt / Maaltijden",
	"Proefpakketten",
	"Proteïne",
	"Supplementen",
	"Extra Dranken",
	"Herbalife 24",
	"Literatuur",
	"Skin gelaatsverzorging",
	"Herbal Aloë - Verzorging voor lichaam en haar",
}

// SeedProductCategories inserts the default categories, skipping any
// that already exist.
func SeedProductCategories(ctx context.Context, repo Repository) error {
	if repo == nil {
		return nil
	}

	for _, name := range defaultProductCategories {
		category := &entity.DbProductCategory{
			Name:        name,
			CreatedByID: 1, // bootstrap admin
		}
		if err := repo.CreateProductCategory(ctx, category); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				logrus.WithField("category", name).Debug("category already seeded")
				continue
			}
			return err
		}
		logrus.WithField("category", name).Info("seeded product category")
	}
	return nil
}
