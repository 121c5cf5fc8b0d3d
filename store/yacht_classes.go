package store

import (
	"context"

	"github.com/padraicbc/yachtclub/models"
)

// ListYachtClasses returns all classes by name.
func (s *Store) ListYachtClasses(ctx context.Context) ([]*models.YachtClass, error) {
	classes := []*models.YachtClass{}
	err := s.db.NewSelect().Model(&classes).OrderExpr("name ASC").Scan(ctx)
	return classes, err
}

// CreateYachtClass inserts class. A duplicate name surfaces as a unique
// violation from the driver.
func (s *Store) CreateYachtClass(ctx context.Context, class *models.YachtClass) error {
	_, err := s.db.NewInsert().Model(class).Exec(ctx)
	return err
}

// YachtClassExists reports whether a class with id exists.
func (s *Store) YachtClassExists(ctx context.Context, id int64) (bool, error) {
	return s.db.NewSelect().Model((*models.YachtClass)(nil)).Where("id = ?", id).Exists(ctx)
}
