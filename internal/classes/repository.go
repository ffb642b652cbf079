package classes

import (
	"context"
	"errors"
	"strings"

	"github.com/cillii/catalog-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ListFilters describe the supported catalog filter knobs.
type ListFilters struct {
	NameSearch          string
	CodeSearch          string
	Category            string
	Quality             string
	IncludeZeroQuantity bool
}

// Repository wires class persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = gorm.ErrRecordNotFound

// FindByID loads a single class by its internal id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

// FindBySpecialID loads a single class by its code, case-insensitively.
func (r *Repository) FindBySpecialID(ctx context.Context, specialID string) (*models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Where("LOWER(special_id) = ?", strings.ToLower(strings.TrimSpace(specialID))).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// List returns classes matching the filters. Rows carrying a video sort
// first, then category, quality, name.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Class, error) {
	query := r.db.WithContext(ctx).Model(&models.Class{})

	if !filters.IncludeZeroQuantity {
		query = query.Where("class_quantity IS NULL OR class_quantity != 0")
	}
	if code := strings.TrimSpace(filters.CodeSearch); code != "" {
		query = query.Where("LOWER(special_id) LIKE ?", "%"+strings.ToLower(code)+"%")
	}
	if name := strings.TrimSpace(filters.NameSearch); name != "" {
		term := "%" + strings.ToLower(name) + "%"
		query = query.Where(
			"LOWER(class_name) LIKE ? OR LOWER(IFNULL(class_name_ar, '')) LIKE ? OR LOWER(IFNULL(class_name_en, '')) LIKE ?",
			term, term, term,
		)
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		query = query.Where("LOWER(main_category) = ?", strings.ToLower(category))
	}
	if quality := strings.TrimSpace(filters.Quality); quality != "" {
		query = query.Where("LOWER(quality) = ?", strings.ToLower(quality))
	}

	var rows []models.Class
	err := query.
		Order("CASE WHEN class_video IS NOT NULL AND class_video != '' THEN 0 ELSE 1 END ASC").
		Order("main_category ASC").
		Order("quality ASC").
		Order("class_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByIDs returns the classes whose ids appear in ids; missing ids are
// simply absent from the result.
func (r *Repository) ListByIDs(ctx context.Context, ids []int64) ([]models.Class, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Class
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSpecialIDs returns all codes beginning with prefix.
func (r *Repository) ListSpecialIDs(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("special_id LIKE ?", prefix+"%").
		Pluck("special_id", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// ListVideos returns every stored video reference.
func (r *Repository) ListVideos(ctx context.Context) ([]string, error) {
	var videos []string
	err := r.db.WithContext(ctx).
		Model(&models.Class{}).
		Where("class_video IS NOT NULL AND class_video != ''").
		Pluck("class_video", &videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// Create inserts the class and populates its generated id.
func (r *Repository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

// Save writes every column of the class back.
func (r *Repository) Save(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

// Delete removes the class by id. Returns ErrNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Class{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every class and reports how many rows went away.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Class{})
	return res.RowsAffected, res.Error
}

// IsNotFound reports whether err is the row-missing sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
