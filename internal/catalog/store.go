package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wnzid/posterscoop-backend/internal/performance"
)

var (
	// ErrNotFound indicates an unknown category or design id.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrTitleExists indicates a duplicate design title.
	ErrTitleExists = errors.New("title already exists")
	// ErrInvalidMainCategory indicates a main category outside the fixed set.
	ErrInvalidMainCategory = errors.New("invalid main category")
)

// FileStore is the blob-store collaborator holding design images.
type FileStore interface {
	SaveUpload(ctx context.Context, body io.Reader, filename, contentType, prefix string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Store owns categories and designs.
type Store struct {
	db    *gorm.DB
	files FileStore
}

// NewStore creates a catalog Store.
func NewStore(db *gorm.DB, files FileStore) *Store {
	return &Store{db: db, files: files}
}

// CreateCategory persists a category under a valid main category.
func (s *Store) CreateCategory(ctx context.Context, mainCategory, name string) (*Category, error) {
	if !ValidMainCategory(mainCategory) {
		return nil, ErrInvalidMainCategory
	}
	c := &Category{MainCategory: mainCategory, Name: name, CreatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var list []Category
	if err := s.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// UpdateCategory patches a category's name and/or main category.
func (s *Store) UpdateCategory(ctx context.Context, id uint, mainCategory, name *string) (*Category, error) {
	var c Category
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	updates := map[string]interface{}{}
	if mainCategory != nil {
		if !ValidMainCategory(*mainCategory) {
			return nil, ErrInvalidMainCategory
		}
		updates["main_category"] = *mainCategory
		c.MainCategory = *mainCategory
	}
	if name != nil {
		updates["name"] = *name
		c.Name = *name
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update category: %w", err)
		}
	}
	return &c, nil
}

// DeleteCategory removes a category by id.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateDesign uploads the image and persists the design. Titled designs
// must be unique by title.
func (s *Store) CreateDesign(ctx context.Context, d Design, image io.Reader, filename, contentType string) (*Design, error) {
	if d.Title != "" {
		var count int64
		if err := s.db.WithContext(ctx).Model(&Design{}).Where("title = ?", d.Title).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check title: %w", err)
		}
		if count > 0 {
			return nil, ErrTitleExists
		}
	}

	key, err := s.files.SaveUpload(ctx, image, filename, contentType, "designs")
	if err != nil {
		return nil, fmt.Errorf("store design image: %w", err)
	}

	d.ImageKey = key
	d.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}
	return &d, nil
}

// GetDesign fetches a design by id.
func (s *Store) GetDesign(ctx context.Context, id uint) (*Design, error) {
	var d Design
	err := s.db.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}
	return &d, nil
}

// ListDesigns returns designs matching the filter.
func (s *Store) ListDesigns(ctx context.Context, f DesignFilter) ([]Design, error) {
	q := s.db.WithContext(ctx).Model(&Design{})
	if f.CategoryID != 0 {
		q = q.Where("designs.category_id = ?", f.CategoryID)
	}
	if f.MainCategory != "" {
		q = q.Joins("JOIN categories ON categories.id = designs.category_id").
			Where("categories.main_category = ?", f.MainCategory)
	}
	if f.Featured != nil {
		q = q.Where("designs.featured = ?", *f.Featured)
	}
	if f.Hidden != nil {
		q = q.Where("designs.hidden = ?", *f.Hidden)
	}
	if f.Search != "" {
		q = q.Where("LOWER(designs.title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var list []Design
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return list, nil
}

// Bestsellers returns featured, non-hidden designs.
func (s *Store) Bestsellers(ctx context.Context) ([]Design, error) {
	return s.ListDesigns(ctx, DesignFilter{
		Featured: boolPtr(true),
		Hidden:   boolPtr(false),
	})
}

// UpdateDesign patches a design. Image keys arriving as full URLs are
// normalized down to the bare object key.
func (s *Store) UpdateDesign(ctx context.Context, id uint, upd DesignUpdate, bucket string) (*Design, error) {
	d, err := s.GetDesign(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.CategoryID != nil {
		updates["category_id"] = *upd.CategoryID
	}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.ImageKey != nil {
		updates["image_filename"] = NormalizeImageKey(*upd.ImageKey, bucket)
	}
	if upd.PosterType != nil {
		updates["poster_type"] = *upd.PosterType
	}
	if upd.Size != nil {
		updates["size"] = *upd.Size
	}
	if upd.Thickness != nil {
		updates["thickness"] = *upd.Thickness
	}
	if upd.Featured != nil {
		updates["featured"] = *upd.Featured
	}
	if upd.Hidden != nil {
		updates["hidden"] = *upd.Hidden
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(d).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update design: %w", err)
		}
	}
	return s.GetDesign(ctx, id)
}

// DeleteDesign removes a design, its image (best-effort) and its
// performance counter.
func (s *Store) DeleteDesign(ctx context.Context, id uint) error {
	d, err := s.GetDesign(ctx, id)
	if err != nil {
		return err
	}

	if d.ImageKey != "" {
		if err := s.files.Delete(ctx, d.ImageKey); err != nil {
			log.Printf("design %d: image delete failed, continuing: %v", id, err)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("design_id = ?", id).Delete(&performance.ProductPerformance{}).Error; err != nil {
			return fmt.Errorf("delete performance row: %w", err)
		}
		if err := tx.Delete(&Design{}, id).Error; err != nil {
			return fmt.Errorf("delete design: %w", err)
		}
		return nil
	})
}

// NormalizeImageKey strips URL prefixes so only the object key is stored.
func NormalizeImageKey(value, bucket string) string {
	if i := strings.Index(value, "/api/image/"); i >= 0 {
		value = value[i+len("/api/image/"):]
	}
	if i := strings.Index(value, "/uploads/"); i >= 0 {
		value = value[i+len("/uploads/"):]
	}
	if bucket != "" {
		if i := strings.Index(value, "/"+bucket+"/"); i >= 0 {
			value = value[i+len(bucket)+2:]
		}
	}
	return strings.TrimLeft(value, "/")
}

func boolPtr(b bool) *bool { return &b }
