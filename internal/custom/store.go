package custom

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound indicates the custom-order code is unknown.
var ErrNotFound = errors.New("custom order not found")

// ErrFileMissing indicates the record has no retrievable file.
var ErrFileMissing = errors.New("custom order file not found")

// tokenLen is the length of the opaque order code. Collisions are
// negligible at this entropy; the unique index on order_code is the
// safety net.
const tokenLen = 8

// FileStore is the blob-store collaborator holding uploaded files.
type FileStore interface {
	SaveUpload(ctx context.Context, body io.Reader, filename, contentType, prefix string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Reconciler strips dangling references to a deleted custom-order code
// from placed orders.
type Reconciler interface {
	StripCustomOrderRefs(ctx context.Context, code string) error
}

// Store encapsulates operations on the custom_orders table and the
// associated uploaded files.
type Store struct {
	db         *gorm.DB
	files      FileStore
	reconciler Reconciler
	tokenFunc  func() string
}

// NewStore creates a custom-order Store. files and reconciler are injected
// so tests can substitute doubles.
func NewStore(db *gorm.DB, files FileStore, reconciler Reconciler) *Store {
	return &Store{
		db:         db,
		files:      files,
		reconciler: reconciler,
		tokenFunc: func() string {
			u := uuid.New()
			return hex.EncodeToString(u[:])[:tokenLen]
		},
	}
}

// Submit stores the uploaded file under a key scoped by a fresh order code
// and persists the record with status "submitted".
func (s *Store) Submit(ctx context.Context, sub Submission, file io.Reader) (*CustomOrder, error) {
	code := s.tokenFunc()

	key, err := s.files.SaveUpload(ctx, file, sub.Filename, sub.ContentType, "custom_orders/"+code)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	order := &CustomOrder{
		UserID:     sub.UserID,
		OrderCode:  code,
		PosterType: sub.PosterType,
		Size:       sub.Size,
		Thickness:  sub.Thickness,
		FilePath:   key,
		Status:     StatusSubmitted,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("create custom order: %w", err)
	}
	return order, nil
}

// List returns all custom orders, newest first.
func (s *Store) List(ctx context.Context) ([]CustomOrder, error) {
	var list []CustomOrder
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list custom orders: %w", err)
	}
	return list, nil
}

// get fetches a record by order code.
func (s *Store) get(ctx context.Context, code string) (*CustomOrder, error) {
	var order CustomOrder
	err := s.db.WithContext(ctx).Where("order_code = ?", code).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get custom order: %w", err)
	}
	return &order, nil
}

// Download returns the uploaded file's bytes and its stored filename.
func (s *Store) Download(ctx context.Context, code string) ([]byte, string, error) {
	order, err := s.get(ctx, code)
	if err != nil {
		return nil, "", err
	}
	if order.FilePath == "" {
		return nil, "", ErrFileMissing
	}

	data, err := s.files.Get(ctx, order.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFileMissing, err)
	}
	return data, path.Base(order.FilePath), nil
}

// Delete removes the custom order. The blob delete is best-effort: an
// unreachable storage backend must not leave the record undeletable. The
// reconciler then strips the code from placed orders before the record
// itself is removed.
func (s *Store) Delete(ctx context.Context, code string) error {
	order, err := s.get(ctx, code)
	if err != nil {
		return err
	}

	if order.FilePath != "" {
		if err := s.files.Delete(ctx, order.FilePath); err != nil {
			log.Printf("custom order %s: blob delete failed, continuing: %v", code, err)
		}
	}

	if err := s.reconciler.StripCustomOrderRefs(ctx, code); err != nil {
		return fmt.Errorf("reconcile orders: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(order).Error; err != nil {
		return fmt.Errorf("delete custom order: %w", err)
	}
	return nil
}
