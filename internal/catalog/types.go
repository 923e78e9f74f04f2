package catalog

import "time"

// MainCategories is the fixed set of storefront top-level categories.
var MainCategories = []string{
	"Movies",
	"TV Series",
	"Anime",
	"Games",
	"Music",
	"Quotes",
	"Art & Aesthetic",
	"Sports",
	"Bangladeshi Culture",
	"Nature & Landscapes",
	"Motivational",
	"Minimalist",
	"Typography",
	"Sci-Fi & Fantasy",
	"Comics",
	"Cartoons",
	"Abstract",
	"Space & Galaxy",
	"City & Architecture",
	"Vintage / Retro",
}

// ValidMainCategory reports whether name is in the fixed set.
func ValidMainCategory(name string) bool {
	for _, c := range MainCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Category groups designs under one of the main categories.
type Category struct {
	ID           uint   `gorm:"primaryKey"`
	MainCategory string `gorm:"size:100;not null"`
	Name         string `gorm:"size:100;not null"`
	CreatedAt    time.Time
}

func (Category) TableName() string { return "categories" }

// Design is a catalog poster design. ImageKey is the blob-store key of the
// design image.
type Design struct {
	ID         uint   `gorm:"primaryKey"`
	CategoryID uint   `gorm:"index;not null"`
	Title      string `gorm:"size:100"`
	ImageKey   string `gorm:"column:image_filename;size:200"`
	PosterType string `gorm:"size:50"`
	Size       string `gorm:"size:50"`
	Thickness  string `gorm:"size:50"`
	Featured   bool   `gorm:"default:false"`
	Hidden     bool   `gorm:"default:false"`
	CreatedAt  time.Time
}

func (Design) TableName() string { return "designs" }

// DesignFilter narrows design listings. Featured/Hidden are tri-state:
// nil means "don't filter".
type DesignFilter struct {
	CategoryID   uint
	MainCategory string
	Featured     *bool
	Hidden       *bool
	Search       string
}

// DesignUpdate carries the patchable fields of a design. Nil fields are
// left untouched.
type DesignUpdate struct {
	CategoryID *uint
	Title      *string
	ImageKey   *string
	PosterType *string
	Size       *string
	Thickness  *string
	Featured   *bool
	Hidden     *bool
}
