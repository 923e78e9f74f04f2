package custom

import "time"

// Custom-order statuses. Orders are created as "submitted" once the file
// upload succeeds; admins move them along from there.
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
)

// CustomOrder is a customer-submitted bespoke design request. OrderCode is
// an opaque 8-character token in a code space distinct from checkout order
// codes; FilePath is the blob-store key of the uploaded source file.
type CustomOrder struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     *uint  `gorm:"index"`
	OrderCode  string `gorm:"size:40;uniqueIndex;not null"`
	PosterType string `gorm:"size:50"`
	Size       string `gorm:"size:50"`
	Thickness  string `gorm:"size:50"`
	FilePath   string `gorm:"size:200"`
	Status     string `gorm:"size:50;default:pending"`
	CreatedAt  time.Time
}

func (CustomOrder) TableName() string { return "custom_orders" }

// Submission carries the validated fields for a custom-order upload.
type Submission struct {
	UserID      *uint
	PosterType  string
	Size        string
	Thickness   string
	Filename    string
	ContentType string
}
