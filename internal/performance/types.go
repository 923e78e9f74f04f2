package performance

// ProductPerformance is a per-design view/purchase counter. At most one
// row exists per design; events upsert-increment it.
type ProductPerformance struct {
	ID       uint `gorm:"primaryKey"`
	DesignID uint `gorm:"uniqueIndex;not null"`
	Count    int  `gorm:"default:0"`
}

func (ProductPerformance) TableName() string { return "product_performances" }

// DesignStat is a counter joined with its design title for reporting.
type DesignStat struct {
	DesignID uint    `json:"design_id"`
	Title    *string `json:"title"`
	Count    int     `json:"count"`
}
