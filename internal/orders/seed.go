package orders

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedCounters initializes allocation counters from the orders table, for
// databases that predate order_counters. Existing counter rows are left
// untouched; the counter is authoritative from its first use.
func SeedCounters(db *gorm.DB) error {
	var codes []string
	if err := db.Model(&Order{}).Pluck("order_code", &codes).Error; err != nil {
		return err
	}

	maxByPartition := map[string]int{}
	for _, code := range codes {
		if len(code) < 3 {
			continue
		}
		seq, err := strconv.Atoi(code[2:])
		if err != nil {
			continue
		}
		partition := code[:2]
		if seq > maxByPartition[partition] {
			maxByPartition[partition] = seq
		}
	}

	for partition, seq := range maxByPartition {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&OrderCounter{Partition: partition, LastSeq: seq}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
