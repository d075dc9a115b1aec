package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartRecord{},
		&lineItemRecord{},
		&processedSessionRecord{},
	)
}

// Cart schema mirrors the cart Postgres adapter.
type cartRecord struct {
	CartID          string    `gorm:"primaryKey;column:cart_id"`
	PromoCode       string    `gorm:"column:promo_code"`
	DiscountPercent float64   `gorm:"column:discount_percent"`
	UpdatedAt       time.Time `gorm:"column:updated_at;index"`
}

func (cartRecord) TableName() string { return "carts" }

// Line item schema mirrors the cart Postgres adapter.
type lineItemRecord struct {
	CartID          string         `gorm:"primaryKey;column:cart_id;index"`
	ItemID          string         `gorm:"primaryKey;column:item_id"`
	BeatID          string         `gorm:"column:beat_id"`
	BeatName        string         `gorm:"column:beat_name"`
	TierLabel       string         `gorm:"column:tier_label"`
	LicenseType     string         `gorm:"column:license_type"`
	UnitPrice       float64        `gorm:"column:unit_price"`
	TierDescription string         `gorm:"column:tier_description"`
	TierFeatures    pq.StringArray `gorm:"column:tier_features;type:text[]"`
	Quantity        int            `gorm:"column:quantity"`
	AddedAt         time.Time      `gorm:"column:added_at"`
}

func (lineItemRecord) TableName() string { return "cart_items" }

// Processed session schema mirrors the checkout Postgres adapter.
type processedSessionRecord struct {
	SessionID   string    `gorm:"primaryKey;column:session_id"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (processedSessionRecord) TableName() string { return "processed_payment_sessions" }
