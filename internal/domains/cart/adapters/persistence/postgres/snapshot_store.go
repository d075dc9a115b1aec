package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beatforge/beatstore-api/internal/domains/cart/domain"
	"github.com/beatforge/beatstore-api/internal/domains/cart/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists cart snapshots in PostgreSQL using GORM. Totals
// are never stored; the aggregate re-derives them on load.
type SnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore wires a PostgreSQL-backed store. Caller manages DB lifecycle.
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	store := &SnapshotStore{db: db}
	if db != nil {
		_ = db.AutoMigrate(&cartRecord{}, &lineItemRecord{})
	}
	return store
}

type cartRecord struct {
	CartID          string    `gorm:"primaryKey;column:cart_id"`
	PromoCode       string    `gorm:"column:promo_code"`
	DiscountPercent float64   `gorm:"column:discount_percent"`
	UpdatedAt       time.Time `gorm:"column:updated_at;index"`
}

func (cartRecord) TableName() string { return "carts" }

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

// Load fetches the snapshot for a cart id, items in insertion order.
func (s *SnapshotStore) Load(ctx context.Context, cartID string) (domain.Snapshot, error) {
	if err := s.ensureDB(); err != nil {
		return domain.Snapshot{}, err
	}
	var cart cartRecord
	if err := s.db.WithContext(ctx).First(&cart, "cart_id = ?", cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Snapshot{}, ports.ErrCartNotFound
		}
		return domain.Snapshot{}, err
	}
	var items []lineItemRecord
	if err := s.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("added_at ASC").
		Find(&items).Error; err != nil {
		return domain.Snapshot{}, err
	}
	snap := domain.Snapshot{
		PromoCode:       cart.PromoCode,
		DiscountPercent: cart.DiscountPercent,
	}
	for _, record := range items {
		snap.Items = append(snap.Items, record.toDomain())
	}
	return snap, nil
}

// Save upserts the cart row and replaces its line items in one transaction.
func (s *SnapshotStore) Save(ctx context.Context, cartID string, snap domain.Snapshot) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := cartRecord{
			CartID:          cartID,
			PromoCode:       snap.PromoCode,
			DiscountPercent: snap.DiscountPercent,
			UpdatedAt:       time.Now().UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"promo_code", "discount_percent", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&lineItemRecord{}).Error; err != nil {
			return err
		}
		for _, item := range snap.Items {
			if err := tx.Create(toRecord(cartID, item)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the cart and its items.
func (s *SnapshotStore) Delete(ctx context.Context, cartID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&lineItemRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cartID).Delete(&cartRecord{}).Error
	})
}

// PurgeOlderThan deletes carts not touched since the cutoff, items first.
func (s *SnapshotStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	purged := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []cartRecord
		if err := tx.Where("updated_at < ?", cutoff).Find(&stale).Error; err != nil {
			return err
		}
		for _, cart := range stale {
			if err := tx.Where("cart_id = ?", cart.CartID).Delete(&lineItemRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&cartRecord{}, "cart_id = ?", cart.CartID).Error; err != nil {
				return err
			}
			purged++
		}
		return nil
	})
	return purged, err
}

func (s *SnapshotStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("cart snapshot store has no database connection")
	}
	return nil
}

func toRecord(cartID string, item domain.LineItem) *lineItemRecord {
	return &lineItemRecord{
		CartID:          cartID,
		ItemID:          item.ID,
		BeatID:          item.Beat.ID,
		BeatName:        item.Beat.Name,
		TierLabel:       item.Tier.Tier,
		LicenseType:     item.Tier.LicenseType,
		UnitPrice:       item.Tier.Price,
		TierDescription: item.Tier.Description,
		TierFeatures:    pq.StringArray(item.Tier.Features),
		Quantity:        item.Quantity,
		AddedAt:         item.AddedAt,
	}
}

func (r lineItemRecord) toDomain() domain.LineItem {
	return domain.LineItem{
		ID:   r.ItemID,
		Beat: domain.BeatRef{ID: r.BeatID, Name: r.BeatName},
		Tier: domain.PricingTier{
			Tier:        r.TierLabel,
			LicenseType: r.LicenseType,
			Price:       r.UnitPrice,
			Description: r.TierDescription,
			Features:    []string(r.TierFeatures),
		},
		Quantity: r.Quantity,
		AddedAt:  r.AddedAt,
	}
}
