package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beatforge/beatstore-api/internal/domains/checkout/ports"
)

var _ ports.ProcessedSessions = (*ProcessedSessions)(nil)

// ProcessedSessions records verified payment session ids in PostgreSQL so
// replayed success URLs stay idempotent across process restarts.
type ProcessedSessions struct {
	db *gorm.DB
}

func NewProcessedSessions(db *gorm.DB) *ProcessedSessions {
	store := &ProcessedSessions{db: db}
	if db != nil {
		_ = db.AutoMigrate(&processedSessionRecord{})
	}
	return store
}

type processedSessionRecord struct {
	SessionID   string    `gorm:"primaryKey;column:session_id"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (processedSessionRecord) TableName() string { return "processed_payment_sessions" }

// MarkProcessed inserts the session id, relying on the primary key to
// detect replays: a conflicting insert means someone else was first.
func (p *ProcessedSessions) MarkProcessed(ctx context.Context, sessionID string) (bool, error) {
	if p == nil || p.db == nil {
		return false, errors.New("processed sessions store has no database connection")
	}
	record := processedSessionRecord{SessionID: sessionID, ProcessedAt: time.Now().UTC()}
	result := p.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
