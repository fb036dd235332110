package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeasonRanking accumulates one user's points within one season. Rank is not
// stored; standings are ordered by points descending with creation time and id
// as tie-breaks, so paginated pages stay stable between writes.
type SeasonRanking struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	SeasonID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_season_rankings_member" json:"season_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_season_rankings_member" json:"user_id"`
	Points    int64     `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none was supplied.
func (r *SeasonRanking) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
