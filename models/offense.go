package models

import (
	"time"

	"github.com/google/uuid"
)

// Offense is an entry of the fine catalogue
type Offense struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_offenses_uuid" json:"id"`
	OffenseName string    `gorm:"size:255;not null;index:idx_offenses_name" json:"offense_name"`
	Amount      float64   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description string    `gorm:"size:2048" json:"description"`
	// SectionOfAct cites the Motor Traffic Act section the offense falls under
	SectionOfAct string `gorm:"size:64" json:"section_of_act"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Offense) TableName() string {
	return "offenses"
}

// OffenseFilter represents filter criteria for offense queries
type OffenseFilter struct {
	ID   *uint
	UUID *uuid.UUID
}
