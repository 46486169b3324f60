package models

import (
	"time"
)

// PoliceStation receives officer verification codes on behalf of its OIC
type PoliceStation struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	StationCode   string    `gorm:"size:32;not null;uniqueIndex:uk_police_stations_code" json:"station_code"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	OfficialEmail string    `gorm:"size:255;not null" json:"official_email"`
	CreatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

func (PoliceStation) TableName() string {
	return "police_stations"
}
