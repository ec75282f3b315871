package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Report is filed by a participant (or automatically by the moderation
// gateway after repeated strikes) against the other participant of a session.
type Report struct {
	ReportID   string `gorm:"primaryKey"`
	ReporterID string `gorm:"index"`
	TargetID   string `gorm:"index"`
	SessionID  string
	// Category is the severity bucket: "Low", "Medium" or "Critical".
	Category string
	// Violations lists the concrete violation kinds observed
	// (e.g. "profanity", "social_handle", "off_platform_link").
	Violations pq.StringArray `gorm:"type:text[]"`
	Details    string         `gorm:"type:text"`
	Status     string // "new", "processed", "banned"
	CreatedAt  int64  `gorm:"autoCreateTime"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ReportID == "" {
		r.ReportID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = "new"
	}
	return
}
