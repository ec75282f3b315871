package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an anonymous participant. No profile data is kept beyond what the
// report/reputation subsystem needs; the ID is the only identity.
type User struct {
	ID string `gorm:"primaryKey" json:"id"` // anonymous UUID
	// ReputationScore decreases with confirmed reports and drives bans.
	ReputationScore int
	IsBlocked       bool
	BlockLevel      int
	// BlockEndTime and LastBanDate are unix timestamps.
	BlockEndTime int64
	LastBanDate  int64
}

// BeforeCreate is a GORM hook generating a fresh anonymous UUID when the ID
// has not been set by the caller.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
