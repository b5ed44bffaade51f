package model

import "time"

// User is the minimal app-user directory entry. The rewards ledger treats
// UID as an opaque foreign key and never mutates identity.
type User struct {
	UID       string    `gorm:"column:uid;primaryKey;size:128"`
	Name      string    `gorm:"size:120;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
