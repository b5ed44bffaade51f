package model

import "time"

// Recommendation is a shared card suggestion from one user to another.
type Recommendation struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement"`
	CardID       uint64     `gorm:"column:card_id;index;not null"`
	SenderUID    string     `gorm:"column:sender_uid;size:128;index;not null"`
	RecipientUID string     `gorm:"column:recipient_uid;size:128;index;not null"`
	Title        string     `gorm:"size:120;not null"` // denormalized card title at send time
	Message      string     `gorm:"type:text"`
	ReadAt       *time.Time `gorm:"column:read_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
