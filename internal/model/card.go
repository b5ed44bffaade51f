package model

import "time"

// Card kinds. A "bite" is a food experience, a "blockbuster" an
// entertainment one; the wire values stay generic.
const (
	CardKindFood          = "food"
	CardKindEntertainment = "entertainment"
)

// Card is one catalog entry.
type Card struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	OwnerUID  string    `gorm:"column:owner_uid;size:128;index;not null"`
	Kind      string    `gorm:"size:32;index;not null"`
	Title     string    `gorm:"size:120;not null"`
	Category  string    `gorm:"size:64"`
	Rating    int       `gorm:"not null;default:0"` // 1-5, 0 = unrated
	Notes     string    `gorm:"type:text"`
	Location  string    `gorm:"size:255"`
	ImageURL  *string   `gorm:"size:512"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Card) TableName() string {
	return "cards"
}

// ValidCardKind reports whether k is a known card kind.
func ValidCardKind(k string) bool {
	return k == CardKindFood || k == CardKindEntertainment
}
