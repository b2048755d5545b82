package entity

import "time"

// FAQ is a question/answer pair attached to an owner. Inactive rows are soft
// deleted and never returned by public reads.
type FAQ struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerType OwnerKind `gorm:"type:varchar(50);not null;index:idx_faqs_owner,priority:1" json:"owner_type"`
	OwnerID   uint64    `gorm:"not null;index:idx_faqs_owner,priority:2" json:"owner_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FAQ) TableName() string {
	return "faqs"
}

func (f *FAQ) Active() bool {
	return f.IsActive == nil || *f.IsActive
}

func (f *FAQ) Owner() OwnerRef {
	return OwnerRef{Kind: f.OwnerType, ID: f.OwnerID}
}
