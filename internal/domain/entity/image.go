package entity

import "time"

// Image is a file attached to an owner. URL never changes once the row exists.
type Image struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerType  OwnerKind `gorm:"type:varchar(50);not null;index:idx_images_owner,priority:1" json:"owner_type"`
	OwnerID    uint64    `gorm:"not null;index:idx_images_owner,priority:2" json:"owner_id"`
	URL        string    `gorm:"type:varchar(1000);not null" json:"url"`
	IsPrimary  bool      `gorm:"not null;default:false" json:"is_primary"`
	Position   *int      `json:"position"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (Image) TableName() string {
	return "images"
}

// Owner returns the reference of the owner holding the image.
func (i *Image) Owner() OwnerRef {
	return OwnerRef{Kind: i.OwnerType, ID: i.OwnerID}
}
