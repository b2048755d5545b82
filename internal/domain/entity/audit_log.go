package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog represents a back-office audit trail entry
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

const (
	AuditActionUserLogin       = "user.login"
	AuditActionUserLogout      = "user.logout"
	AuditActionOwnerCreate     = "owner.create"
	AuditActionOwnerUpdate     = "owner.update"
	AuditActionOwnerDelete     = "owner.delete"
	AuditActionImageCreate     = "image.create"
	AuditActionImageDelete     = "image.delete"
	AuditActionImageReorder    = "image.reorder"
	AuditActionImageSetPrimary = "image.set_primary"
	AuditActionFAQCreate       = "faq.create"
	AuditActionFAQUpdate       = "faq.update"
	AuditActionFAQDelete       = "faq.delete"
)
