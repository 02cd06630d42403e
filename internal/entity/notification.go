package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotifTypeProjectCreated   = "project_created"
	NotifTypeProjectAssigned  = "project_assigned"
	NotifTypeStatusChanged    = "status_changed"
	NotifTypeProjectDelivered = "project_delivered"
	NotifTypePaymentConfirmed = "payment_confirmed"
	NotifTypeNewMessage       = "new_message"
	NotifTypeSystem           = "system"
)

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // User who receives the notification
	Type    string    `gorm:"size:50;not null" json:"type"`
	Title   string    `gorm:"size:200;not null" json:"title"`
	Message string    `gorm:"type:text" json:"message"`
	IsRead  bool      `gorm:"default:false;index" json:"is_read"`
	// Data holds the per-type payload (see dto.NotificationData variants)
	Data         datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	ProjectID    *uuid.UUID     `gorm:"type:uuid;index" json:"project_id,omitempty"`
	ProjectTitle *string        `gorm:"size:200" json:"project_title,omitempty"` // denormalized for display
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`

	// Association - pointer to avoid recursion if User has Notifications
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
