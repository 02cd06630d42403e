package dto

import (
	"encoding/json"
	"fmt"

	"anoa.com/desainhub/internal/entity"
	commonDto "anoa.com/desainhub/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaginatedNotificationResponse struct {
	Data        []entity.Notification    `json:"data"`
	Meta        commonDto.PaginationMeta `json:"meta"`
	UnreadCount int64                    `json:"unread_count"`
}

// SystemNotificationInput is the admin broadcast payload.
type SystemNotificationInput struct {
	UserID  uuid.UUID `json:"user_id" binding:"required"`
	Title   string    `json:"title" binding:"required,max=200"`
	Message string    `json:"message" binding:"required"`
}

// Typed payloads for Notification.Data, keyed by notification type.
// Unknown types keep their raw JSON; consumers fall back to a generic rendering.

type ProjectEventData struct {
	ProjectID  uuid.UUID `json:"project_id"`
	Slug       string    `json:"slug"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status,omitempty"`
}

type PaymentEventData struct {
	PaymentID uuid.UUID `json:"payment_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Amount    int64     `json:"amount"`
}

type MessageEventData struct {
	SenderID uuid.UUID `json:"sender_id"`
	Preview  string    `json:"preview"`
}

// EncodeData marshals a typed payload into the JSONB column.
func EncodeData(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// DecodeData unmarshals a notification's payload into the variant matching its
// type. Returns (nil, nil) for types without a structured payload.
func DecodeData(n *entity.Notification) (any, error) {
	if len(n.Data) == 0 {
		return nil, nil
	}

	var v any
	switch n.Type {
	case entity.NotifTypeProjectCreated,
		entity.NotifTypeProjectAssigned,
		entity.NotifTypeStatusChanged,
		entity.NotifTypeProjectDelivered:
		v = &ProjectEventData{}
	case entity.NotifTypePaymentConfirmed:
		v = &PaymentEventData{}
	case entity.NotifTypeNewMessage:
		v = &MessageEventData{}
	default:
		return nil, nil
	}

	if err := json.Unmarshal(n.Data, v); err != nil {
		return nil, fmt.Errorf("malformed %s payload: %w", n.Type, err)
	}
	return v, nil
}
