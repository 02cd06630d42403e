package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProjectStatusOpen       = "open"
	ProjectStatusAssigned   = "assigned"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusDelivered  = "delivered"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

// ValidStatusTransitions maps a project status to the statuses it may move to.
var ValidStatusTransitions = map[string][]string{
	ProjectStatusOpen:       {ProjectStatusAssigned, ProjectStatusCancelled},
	ProjectStatusAssigned:   {ProjectStatusInProgress, ProjectStatusCancelled},
	ProjectStatusInProgress: {ProjectStatusDelivered, ProjectStatusCancelled},
	ProjectStatusDelivered:  {ProjectStatusCompleted, ProjectStatusInProgress},
	ProjectStatusCompleted:  {},
	ProjectStatusCancelled:  {},
}

type Project struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string     `gorm:"size:200;not null" json:"title"`
	Slug       string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Brief      string     `gorm:"type:text;not null" json:"brief"` // sanitized HTML
	Budget     int64      `gorm:"not null" json:"budget"`          // rupiah
	Status     string     `gorm:"size:20;not null;default:open;index" json:"status"`
	ClientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	Client     *User      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	DesignerID *uuid.UUID `gorm:"type:uuid;index" json:"designer_id,omitempty"`
	Designer   *User      `gorm:"foreignKey:DesignerID" json:"designer,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Deliverables []Deliverable `gorm:"constraint:OnDelete:CASCADE" json:"deliverables,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CanTransitionTo reports whether the project may move to the given status.
func (p *Project) CanTransitionTo(status string) bool {
	for _, next := range ValidStatusTransitions[p.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// Deliverable is a file the designer uploads as the result of a project.
type Deliverable struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	FileURL   string    `gorm:"type:text;not null" json:"file_url"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
