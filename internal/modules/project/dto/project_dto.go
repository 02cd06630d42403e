package dto

import (
	"io"

	"anoa.com/desainhub/internal/entity"
	commonDto "anoa.com/desainhub/pkg/dto"
	"github.com/google/uuid"
)

type CreateProjectInput struct {
	Title  string `json:"title" binding:"required,min=5,max=200"`
	Brief  string `json:"brief" binding:"required,min=20"`
	Budget int64  `json:"budget" binding:"required,min=50000"`
}

type AssignDesignerInput struct {
	DesignerID uuid.UUID `json:"designer_id" binding:"required"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required,oneof=assigned in_progress delivered completed cancelled"`
}

type DeliverableFile struct {
	Reader   io.Reader
	FileName string
}

type ProjectResponse struct {
	ID           uuid.UUID                `json:"id"`
	Title        string                   `json:"title"`
	Slug         string                   `json:"slug"`
	Brief        string                   `json:"brief"`
	Budget       int64                    `json:"budget"`
	Status       string                   `json:"status"`
	Client       commonDto.AuthorResponse `json:"client"`
	Designer     *commonDto.AuthorResponse `json:"designer,omitempty"`
	Deliverables []entity.Deliverable     `json:"deliverables"`
	CreatedAt    string                   `json:"created_at"`
	UpdatedAt    string                   `json:"updated_at"`
}

type PaginatedProjectResponse struct {
	Data []ProjectResponse        `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
