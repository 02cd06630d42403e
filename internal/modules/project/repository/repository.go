package repository

import (
	"context"

	"anoa.com/desainhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Project, error)
	// FindAll lists projects visible to a user (as client or designer),
	// optionally filtered by status, newest first.
	FindAll(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]*entity.Project, int64, error)
	FindOpen(ctx context.Context, offset, limit int) ([]*entity.Project, int64, error)
	Update(ctx context.Context, project *entity.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddDeliverable(ctx context.Context, deliverable *entity.Deliverable) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Designer").
		Preload("Deliverables").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindBySlug(ctx context.Context, slug string) (*entity.Project, error) {
	var project entity.Project
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Designer").
		Preload("Deliverables").
		Where("slug = ?", slug).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindAll(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]*entity.Project, int64, error) {
	query := r.db.WithContext(ctx).
		Where("client_id = ? OR designer_id = ?", userID, userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Model(&entity.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*entity.Project
	err := query.
		Preload("Client").
		Preload("Designer").
		Preload("Deliverables").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) FindOpen(ctx context.Context, offset, limit int) ([]*entity.Project, int64, error) {
	query := r.db.WithContext(ctx).Where("status = ?", entity.ProjectStatusOpen)

	var total int64
	if err := query.Model(&entity.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*entity.Project
	err := query.
		Preload("Client").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) Update(ctx context.Context, project *entity.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Project{}, "id = ?", id).Error
}

func (r *projectRepository) AddDeliverable(ctx context.Context, deliverable *entity.Deliverable) error {
	return r.db.WithContext(ctx).Create(deliverable).Error
}
