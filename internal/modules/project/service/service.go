package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"anoa.com/desainhub/internal/entity"
	notifDto "anoa.com/desainhub/internal/modules/notification/dto"
	notif "anoa.com/desainhub/internal/modules/notification/service"
	"anoa.com/desainhub/internal/modules/project/dto"
	"anoa.com/desainhub/internal/modules/project/repository"
	search "anoa.com/desainhub/internal/modules/search/service"
	userRepo "anoa.com/desainhub/internal/modules/user/repository"
	"anoa.com/desainhub/pkg/apperror"
	commonDto "anoa.com/desainhub/pkg/dto"
	"anoa.com/desainhub/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Service interface {
	CreateProject(ctx context.Context, clientID uuid.UUID, input dto.CreateProjectInput) (*dto.ProjectResponse, error)
	GetProjectBySlug(ctx context.Context, userID uuid.UUID, slug string) (*dto.ProjectResponse, error)
	GetMyProjects(ctx context.Context, userID uuid.UUID, filter commonDto.ProjectFilter) (*dto.PaginatedProjectResponse, error)
	GetOpenProjects(ctx context.Context, page, limit int) (*dto.PaginatedProjectResponse, error)
	SearchProjects(ctx context.Context, query, status string) ([]search.ProjectDoc, error)
	AssignDesigner(ctx context.Context, clientID, projectID uuid.UUID, input dto.AssignDesignerInput) error
	UpdateStatus(ctx context.Context, userID, projectID uuid.UUID, input dto.UpdateStatusInput) error
	Deliver(ctx context.Context, designerID, projectID uuid.UUID, file dto.DeliverableFile) (*entity.Deliverable, error)
	DeleteProject(ctx context.Context, clientID, projectID uuid.UUID) error
}

type service struct {
	projectRepo         repository.ProjectRepository
	userRepo            userRepo.UserRepository
	notificationService notif.NotificationService
	searchService       search.SearchService
	fileStorage         storage.FileStorage
	redisClient         *redis.Client
	sanitizer           *bluemonday.Policy
}

func NewService(
	projectRepo repository.ProjectRepository,
	userRepo userRepo.UserRepository,
	notificationService notif.NotificationService,
	searchService search.SearchService,
	fileStorage storage.FileStorage,
	redisClient *redis.Client,
) Service {
	return &service{
		projectRepo:         projectRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		searchService:       searchService,
		fileStorage:         fileStorage,
		redisClient:         redisClient,
		sanitizer:           bluemonday.UGCPolicy(),
	}
}

func (s *service) CreateProject(ctx context.Context, clientID uuid.UUID, input dto.CreateProjectInput) (*dto.ProjectResponse, error) {
	cleanup, err := s.checkCreateProjectRateLimit(ctx, clientID)
	if err != nil {
		return nil, err
	}

	project := &entity.Project{
		Title:    input.Title,
		Slug:     s.generateUniqueSlug(ctx, input.Title),
		Brief:    s.sanitizer.Sanitize(input.Brief),
		Budget:   input.Budget,
		Status:   entity.ProjectStatusOpen,
		ClientID: clientID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		cleanup()
		return nil, err
	}

	s.notifyProjectEvent(project, clientID, entity.NotifTypeProjectCreated,
		"Proyek dibuat",
		fmt.Sprintf("Proyek '%s' berhasil dibuat dan terbuka untuk desainer", project.Title),
		"", project.Status)

	// Index to Meilisearch
	if s.searchService != nil {
		if err := s.searchService.IndexProject(project); err != nil {
			// Search index lag is acceptable; the project is already persisted
			log.Printf("failed to index project %s: %v", project.ID, err)
		}
	}

	full, err := s.projectRepo.FindByID(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	res := s.buildProjectResponse(*full)
	return &res, nil
}

func (s *service) GetProjectBySlug(ctx context.Context, userID uuid.UUID, slug string) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	// Open projects are browsable; everything else is participant-only
	if project.Status != entity.ProjectStatusOpen && !s.isParticipant(project, userID) {
		return nil, apperror.ErrForbidden
	}

	res := s.buildProjectResponse(*project)
	return &res, nil
}

func (s *service) GetMyProjects(ctx context.Context, userID uuid.UUID, filter commonDto.ProjectFilter) (*dto.PaginatedProjectResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit)

	offset := (page - 1) * limit
	projects, total, err := s.projectRepo.FindAll(ctx, userID, filter.Status, offset, limit)
	if err != nil {
		return nil, err
	}

	return s.buildPaginatedResponse(projects, total, page, limit), nil
}

func (s *service) GetOpenProjects(ctx context.Context, page, limit int) (*dto.PaginatedProjectResponse, error) {
	page, limit = normalizePage(page, limit)

	offset := (page - 1) * limit
	projects, total, err := s.projectRepo.FindOpen(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	return s.buildPaginatedResponse(projects, total, page, limit), nil
}

func (s *service) SearchProjects(ctx context.Context, query, status string) ([]search.ProjectDoc, error) {
	if s.searchService == nil {
		return nil, apperror.ErrInternal
	}
	return s.searchService.SearchProjects(query, status, 20)
}

func (s *service) AssignDesigner(ctx context.Context, clientID, projectID uuid.UUID, input dto.AssignDesignerInput) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if project.ClientID != clientID {
		return apperror.ErrForbidden
	}
	if !project.CanTransitionTo(entity.ProjectStatusAssigned) {
		return fmt.Errorf("%w: project is %s, cannot assign", apperror.ErrConflict, project.Status)
	}

	designer, err := s.userRepo.FindByID(ctx, input.DesignerID.String())
	if err != nil {
		return fmt.Errorf("%w: designer not found", apperror.ErrBadRequest)
	}
	if designer.Role.Name != entity.RoleDesainer {
		return fmt.Errorf("%w: user is not a desainer", apperror.ErrBadRequest)
	}

	prevStatus := project.Status
	project.DesignerID = &designer.ID
	project.Status = entity.ProjectStatusAssigned
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return err
	}

	s.notifyProjectEvent(project, designer.ID, entity.NotifTypeProjectAssigned,
		"Proyek baru untukmu",
		fmt.Sprintf("Kamu ditugaskan untuk proyek '%s'", project.Title),
		prevStatus, project.Status)

	s.reindex(project)
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, userID, projectID uuid.UUID, input dto.UpdateStatusInput) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if !s.isParticipant(project, userID) {
		return apperror.ErrForbidden
	}
	if !project.CanTransitionTo(input.Status) {
		return fmt.Errorf("%w: cannot move project from %s to %s", apperror.ErrConflict, project.Status, input.Status)
	}

	// Completing a project is the client's call; the rest of the flow is the designer's
	if input.Status == entity.ProjectStatusCompleted && project.ClientID != userID {
		return apperror.ErrForbidden
	}

	prevStatus := project.Status
	project.Status = input.Status
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return err
	}

	// Notify the counterparty
	if target, ok := s.counterparty(project, userID); ok {
		s.notifyProjectEvent(project, target, entity.NotifTypeStatusChanged,
			"Status proyek berubah",
			fmt.Sprintf("Proyek '%s' berubah dari %s menjadi %s", project.Title, prevStatus, project.Status),
			prevStatus, project.Status)
	}

	s.reindex(project)
	return nil
}

func (s *service) Deliver(ctx context.Context, designerID, projectID uuid.UUID, file dto.DeliverableFile) (*entity.Deliverable, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if project.DesignerID == nil || *project.DesignerID != designerID {
		return nil, apperror.ErrForbidden
	}
	if !project.CanTransitionTo(entity.ProjectStatusDelivered) {
		return nil, fmt.Errorf("%w: project is %s, cannot deliver", apperror.ErrConflict, project.Status)
	}

	url, err := s.fileStorage.UploadFile(ctx, file.Reader, "deliverables", file.FileName)
	if err != nil {
		return nil, err
	}

	deliverable := &entity.Deliverable{
		ProjectID: project.ID,
		FileURL:   url,
		FileName:  file.FileName,
	}
	if err := s.projectRepo.AddDeliverable(ctx, deliverable); err != nil {
		return nil, err
	}

	prevStatus := project.Status
	project.Status = entity.ProjectStatusDelivered
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.notifyProjectEvent(project, project.ClientID, entity.NotifTypeProjectDelivered,
		"Hasil desain sudah dikirim",
		fmt.Sprintf("Desainer telah mengirim hasil untuk proyek '%s'", project.Title),
		prevStatus, project.Status)

	s.reindex(project)
	return deliverable, nil
}

func (s *service) DeleteProject(ctx context.Context, clientID, projectID uuid.UUID) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if project.ClientID != clientID {
		return apperror.ErrForbidden
	}
	if project.Status != entity.ProjectStatusOpen && project.Status != entity.ProjectStatusCancelled {
		return fmt.Errorf("%w: only open or cancelled projects can be deleted", apperror.ErrConflict)
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	if s.searchService != nil {
		_ = s.searchService.DeleteProject(projectID.String())
	}
	return nil
}

func (s *service) notifyProjectEvent(project *entity.Project, target uuid.UUID, notifType, title, message, fromStatus, toStatus string) {
	data, err := notifDto.EncodeData(notifDto.ProjectEventData{
		ProjectID:  project.ID,
		Slug:       project.Slug,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
	})
	if err != nil {
		data = nil
	}

	projectTitle := project.Title
	notification := &entity.Notification{
		UserID:       target,
		Type:         notifType,
		Title:        title,
		Message:      message,
		Data:         data,
		ProjectID:    &project.ID,
		ProjectTitle: &projectTitle,
	}
	if err := s.notificationService.CreateNotification(context.Background(), notification); err != nil {
		log.Printf("failed to create %s notification for user %s: %v", notifType, target, err)
	}
}
