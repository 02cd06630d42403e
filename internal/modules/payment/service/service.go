package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"anoa.com/desainhub/internal/entity"
	notifDto "anoa.com/desainhub/internal/modules/notification/dto"
	notif "anoa.com/desainhub/internal/modules/notification/service"
	"anoa.com/desainhub/internal/modules/payment/dto"
	"anoa.com/desainhub/internal/modules/payment/repository"
	projectRepo "anoa.com/desainhub/internal/modules/project/repository"
	"anoa.com/desainhub/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentService interface {
	// CreateForProject opens a pending payment once a project is completed.
	CreateForProject(ctx context.Context, clientID, projectID uuid.UUID) (*entity.Payment, error)
	Confirm(ctx context.Context, clientID, paymentID uuid.UUID) error
	ListMine(ctx context.Context, designerID uuid.UUID) (*dto.PaymentListResponse, error)
	Summary(ctx context.Context, designerID uuid.UUID) (*dto.PaymentSummaryResponse, error)
}

type paymentService struct {
	repo                repository.PaymentRepository
	projectRepo         projectRepo.ProjectRepository
	notificationService notif.NotificationService
}

func NewPaymentService(repo repository.PaymentRepository, projectRepo projectRepo.ProjectRepository, notificationService notif.NotificationService) PaymentService {
	return &paymentService{
		repo:                repo,
		projectRepo:         projectRepo,
		notificationService: notificationService,
	}
}

func (s *paymentService) CreateForProject(ctx context.Context, clientID, projectID uuid.UUID) (*entity.Payment, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if project.ClientID != clientID {
		return nil, apperror.ErrForbidden
	}
	if project.Status != entity.ProjectStatusCompleted {
		return nil, fmt.Errorf("%w: project must be completed before payment", apperror.ErrConflict)
	}
	if project.DesignerID == nil {
		return nil, fmt.Errorf("%w: project has no designer", apperror.ErrConflict)
	}

	// One payment per project
	if existing, err := s.repo.FindByProject(ctx, projectID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: payment already exists for this project", apperror.ErrConflict)
	}

	payment := &entity.Payment{
		ProjectID:  project.ID,
		DesignerID: *project.DesignerID,
		Amount:     project.Budget,
		Status:     entity.PaymentStatusPending,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *paymentService) Confirm(ctx context.Context, clientID, paymentID uuid.UUID) error {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if payment.Project == nil || payment.Project.ClientID != clientID {
		return apperror.ErrForbidden
	}

	rows, err := s.repo.Confirm(ctx, paymentID, time.Now())
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: payment already confirmed", apperror.ErrConflict)
	}

	s.notifyPaymentConfirmed(payment)
	return nil
}

func (s *paymentService) ListMine(ctx context.Context, designerID uuid.UUID) (*dto.PaymentListResponse, error) {
	payments, err := s.repo.FindByDesigner(ctx, designerID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []entity.Payment{}
	}
	return &dto.PaymentListResponse{Data: payments}, nil
}

func (s *paymentService) Summary(ctx context.Context, designerID uuid.UUID) (*dto.PaymentSummaryResponse, error) {
	pending, confirmed, count, err := s.repo.SummaryByDesigner(ctx, designerID)
	if err != nil {
		return nil, err
	}

	return &dto.PaymentSummaryResponse{
		TotalIncome:     pending + confirmed,
		PendingAmount:   pending,
		ConfirmedAmount: confirmed,
		PaymentCount:    count,
	}, nil
}

func (s *paymentService) notifyPaymentConfirmed(payment *entity.Payment) {
	data, err := notifDto.EncodeData(notifDto.PaymentEventData{
		PaymentID: payment.ID,
		ProjectID: payment.ProjectID,
		Amount:    payment.Amount,
	})
	if err != nil {
		data = nil
	}

	notification := &entity.Notification{
		UserID:  payment.DesignerID,
		Type:    entity.NotifTypePaymentConfirmed,
		Title:   "Pembayaran dikonfirmasi",
		Message: fmt.Sprintf("Pembayaran sebesar Rp%d telah dikonfirmasi", payment.Amount),
		Data:    data,
	}
	if payment.Project != nil {
		notification.ProjectID = &payment.ProjectID
		title := payment.Project.Title
		notification.ProjectTitle = &title
	}
	if err := s.notificationService.CreateNotification(context.Background(), notification); err != nil {
		log.Printf("failed to create payment notification for designer %s: %v", payment.DesignerID, err)
	}
}
