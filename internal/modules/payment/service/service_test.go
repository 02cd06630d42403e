package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"anoa.com/desainhub/internal/entity"
	notifDto "anoa.com/desainhub/internal/modules/notification/dto"
	"anoa.com/desainhub/internal/modules/payment/service"
	"anoa.com/desainhub/pkg/apperror"
	commonDto "anoa.com/desainhub/pkg/dto"
)

type fakePaymentRepository struct {
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepository() *fakePaymentRepository {
	return &fakePaymentRepository{payments: map[uuid.UUID]*entity.Payment{}}
}

func (f *fakePaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	if p, ok := f.payments[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepository) FindByProject(ctx context.Context, projectID uuid.UUID) (*entity.Payment, error) {
	for _, p := range f.payments {
		if p.ProjectID == projectID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepository) FindByDesigner(ctx context.Context, designerID uuid.UUID) ([]entity.Payment, error) {
	var out []entity.Payment
	for _, p := range f.payments {
		if p.DesignerID == designerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepository) Confirm(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error) {
	p, ok := f.payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return 0, nil
	}
	p.Status = entity.PaymentStatusConfirmed
	p.PaidAt = &paidAt
	return 1, nil
}

func (f *fakePaymentRepository) SummaryByDesigner(ctx context.Context, designerID uuid.UUID) (pending, confirmed, count int64, err error) {
	for _, p := range f.payments {
		if p.DesignerID != designerID {
			continue
		}
		count++
		if p.Status == entity.PaymentStatusConfirmed {
			confirmed += p.Amount
		} else {
			pending += p.Amount
		}
	}
	return pending, confirmed, count, nil
}

type fakeProjectRepository struct {
	projects map[uuid.UUID]*entity.Project
}

func newFakeProjectRepository(projects ...*entity.Project) *fakeProjectRepository {
	f := &fakeProjectRepository{projects: map[uuid.UUID]*entity.Project{}}
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProjectRepository) FindBySlug(ctx context.Context, slug string) (*entity.Project, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProjectRepository) FindAll(ctx context.Context, userID uuid.UUID, status string, offset, limit int) ([]*entity.Project, int64, error) {
	return nil, 0, nil
}

func (f *fakeProjectRepository) FindOpen(ctx context.Context, offset, limit int) ([]*entity.Project, int64, error) {
	return nil, 0, nil
}

func (f *fakeProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepository) AddDeliverable(ctx context.Context, deliverable *entity.Deliverable) error {
	return nil
}

// flakyNotificationService fails every persist so tests can prove payment
// operations do not depend on notification delivery.
type flakyNotificationService struct {
	attempts int
}

func (s *flakyNotificationService) CreateNotification(ctx context.Context, n *entity.Notification) error {
	s.attempts++
	return errors.New("notification store unavailable")
}

func (s *flakyNotificationService) ListNotifications(ctx context.Context, userID uuid.UUID, filter commonDto.NotificationFilter) (*notifDto.PaginatedNotificationResponse, error) {
	return nil, nil
}

func (s *flakyNotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

func (s *flakyNotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *flakyNotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return nil
}

func (s *flakyNotificationService) DeleteAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *flakyNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func completedProject(clientID, designerID uuid.UUID) *entity.Project {
	return &entity.Project{
		ID:         uuid.New(),
		Title:      "Desain logo kafe",
		Slug:       "desain-logo-kafe",
		Budget:     500000,
		Status:     entity.ProjectStatusCompleted,
		ClientID:   clientID,
		DesignerID: &designerID,
	}
}

func TestCreateForProject(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	designerID := uuid.New()

	t.Run("opens a pending payment for a completed project", func(t *testing.T) {
		project := completedProject(clientID, designerID)
		svc := service.NewPaymentService(newFakePaymentRepository(), newFakeProjectRepository(project), &flakyNotificationService{})

		payment, err := svc.CreateForProject(ctx, clientID, project.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentStatusPending, payment.Status)
		assert.Equal(t, project.Budget, payment.Amount)
		assert.Equal(t, designerID, payment.DesignerID)
	})

	t.Run("rejects projects that are not completed", func(t *testing.T) {
		project := completedProject(clientID, designerID)
		project.Status = entity.ProjectStatusInProgress
		svc := service.NewPaymentService(newFakePaymentRepository(), newFakeProjectRepository(project), &flakyNotificationService{})

		_, err := svc.CreateForProject(ctx, clientID, project.ID)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("rejects a second payment for the same project", func(t *testing.T) {
		project := completedProject(clientID, designerID)
		svc := service.NewPaymentService(newFakePaymentRepository(), newFakeProjectRepository(project), &flakyNotificationService{})

		_, err := svc.CreateForProject(ctx, clientID, project.ID)
		require.NoError(t, err)
		_, err = svc.CreateForProject(ctx, clientID, project.ID)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("only the client may open a payment", func(t *testing.T) {
		project := completedProject(clientID, designerID)
		svc := service.NewPaymentService(newFakePaymentRepository(), newFakeProjectRepository(project), &flakyNotificationService{})

		_, err := svc.CreateForProject(ctx, uuid.New(), project.ID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	clientID := uuid.New()
	designerID := uuid.New()

	setup := func(t *testing.T, notif *flakyNotificationService) (service.PaymentService, *entity.Payment) {
		t.Helper()
		project := completedProject(clientID, designerID)
		payments := newFakePaymentRepository()
		svc := service.NewPaymentService(payments, newFakeProjectRepository(project), notif)

		payment, err := svc.CreateForProject(ctx, clientID, project.ID)
		require.NoError(t, err)
		payment.Project = project
		return svc, payment
	}

	t.Run("confirms a pending payment", func(t *testing.T) {
		svc, payment := setup(t, &flakyNotificationService{})

		require.NoError(t, svc.Confirm(ctx, clientID, payment.ID))
		assert.Equal(t, entity.PaymentStatusConfirmed, payment.Status)
		require.NotNil(t, payment.PaidAt)
	})

	t.Run("second confirmation is a conflict", func(t *testing.T) {
		svc, payment := setup(t, &flakyNotificationService{})

		require.NoError(t, svc.Confirm(ctx, clientID, payment.ID))
		err := svc.Confirm(ctx, clientID, payment.ID)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("confirmation survives a failed notification persist", func(t *testing.T) {
		notif := &flakyNotificationService{}
		svc, payment := setup(t, notif)

		require.NoError(t, svc.Confirm(ctx, clientID, payment.ID))
		assert.Equal(t, entity.PaymentStatusConfirmed, payment.Status)
		assert.Equal(t, 1, notif.attempts)
	})

	t.Run("only the client may confirm", func(t *testing.T) {
		svc, payment := setup(t, &flakyNotificationService{})

		err := svc.Confirm(ctx, uuid.New(), payment.ID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	designerID := uuid.New()

	payments := newFakePaymentRepository()
	require.NoError(t, payments.Create(ctx, &entity.Payment{
		ProjectID: uuid.New(), DesignerID: designerID, Amount: 300000, Status: entity.PaymentStatusPending,
	}))
	require.NoError(t, payments.Create(ctx, &entity.Payment{
		ProjectID: uuid.New(), DesignerID: designerID, Amount: 700000, Status: entity.PaymentStatusConfirmed,
	}))

	svc := service.NewPaymentService(payments, newFakeProjectRepository(), &flakyNotificationService{})

	summary, err := svc.Summary(ctx, designerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), summary.TotalIncome)
	assert.Equal(t, int64(300000), summary.PendingAmount)
	assert.Equal(t, int64(700000), summary.ConfirmedAmount)
	assert.Equal(t, int64(2), summary.PaymentCount)
}
