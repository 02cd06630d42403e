package repository

import (
	"context"
	"time"

	"anoa.com/desainhub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) (*entity.Payment, error)
	FindByDesigner(ctx context.Context, designerID uuid.UUID) ([]entity.Payment, error)
	Confirm(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error)
	// SummaryByDesigner aggregates amounts per status for a designer.
	SummaryByDesigner(ctx context.Context, designerID uuid.UUID) (pending, confirmed, count int64, err error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByProject(ctx context.Context, projectID uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByDesigner(ctx context.Context, designerID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("designer_id = ?", designerID).
		Order("created_at desc").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Confirm(ctx context.Context, id uuid.UUID, paidAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Where("id = ? AND status = ?", id, entity.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":  entity.PaymentStatusConfirmed,
			"paid_at": paidAt,
		})
	return res.RowsAffected, res.Error
}

func (r *paymentRepository) SummaryByDesigner(ctx context.Context, designerID uuid.UUID) (pending, confirmed, count int64, err error) {
	type row struct {
		Status string
		Sum    int64
		Cnt    int64
	}
	var rows []row
	err = r.db.WithContext(ctx).
		Model(&entity.Payment{}).
		Select("status, COALESCE(SUM(amount),0) as sum, COUNT(*) as cnt").
		Where("designer_id = ?", designerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, 0, err
	}

	for _, r := range rows {
		switch r.Status {
		case entity.PaymentStatusPending:
			pending = r.Sum
		case entity.PaymentStatusConfirmed:
			confirmed = r.Sum
		}
		count += r.Cnt
	}
	return pending, confirmed, count, nil
}
