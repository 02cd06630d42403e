package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/desainhub/internal/entity"
	"anoa.com/desainhub/internal/modules/notification/dto"
	notifRepo "anoa.com/desainhub/internal/modules/notification/repository"
	"anoa.com/desainhub/pkg/apperror"
	commonDto "anoa.com/desainhub/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, filter commonDto.NotificationFilter) (*dto.PaginatedNotificationResponse, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
	}
}

// PubSubChannel is the redis channel a user's live notifications fan out on.
func PubSubChannel(userID string) string {
	return fmt.Sprintf("user_notifications:%s", userID)
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *entity.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, PubSubChannel(notification.UserID.String()), payload)
		}
	}

	return nil
}

func (s *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, filter commonDto.NotificationFilter) (*dto.PaginatedNotificationResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize
	notifications, total, err := s.repo.FindByUser(ctx, userID, filter.UnreadOnly, offset, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	// A page past the end (totals shrink after deletes) clamps to the last
	// page with data instead of returning an empty page.
	if len(notifications) == 0 && total > 0 && page > totalPages {
		page = totalPages
		offset = (page - 1) * pageSize
		notifications, total, err = s.repo.FindByUser(ctx, userID, filter.UnreadOnly, offset, pageSize)
		if err != nil {
			return nil, err
		}
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []entity.Notification{}
	}

	return &dto.PaginatedNotificationResponse{
		Data: notifications,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       pageSize,
		},
		UnreadCount: unread,
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	rows, err := s.repo.MarkAsRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	// Skip the write when there is nothing unread
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if unread == 0 {
		return 0, nil
	}
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (s *notificationService) DeleteAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.DeleteAllRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
