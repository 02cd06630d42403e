package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"anoa.com/desainhub/internal/entity"
	"anoa.com/desainhub/internal/modules/project/dto"
	commonDto "anoa.com/desainhub/pkg/dto"
	"anoa.com/desainhub/pkg/ratelimiter"
	"github.com/google/uuid"
)

// Helper methods to reduce code duplication in Service

func (s *service) buildProjectResponse(project entity.Project) dto.ProjectResponse {
	clientResponse := commonDto.AuthorResponse{
		Username: "Unknown",
	}
	if project.Client != nil && project.Client.Username != "" {
		clientResponse.Username = project.Client.Username
		clientResponse.AvatarURL = project.Client.AvatarURL
	}

	var designerResponse *commonDto.AuthorResponse
	if project.Designer != nil {
		designerResponse = &commonDto.AuthorResponse{
			Username:  project.Designer.Username,
			AvatarURL: project.Designer.AvatarURL,
		}
	}

	deliverables := project.Deliverables
	if deliverables == nil {
		deliverables = []entity.Deliverable{}
	}

	return dto.ProjectResponse{
		ID:           project.ID,
		Title:        project.Title,
		Slug:         project.Slug,
		Brief:        project.Brief,
		Budget:       project.Budget,
		Status:       project.Status,
		Client:       clientResponse,
		Designer:     designerResponse,
		Deliverables: deliverables,
		CreatedAt:    project.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    project.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (s *service) buildPaginatedResponse(projects []*entity.Project, total int64, page, limit int) *dto.PaginatedProjectResponse {
	responses := make([]dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, s.buildProjectResponse(*project))
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &dto.PaginatedProjectResponse{
		Data: responses,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       limit,
		},
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

func (s *service) isParticipant(project *entity.Project, userID uuid.UUID) bool {
	if project.ClientID == userID {
		return true
	}
	return project.DesignerID != nil && *project.DesignerID == userID
}

// counterparty returns the other side of the project relative to actor.
func (s *service) counterparty(project *entity.Project, actor uuid.UUID) (uuid.UUID, bool) {
	if project.ClientID == actor {
		if project.DesignerID != nil {
			return *project.DesignerID, true
		}
		return uuid.Nil, false
	}
	return project.ClientID, true
}

func (s *service) checkCreateProjectRateLimit(ctx context.Context, userID uuid.UUID) (func(), error) {
	limit := ratelimiter.GetDurationFromEnv("RATE_LIMIT_PROJECT", time.Minute)
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeProject, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := ratelimiter.GetRateLimitTTL(ctx, s.redisClient, userID, ratelimiter.ScopeProject)
		return nil, &ratelimiter.RateLimitError{
			Message:    fmt.Sprintf("you can only create one project every %.0f seconds. Please wait %.0f seconds", limit.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	// Rollback function if subsequent steps fail
	cleanup := func() {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, ratelimiter.ScopeProject)
	}
	return cleanup, nil
}

func (s *service) generateUniqueSlug(ctx context.Context, title string) string {
	slug := strings.ToLower(title)
	// Remove invalid chars
	reg, _ := regexp.Compile("[^a-z0-9 ]+")
	slug = reg.ReplaceAllString(slug, "")
	// Replace spaces with hyphens
	slug = strings.ReplaceAll(slug, " ", "-")
	// Trim hyphens
	slug = strings.Trim(slug, "-")

	// Basic slug uniqueness check
	existing, _ := s.projectRepo.FindBySlug(ctx, slug)
	if existing != nil {
		slug = fmt.Sprintf("%s-%d", slug, time.Now().Unix())
	}

	return slug
}

func (s *service) reindex(project *entity.Project) {
	if s.searchService == nil {
		return
	}
	if err := s.searchService.IndexProject(project); err != nil {
		log.Printf("failed to reindex project %s: %v", project.ID, err)
	}
}
