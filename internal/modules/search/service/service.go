package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"anoa.com/desainhub/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const projectIndex = "projects"

type SearchService interface {
	IndexProject(project *entity.Project) error
	DeleteProject(id string) error
	SearchProjects(query, status string, limit int64) ([]ProjectDoc, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"status", "client_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index(projectIndex).UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update projects filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "budget"}
	_, err = s.client.Index(projectIndex).UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update projects sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

// ProjectDoc is the document shape stored in Meilisearch.
type ProjectDoc struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Brief     string `json:"brief"`
	Status    string `json:"status"`
	Budget    int64  `json:"budget"`
	ClientID  string `json:"client_id"`
	CreatedAt int64  `json:"created_at"`
}

func (s *searchService) cleanBriefForIndex(brief string) string {
	// Replace block tags with spaces to prevent text merging
	brief = strings.ReplaceAll(brief, "</p>", " ")
	brief = strings.ReplaceAll(brief, "<br>", " ")
	brief = strings.ReplaceAll(brief, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(brief)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexProject(project *entity.Project) error {
	doc := ProjectDoc{
		ID:        project.ID.String(),
		Title:     project.Title,
		Slug:      project.Slug,
		Brief:     s.cleanBriefForIndex(project.Brief),
		Status:    project.Status,
		Budget:    project.Budget,
		ClientID:  project.ClientID.String(),
		CreatedAt: project.CreatedAt.Unix(),
	}

	_, err := s.client.Index(projectIndex).AddDocuments([]ProjectDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("failed to index project: %w", err)
	}
	return nil
}

func (s *searchService) DeleteProject(id string) error {
	_, err := s.client.Index(projectIndex).DeleteDocument(id)
	return err
}

func (s *searchService) SearchProjects(query, status string, limit int64) ([]ProjectDoc, error) {
	if limit <= 0 {
		limit = 20
	}

	req := &meilisearch.SearchRequest{
		Limit: limit,
		Sort:  []string{"created_at:desc"},
	}
	if status != "" {
		req.Filter = fmt.Sprintf("status = %q", status)
	}

	resp, err := s.client.Index(projectIndex).Search(query, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch query failed: %w", err)
	}

	docs := make([]ProjectDoc, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc ProjectDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func strPtr(s string) *string {
	return &s
}
