package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anoa.com/desainhub/internal/entity"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{entity.ProjectStatusOpen, entity.ProjectStatusAssigned, true},
		{entity.ProjectStatusOpen, entity.ProjectStatusCancelled, true},
		{entity.ProjectStatusOpen, entity.ProjectStatusCompleted, false},
		{entity.ProjectStatusAssigned, entity.ProjectStatusInProgress, true},
		{entity.ProjectStatusInProgress, entity.ProjectStatusDelivered, true},
		{entity.ProjectStatusDelivered, entity.ProjectStatusCompleted, true},
		{entity.ProjectStatusDelivered, entity.ProjectStatusInProgress, true}, // revision request
		{entity.ProjectStatusCompleted, entity.ProjectStatusOpen, false},
		{entity.ProjectStatusCancelled, entity.ProjectStatusOpen, false},
	}

	for _, tt := range tests {
		p := &entity.Project{Status: tt.from}
		assert.Equal(t, tt.want, p.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
