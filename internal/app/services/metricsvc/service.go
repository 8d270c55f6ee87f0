// Package metricsvc derives the dashboard figures from the actor's
// projects. Everything is computed on read; nothing is stored.
package metricsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// ProjectLister loads the actor's live projects.
type ProjectLister interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
}

// Service computes account-level metrics.
type Service struct {
	projects ProjectLister
}

// New wires a metrics service.
func New(projects ProjectLister) *Service {
	return &Service{projects: projects}
}

// Compute aggregates the actor's projects: finished and in-progress
// counts, revenues summed over finished projects' quotes, and the
// hourly rate averaged over every project, unrated ones included. An
// account with no projects reports zeroes.
func (s *Service) Compute(ctx context.Context, actor *models.User) (*models.Metrics, error) {
	if actor == nil {
		return nil, apperr.Unauthorized()
	}

	projects, err := s.projects.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var m models.Metrics
	var rateSum float64

	for i := range projects {
		p := &projects[i]
		switch p.Status {
		case models.StatusDone:
			m.TotalFinishedProjects++
			m.TotalRevenues += p.Quote
		case models.StatusInProgress:
			m.TotalWIPProjects++
		}
		rateSum += p.HourlyRate
	}

	if len(projects) > 0 {
		m.AverageHourlyRate = rateSum / float64(len(projects))
	}
	return &m, nil
}
