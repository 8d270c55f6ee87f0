// Package repossvc exposes the GitHub side of a project: listing the
// account's repositories, opening issues on a linked repository, and
// fetching its project configuration file. GitHub being unreachable is
// reported as an integration failure, never as an internal one.
package repossvc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wedevhq/wedev/internal/app/policy/ownership"
	"github.com/wedevhq/wedev/internal/app/system/github"
	"github.com/wedevhq/wedev/internal/app/system/inputval"
	"github.com/wedevhq/wedev/internal/domain/apperr"
	"github.com/wedevhq/wedev/internal/domain/models"
)

// ProjectReader loads projects for repository-link checks.
type ProjectReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
}

// Service handles repository operations.
type Service struct {
	projects ProjectReader
	github   github.Factory
}

// New wires a repository service.
func New(projects ProjectReader, ghFactory github.Factory) *Service {
	return &Service{projects: projects, github: ghFactory}
}

func (s *Service) clientFor(actor *models.User) (github.Client, error) {
	if actor == nil {
		return nil, apperr.Unauthorized()
	}
	if actor.GithubToken == "" {
		return nil, apperr.ValidationLabel("githubToken", "account has no GitHub token", "github_token_missing")
	}
	return s.github(actor.GithubToken), nil
}

// ListRepos returns the repositories the actor's GitHub token can see.
func (s *Service) ListRepos(ctx context.Context, actor *models.User) ([]models.Repository, error) {
	client, err := s.clientFor(actor)
	if err != nil {
		return nil, err
	}
	repos, err := client.ListRepos(ctx)
	if err != nil {
		return nil, apperr.Integration("could not list GitHub repositories", err)
	}
	return repos, nil
}

// linkedRepo checks the repository is linked to the project and
// returns the project.
func (s *Service) linkedRepo(ctx context.Context, actor *models.User, projectID primitive.ObjectID, repoFullName string) error {
	if !ownership.CanManageProject(actor, projectID) {
		return apperr.Unauthorized()
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperr.NotFound("project")
		}
		return apperr.Internal(err)
	}
	for _, r := range project.Repositories {
		if r.FullName == repoFullName {
			return nil
		}
	}
	return apperr.Validation("repository", "repository is not linked to this project")
}

// IssueInput is the payload for opening an issue on a project's linked
// repository.
type IssueInput struct {
	Project      primitive.ObjectID
	RepoFullName string
	Title        string
	Body         string
}

func (in IssueInput) validate() error {
	var errs []inputval.FieldError
	errs = inputval.Required(errs, "repository", in.RepoFullName)
	errs = inputval.Required(errs, "title", in.Title)
	if len(errs) > 0 {
		return apperr.Validation(errs[0].Field, errs[0].Msg)
	}
	return nil
}

// CreateIssue opens an issue on a repository linked to one of the
// actor's projects and returns the issue number.
func (s *Service) CreateIssue(ctx context.Context, actor *models.User, in IssueInput) (int, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	client, err := s.clientFor(actor)
	if err != nil {
		return 0, err
	}
	if err := s.linkedRepo(ctx, actor, in.Project, in.RepoFullName); err != nil {
		return 0, err
	}

	number, err := client.CreateIssue(ctx, in.RepoFullName, in.Title, in.Body)
	if err != nil {
		return 0, apperr.Integration("could not create GitHub issue", err)
	}
	return number, nil
}

// ConfigFile fetches the project configuration file from a linked
// repository, base64-encoded.
func (s *Service) ConfigFile(ctx context.Context, actor *models.User, projectID primitive.ObjectID, repoFullName string) (string, error) {
	client, err := s.clientFor(actor)
	if err != nil {
		return "", err
	}
	if err := s.linkedRepo(ctx, actor, projectID, repoFullName); err != nil {
		return "", err
	}

	content, err := client.ConfigFile(ctx, repoFullName)
	if err != nil {
		return "", apperr.Integration("could not fetch repository config file", err)
	}
	return content, nil
}
