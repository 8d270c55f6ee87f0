// Package github wraps the GitHub REST API behind the narrow surface
// the services consume. Every user connects with their own access
// token, so callers obtain a client per token through a Factory.
package github

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/wedevhq/wedev/internal/domain/models"
)

// ConfigFileName is the project configuration file looked up in linked
// repositories.
const ConfigFileName = "wedev.config.yml"

// Client is the slice of the GitHub API this application uses.
type Client interface {
	ListRepos(ctx context.Context) ([]models.Repository, error)
	CreateIssue(ctx context.Context, repoFullName, title, body string) (int, error)
	UserLogin(ctx context.Context) (string, error)
	ConfigFile(ctx context.Context, repoFullName string) (string, error)
}

// Factory builds a Client for a user's access token.
type Factory func(token string) Client

// NewFactory returns a Factory producing REST clients with the given
// per-call timeout.
func NewFactory(timeout time.Duration) Factory {
	return func(token string) Client {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient := oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = timeout
		return &restClient{gh: gh.NewClient(httpClient)}
	}
}

type restClient struct {
	gh *gh.Client
}

func (c *restClient) ListRepos(ctx context.Context) ([]models.Repository, error) {
	opts := &gh.RepositoryListByAuthenticatedUserOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var out []models.Repository
	for {
		repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, err
		}
		for _, r := range repos {
			out = append(out, models.Repository{
				GithubID:    r.GetID(),
				Name:        r.GetName(),
				FullName:    r.GetFullName(),
				Owner:       r.GetOwner().GetLogin(),
				Description: r.GetDescription(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *restClient) CreateIssue(ctx context.Context, repoFullName, title, body string) (int, error) {
	owner, repo, err := splitFullName(repoFullName)
	if err != nil {
		return 0, err
	}
	issue, _, err := c.gh.Issues.Create(ctx, owner, repo, &gh.IssueRequest{
		Title: gh.String(title),
		Body:  gh.String(body),
	})
	if err != nil {
		return 0, err
	}
	return issue.GetNumber(), nil
}

func (c *restClient) UserLogin(ctx context.Context) (string, error) {
	u, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", err
	}
	return u.GetLogin(), nil
}

func (c *restClient) ConfigFile(ctx context.Context, repoFullName string) (string, error) {
	owner, repo, err := splitFullName(repoFullName)
	if err != nil {
		return "", err
	}
	fc, _, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, ConfigFileName, nil)
	if err != nil {
		return "", err
	}
	content, err := fc.GetContent()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(content)), nil
}

type malformedFullNameError string

func (e malformedFullNameError) Error() string {
	return "malformed repository full name: " + string(e)
}

func splitFullName(fullName string) (owner, repo string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", malformedFullNameError(fullName)
	}
	return parts[0], parts[1], nil
}
