package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/smallbiznis/gatekeeper/internal/collaborator/domain"
	"github.com/smallbiznis/gatekeeper/internal/config"
)

type Client struct {
	gh *gh.Client
}

// Options configures the GitHub REST client.
type Options struct {
	Token      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewFromConfig(cfg config.Config) (domain.Client, error) {
	return New(Options{
		Token:   cfg.GitHub.Token,
		BaseURL: cfg.GitHub.APIURL,
		Timeout: cfg.GitHub.Timeout,
	})
}

func New(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	client := gh.NewClient(httpClient)
	if token := strings.TrimSpace(opts.Token); token != "" {
		client = client.WithAuthToken(token)
	}

	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &Client{gh: client}, nil
}

func (c *Client) IsMember(ctx context.Context, repo domain.Repository, user string) (bool, error) {
	ok, resp, err := c.gh.Repositories.IsCollaborator(ctx, repo.Owner, repo.Name, user)
	if err != nil {
		return false, wrapError("is collaborator", resp, err)
	}
	return ok, nil
}

func (c *Client) Grant(ctx context.Context, repo domain.Repository, user, permission string) error {
	opts := &gh.RepositoryAddCollaboratorOptions{Permission: strings.TrimSpace(permission)}
	_, resp, err := c.gh.Repositories.AddCollaborator(ctx, repo.Owner, repo.Name, user, opts)
	if err != nil {
		return wrapError("add collaborator", resp, err)
	}
	if resp != nil && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: github add collaborator status=%d", domain.ErrOperationFailed, resp.StatusCode)
	}
	return nil
}

func (c *Client) Revoke(ctx context.Context, repo domain.Repository, user string) error {
	resp, err := c.gh.Repositories.RemoveCollaborator(ctx, repo.Owner, repo.Name, user)
	if err != nil {
		if isNotFound(resp, err) {
			return nil
		}
		return wrapError("remove collaborator", resp, err)
	}
	return nil
}

func isNotFound(resp *gh.Response, err error) bool {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

func wrapError(op string, resp *gh.Response, err error) error {
	if resp != nil && resp.Response != nil {
		return fmt.Errorf("%w: github %s status=%d: %w", domain.ErrOperationFailed, op, resp.StatusCode, err)
	}
	return fmt.Errorf("%w: github %s: %w", domain.ErrOperationFailed, op, err)
}
