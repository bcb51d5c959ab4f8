package domain

import (
	"context"
	"errors"
)

// ErrOperationFailed wraps every failure reported by a Client.
var ErrOperationFailed = errors.New("collaborator_operation_failed")

// Repository addresses one repository.
type Repository struct {
	Owner string
	Name  string
}

// Client manages a repository's collaborator list. Calls are not retried.
type Client interface {
	// IsMember reports whether user is a collaborator. Anything other than a
	// definite yes or no is an error.
	IsMember(ctx context.Context, repo Repository, user string) (bool, error)
	// Grant adds user with permission. Granting an existing collaborator succeeds.
	Grant(ctx context.Context, repo Repository, user, permission string) error
	// Revoke removes user. Revoking a non-collaborator succeeds.
	Revoke(ctx context.Context, repo Repository, user string) error
}
