package auth

import (
	"context"

	"github.com/sofra-eats/sofra/internal/models"
)

// Authenticator is the credential-verification capability behind the
// session surface. Implementations may be password-based, OAuth, etc.;
// the service layer never cares which.
type Authenticator interface {
	// Register creates a new account. The credential format depends on
	// the implementation (a password here).
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies credentials and returns the user on success.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks whether the credential meets the
	// implementation's requirements.
	ValidateCredential(credential string) error
}

// UserStorage is the slice of the store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
