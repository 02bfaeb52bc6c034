package user

import "context"

// UserRepository defines data access methods for the user directory.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user User) (User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email, used by login
	GetByEmail(ctx context.Context, email string) (User, error)

	// List retrieves all users, active and inactive
	List(ctx context.Context) ([]User, error)

	// ListActive retrieves users with is_active = true.
	// The reconciler classifies exactly this set.
	ListActive(ctx context.Context) ([]User, error)

	// SetActive flips the is_active flag
	SetActive(ctx context.Context, id string, active bool) error
}
