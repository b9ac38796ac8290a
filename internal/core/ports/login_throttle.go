package ports

import "context"

// LoginThrottle bounds login attempts per username. Usernames are compared
// exactly, as they are stored.
type LoginThrottle interface {
	// Attempt counts one login attempt for username and reports whether it
	// may proceed. It is called before the credential is checked.
	Attempt(ctx context.Context, username string) (bool, error)
	// Reset clears the count after a successful login.
	Reset(ctx context.Context, username string) error
}
