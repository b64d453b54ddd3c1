package users

import (
	"context"

	"Agora/internal/core/media"
	"Agora/internal/core/pagination"
)

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts a user. Returns ErrEmailTaken or ErrUsernameTaken on unique violations.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateProfile writes the mutable profile fields. Email, password and picture are untouched.
	UpdateProfile(ctx context.Context, user *User) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// UpdateProfilePicture stores the new key and returns the previous one
	UpdateProfilePicture(ctx context.Context, id int64, key string) (string, error)

	Count(ctx context.Context, filter ListFilter) (int, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]*UserSummary, error)

	// ListSubscribers returns users whose subscribed_to contains id
	ListSubscribers(ctx context.Context, id int64) ([]*UserSummary, error)
	// ListSubscribedTo returns users id is subscribed to
	ListSubscribedTo(ctx context.Context, id int64) ([]*UserSummary, error)
}

// SubscriptionRepository persists the directed subscribed_to relation
type SubscriptionRepository interface {
	// Subscribe adds the edge. Returns ErrAlreadySubscribed when it exists.
	Subscribe(ctx context.Context, subscriberID, targetID int64) error
	// Unsubscribe removes the edge. Returns ErrNotSubscribed when absent.
	Unsubscribe(ctx context.Context, subscriberID, targetID int64) error
}

// UserService defines the interface for user business logic.
// actorID is always the authenticated caller.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, req LoginRequest) (*User, error)

	GetMe(ctx context.Context, actorID int64) (*User, error)
	UpdateProfile(ctx context.Context, actorID int64, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, actorID int64, req ChangePasswordRequest) error
	UpdateProfilePicture(ctx context.Context, actorID int64, upload media.Upload) (*User, error)

	ListUsers(ctx context.Context, filter ListFilter, page pagination.Request) ([]*UserSummary, int, error)
	GetUserDetail(ctx context.Context, id int64) (*UserDetail, error)
	GetUser(ctx context.Context, id int64) (*User, error)

	Subscribe(ctx context.Context, actorID, targetID int64) error
	Unsubscribe(ctx context.Context, actorID, targetID int64) error
}

// PasswordHasher hashes and checks passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// PictureStore stores profile pictures
type PictureStore interface {
	SaveProfilePicture(ctx context.Context, username string, upload media.Upload) (string, error)
	Delete(ctx context.Context, key string) error
}
