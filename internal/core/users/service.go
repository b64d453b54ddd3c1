package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"Agora/internal/auth"
	"Agora/internal/core/media"
	"Agora/internal/core/pagination"
	"Agora/internal/core/validation"
)

type userService struct {
	userRepo UserRepository
	subRepo  SubscriptionRepository
	hasher   PasswordHasher
	pictures PictureStore
	logger   *slog.Logger
}

// NewUserService creates a new user service. logger may be nil.
func NewUserService(userRepo UserRepository, subRepo SubscriptionRepository, hasher PasswordHasher, pictures PictureStore, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userRepo: userRepo,
		subRepo:  subRepo,
		hasher:   hasher,
		pictures: pictures,
		logger:   logger,
	}
}

// Register creates an account with a hashed password
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if err := validation.Struct(req); err != nil {
		return nil, validationFrom(err)
	}
	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &User{
		Email:        req.Email,
		Username:     req.Username,
		DateOfBirth:  dob,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, conflictAsValidation(err)
	}

	s.logger.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *userService) Authenticate(ctx context.Context, req LoginRequest) (*User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, validationFrom(err)
	}

	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(req.Email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetMe(ctx context.Context, actorID int64) (*User, error) {
	return s.userRepo.GetByID(ctx, actorID)
}

func (s *userService) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies the non-nil fields of req to the actor's profile
func (s *userService) UpdateProfile(ctx context.Context, actorID int64, req UpdateProfileRequest) (*User, error) {
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
	if !req.Partial && (req.Username == nil || *req.Username == "") {
		return nil, NewValidationError("username", "This field is required.")
	}
	if err := validation.Struct(req); err != nil {
		return nil, validationFrom(err)
	}

	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if *req.Username == "" {
			return nil, NewValidationError("username", "This field may not be blank.")
		}
		user.Username = *req.Username
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.DateOfBirth != nil {
		dob, err := parseDate("date_of_birth", req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Website != nil {
		user.Website = *req.Website
	}

	updated, err := s.userRepo.UpdateProfile(ctx, user)
	if err != nil {
		return nil, conflictAsValidation(err)
	}
	return updated, nil
}

// ChangePassword verifies the old password before storing the new hash
func (s *userService) ChangePassword(ctx context.Context, actorID int64, req ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return validationFrom(err)
	}
	if req.Password != req.Password2 {
		return NewValidationError("password", "Password fields didn't match.")
	}

	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.OldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return NewValidationError("old_password", "Old password is not correct")
		}
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, actorID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateProfilePicture stores the new picture and then removes the previous one
func (s *userService) UpdateProfilePicture(ctx context.Context, actorID int64, upload media.Upload) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	key, err := s.pictures.SaveProfilePicture(ctx, user.Username, upload)
	if err != nil {
		if media.IsValidationError(err) {
			return nil, NewValidationError("profile_picture", err.Error())
		}
		return nil, err
	}

	old, err := s.userRepo.UpdateProfilePicture(ctx, actorID, key)
	if err != nil {
		s.deleteMedia(ctx, key)
		return nil, err
	}
	if old != "" && old != key {
		s.deleteMedia(ctx, old)
	}

	user.ProfilePicture = key
	return user, nil
}

// ListUsers returns one page of users matching filter, with the total count
func (s *userService) ListUsers(ctx context.Context, filter ListFilter, page pagination.Request) ([]*UserSummary, int, error) {
	filter.User = strings.TrimSpace(filter.User)
	filter.Location = strings.TrimSpace(filter.Location)

	count, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := page.Validate(count); err != nil {
		return nil, 0, err
	}
	list, err := s.userRepo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return list, count, nil
}

// GetUserDetail loads a profile with subscribers and subscriptions
func (s *userService) GetUserDetail(ctx context.Context, id int64) (*UserDetail, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.userRepo.ListSubscribers(ctx, id)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.userRepo.ListSubscribedTo(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		User:             user,
		Subscribers:      subscribers,
		SubscribedTo:     subscribedTo,
		SubscribersCount: len(subscribers),
	}, nil
}

// Subscribe adds target to the actor's subscriptions
func (s *userService) Subscribe(ctx context.Context, actorID, targetID int64) error {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	if actorID == targetID {
		return ErrSelfSubscription
	}
	return s.subRepo.Subscribe(ctx, actorID, targetID)
}

// Unsubscribe removes target from the actor's subscriptions
func (s *userService) Unsubscribe(ctx context.Context, actorID, targetID int64) error {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.subRepo.Unsubscribe(ctx, actorID, targetID)
}

func (s *userService) deleteMedia(ctx context.Context, key string) {
	if err := s.pictures.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete profile picture", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// NormalizeEmail trims the address and lower-cases its domain part
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, *raw)
	if err != nil {
		return nil, NewValidationError(field, "Date has wrong format. Use YYYY-MM-DD.")
	}
	return &d, nil
}
