package users

import (
	"time"
)

// DateLayout is the wire format of date_of_birth
const DateLayout = "2006-01-02"

// User is an account. Email is the login identifier.
type User struct {
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	DateOfBirth    *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Email          string     `json:"email" db:"email"`
	Username       string     `json:"username" db:"username"`
	FullName       string     `json:"full_name" db:"full_name"`
	Bio            string     `json:"bio" db:"bio"`
	Location       string     `json:"location" db:"location"`
	Website        string     `json:"website" db:"website"`
	ProfilePicture string     `json:"profile_picture" db:"profile_picture"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	ID             int64      `json:"id" db:"id"`
	IsStaff        bool       `json:"is_staff" db:"is_staff"`
}

// Author returns the compact representation embedded in posts and comments
func (u *User) Author() Author {
	return Author{
		ID:             u.ID,
		Username:       u.Username,
		FullName:       u.FullName,
		ProfilePicture: u.ProfilePicture,
	}
}

// Author is the owner of a post or comment as shown in listings.
// ProfilePicture is a media key, not a URL.
type Author struct {
	Username       string
	FullName       string
	ProfilePicture string
	ID             int64
}

// UserSummary is a row of the user list and of subscriber lists
type UserSummary struct {
	Username         string
	FullName         string
	ProfilePicture   string
	ID               int64
	SubscribersCount int
}

// UserDetail is a public profile with both directions of the social graph
type UserDetail struct {
	User             *User
	Subscribers      []*UserSummary
	SubscribedTo     []*UserSummary
	SubscribersCount int
}

// ListFilter narrows the user list. Both filters are case-insensitive substrings;
// User matches username or full name.
type ListFilter struct {
	User     string
	Location string
}

// RegisterRequest is the input for account creation
type RegisterRequest struct {
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	Username    string  `json:"username" validate:"required,max=150,username"`
	Password    string  `json:"password" validate:"required,min=5,max=128"`
}

// UpdateProfileRequest changes profile fields. Nil fields are left unchanged.
// A full update (PUT) must carry a username.
type UpdateProfileRequest struct {
	Username    *string `json:"username,omitempty" validate:"omitempty,max=150,username"`
	FullName    *string `json:"full_name,omitempty" validate:"omitempty,max=150"`
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=150"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=60"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url,max=100"`
	Partial     bool    `json:"-"`
}

// ChangePasswordRequest is the input of the password change endpoint
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	Password    string `json:"password" validate:"required,min=5,max=128"`
	Password2   string `json:"password2" validate:"required"`
}

// LoginRequest carries credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
