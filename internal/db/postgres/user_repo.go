package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Agora/internal/core/users"
)

const userColumns = `id, email, username, full_name, date_of_birth, bio, location,
	website, profile_picture, password_hash, is_staff, created_at`

const summaryColumns = `u.id, u.username, u.full_name, u.profile_picture,
	(SELECT COUNT(*) FROM subscriptions s WHERE s.target_id = u.id) AS subscribers_count`

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	user := &users.User{}
	var dob sql.NullTime
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.FullName, &dob, &user.Bio,
		&user.Location, &user.Website, &user.ProfilePicture, &user.PasswordHash,
		&user.IsStaff, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		d := dob.Time
		user.DateOfBirth = &d
	}
	return user, nil
}

// mapUserConflict turns unique violations into the matching domain error
func mapUserConflict(err error) error {
	switch {
	case constraintViolation(err, uniqueViolation, "users_email_key"):
		return users.ErrEmailTaken
	case constraintViolation(err, uniqueViolation, "users_username_key"):
		return users.ErrUsernameTaken
	default:
		return nil
	}
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (email, username, full_name, date_of_birth, password_hash, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Email, user.Username, user.FullName, user.DateOfBirth, user.PasswordHash, user.IsStaff))
	if err != nil {
		if conflict := mapUserConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID retrieves a user by ID
func (r *postgresUserRepo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by normalized email
func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// UpdateProfile writes the editable profile fields
func (r *postgresUserRepo) UpdateProfile(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		UPDATE users
		SET username = $2, full_name = $3, date_of_birth = $4, bio = $5, location = $6, website = $7
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.FullName, user.DateOfBirth, user.Bio, user.Location, user.Website))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		if conflict := mapUserConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// UpdatePassword replaces the password hash
func (r *postgresUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// UpdateProfilePicture swaps the picture key and returns the previous one
func (r *postgresUserRepo) UpdateProfilePicture(ctx context.Context, id int64, key string) (string, error) {
	var previous string
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT profile_picture FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
		if errors.Is(err, sql.ErrNoRows) {
			return users.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET profile_picture = $2 WHERE id = $1`, id, key); err != nil {
			return fmt.Errorf("failed to update profile picture: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}

// listFilterClause matches user against username or full name and location separately
const listFilterClause = `
	($1 = '' OR u.username ILIKE $2 OR u.full_name ILIKE $2)
	AND ($3 = '' OR u.location ILIKE $4)`

func listFilterArgs(filter users.ListFilter) []any {
	return []any{filter.User, likePattern(filter.User), filter.Location, likePattern(filter.Location)}
}

// Count returns how many users match filter
func (r *postgresUserRepo) Count(ctx context.Context, filter users.ListFilter) (int, error) {
	query := `SELECT COUNT(*) FROM users u WHERE ` + listFilterClause

	var count int
	if err := r.db.QueryRowContext(ctx, query, listFilterArgs(filter)...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// List returns one page of users matching filter, oldest account first
func (r *postgresUserRepo) List(ctx context.Context, filter users.ListFilter, limit, offset int) ([]*users.UserSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM users u WHERE ` + listFilterClause + `
		ORDER BY u.id
		LIMIT $5 OFFSET $6`

	args := append(listFilterArgs(filter), limit, offset)
	return r.querySummaries(ctx, query, args...)
}

// ListSubscribers returns users subscribed to id
func (r *postgresUserRepo) ListSubscribers(ctx context.Context, id int64) ([]*users.UserSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM subscriptions sub
		JOIN users u ON u.id = sub.subscriber_id
		WHERE sub.target_id = $1
		ORDER BY u.id`
	return r.querySummaries(ctx, query, id)
}

// ListSubscribedTo returns users id is subscribed to
func (r *postgresUserRepo) ListSubscribedTo(ctx context.Context, id int64) ([]*users.UserSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM subscriptions sub
		JOIN users u ON u.id = sub.target_id
		WHERE sub.subscriber_id = $1
		ORDER BY u.id`
	return r.querySummaries(ctx, query, id)
}

func (r *postgresUserRepo) querySummaries(ctx context.Context, query string, args ...any) ([]*users.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*users.UserSummary
	for rows.Next() {
		s := &users.UserSummary{}
		if err := rows.Scan(&s.ID, &s.Username, &s.FullName, &s.ProfilePicture, &s.SubscribersCount); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}
