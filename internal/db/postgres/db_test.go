package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"Agora/internal/core/comments"
	"Agora/internal/core/posts"
	"Agora/internal/core/users"
	"Agora/internal/db/migrations"
)

// setupTestDB connects to TEST_DATABASE_URL, applies migrations and empties every table.
// Tests are skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping repository tests")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(db), "Failed to run migrations")

	_, err = db.Exec(`TRUNCATE users, subscriptions, posts, comments, post_likes, comment_likes,
		scheduled_posts, revoked_tokens RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string) *users.User {
	t.Helper()
	user, err := NewUserRepository(db).Create(context.Background(), &users.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func createTestPost(t *testing.T, db *sql.DB, userID int64, text string) *posts.Post {
	t.Helper()
	post, err := NewPostRepository(db).Create(context.Background(), &posts.Post{UserID: userID, Text: text})
	require.NoError(t, err)
	return post
}

func createTestComment(t *testing.T, db *sql.DB, userID, postID int64, text string) *comments.Comment {
	t.Helper()
	c, err := NewCommentRepository(db).Create(context.Background(), &comments.Comment{
		UserID: userID, PostID: postID, Text: text,
	})
	require.NoError(t, err)
	return c
}
