package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Agora/internal/core/comments"
	"Agora/internal/core/likes"
	"Agora/internal/core/posts"
)

// ageRow moves created_at back by age on the database clock
func ageRow(t *testing.T, db *sql.DB, table string, id int64, age time.Duration) {
	t.Helper()
	_, err := db.Exec(`UPDATE `+table+` SET created_at = NOW() - make_interval(secs => $2) WHERE id = $1`, id, age.Seconds())
	require.NoError(t, err)
}

func TestPostRepo_UpdateRespectsOwnerAndWindow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	window := 5 * time.Minute

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID, "hello")

	post.Text = "edited"
	updated, err := repo.Update(ctx, post, window)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, alice.ID, updated.UserID)

	ageRow(t, db, "posts", post.ID, window-10*time.Second)
	_, err = repo.Update(ctx, post, window)
	assert.NoError(t, err, "inside the window by the database clock")

	ageRow(t, db, "posts", post.ID, window)
	_, err = repo.Update(ctx, post, window)
	assert.ErrorIs(t, err, posts.ErrEditWindowExpired, "the boundary itself is outside the window")

	stolen := *post
	stolen.UserID = bob.ID
	_, err = repo.Update(ctx, &stolen, time.Hour)
	assert.ErrorIs(t, err, posts.ErrPermissionDenied)

	missing := *post
	missing.ID = 9999
	_, err = repo.Update(ctx, &missing, window)
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestPostRepo_UpdateIgnoresStaleCreatedAtOnStruct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "hello")

	// a caller clock far off from the database does not move the boundary
	post.CreatedAt = time.Now().Add(-24 * time.Hour)
	post.Text = "edited"
	_, err := repo.Update(ctx, post, 5*time.Minute)
	require.NoError(t, err)

	post.CreatedAt = time.Now().Add(24 * time.Hour)
	ageRow(t, db, "posts", post.ID, time.Hour)
	_, err = repo.Update(ctx, post, 5*time.Minute)
	assert.ErrorIs(t, err, posts.ErrEditWindowExpired)
}

func TestPostRepo_CreateScheduledIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	jobID := uuid.NewString()

	first, created, err := repo.CreateScheduled(ctx, &posts.Post{UserID: alice.ID, Text: "later", ScheduledJobID: &jobID})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.CreateScheduled(ctx, &posts.Post{UserID: alice.ID, Text: "later", ScheduledJobID: &jobID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM posts WHERE scheduled_job_id = $1`, jobID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestPostRepo_DeleteCascadesAndReturnsMedia(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	likeRepo := NewLikeRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := repo.Create(ctx, &posts.Post{UserID: alice.ID, Text: "p", Media: "uploads/p.png"})
	require.NoError(t, err)
	withMedia, err := commentRepo.Create(ctx, &comments.Comment{UserID: bob.ID, PostID: post.ID, Text: "c1", Media: "uploads/c.png"})
	require.NoError(t, err)
	createTestComment(t, db, bob.ID, post.ID, "c2")

	require.NoError(t, likeRepo.Add(ctx, bob.ID, likes.Post(post.ID)))
	require.NoError(t, likeRepo.Add(ctx, alice.ID, likes.Comment(withMedia.ID)))

	_, err = repo.Delete(ctx, post.ID, bob.ID)
	assert.ErrorIs(t, err, posts.ErrNotFound, "only the owner's delete matches")

	keys, err := repo.Delete(ctx, post.ID, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"uploads/p.png", "uploads/c.png"}, keys)

	for _, table := range []string{"comments", "post_likes", "comment_likes"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}

func TestCommentRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, alice.ID, "p")

	_, err := repo.Create(ctx, &comments.Comment{UserID: alice.ID, PostID: 9999, Text: "x"})
	assert.ErrorIs(t, err, comments.ErrPostNotFound)

	c := createTestComment(t, db, alice.ID, post.ID, "first")
	c.Text = "second"
	updated, err := repo.Update(ctx, c, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Text)
	assert.Equal(t, post.ID, updated.PostID)

	ageRow(t, db, "comments", c.ID, 6*time.Minute)
	_, err = repo.Update(ctx, c, 5*time.Minute)
	assert.ErrorIs(t, err, comments.ErrEditWindowExpired)

	_, err = repo.Delete(ctx, c.ID, alice.ID+1)
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)

	media, err := repo.Delete(ctx, c.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, media)

	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}
