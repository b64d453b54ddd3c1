package posts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"Agora/internal/core/editwindow"
	"Agora/internal/core/media"
	"Agora/internal/core/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockRepository) CreateScheduled(ctx context.Context, post *Post) (*Post, bool, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*Post), args.Bool(1), args.Error(2)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, post *Post, window time.Duration) (*Post, error) {
	args := m.Called(ctx, post, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id, userID int64) ([]string, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) SavePostMedia(ctx context.Context, username string, upload media.Upload) (string, error) {
	args := m.Called(ctx, username, upload)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetByID(ctx context.Context, id int64) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *MockRepository
	media   *MockMediaStore
	users   *MockUserLookup
	service Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:  new(MockRepository),
		media: new(MockMediaStore),
		users: new(MockUserLookup),
	}
	policy := editwindow.New(5 * time.Minute)
	f.service = NewPostService(f.repo, f.users, f.media, policy, nil)
	return f
}

func strPtr(s string) *string { return &s }

func TestCreatePost_TextOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("Create", ctx, &Post{UserID: 1, Text: "hello"}).
		Return(&Post{ID: 10, UserID: 1, Text: "hello", CreatedAt: now}, nil)

	post, err := f.service.CreatePost(ctx, 1, CreatePostRequest{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), post.ID)
	f.media.AssertNotCalled(t, "SavePostMedia", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_WithMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	upload := media.Upload{Filename: "a.png", Data: []byte{1}}

	f.users.On("GetByID", ctx, int64(1)).Return(&users.User{ID: 1, Username: "alice"}, nil)
	f.media.On("SavePostMedia", ctx, "alice", upload).Return("uploads/users/alice/posts/post-x.png", nil)
	f.repo.On("Create", ctx, mock.MatchedBy(func(p *Post) bool {
		return p.Media == "uploads/users/alice/posts/post-x.png"
	})).Return(&Post{ID: 11, UserID: 1, Text: "pic", Media: "uploads/users/alice/posts/post-x.png"}, nil)

	post, err := f.service.CreatePost(ctx, 1, CreatePostRequest{Text: "pic", Media: &upload})
	require.NoError(t, err)
	assert.Equal(t, "uploads/users/alice/posts/post-x.png", post.Media)
}

func TestCreatePost_RepoFailureDeletesMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	upload := media.Upload{Filename: "a.png", Data: []byte{1}}

	f.users.On("GetByID", ctx, int64(1)).Return(&users.User{ID: 1, Username: "alice"}, nil)
	f.media.On("SavePostMedia", ctx, "alice", upload).Return("k", nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db down"))
	f.media.On("Delete", ctx, "k").Return(nil)

	_, err := f.service.CreatePost(ctx, 1, CreatePostRequest{Text: "pic", Media: &upload})
	assert.Error(t, err)
	f.media.AssertExpectations(t)
}

func TestCreatePost_InvalidText(t *testing.T) {
	f := newFixture()

	for _, text := range []string{"", strings.Repeat("x", 145)} {
		_, err := f.service.CreatePost(context.Background(), 1, CreatePostRequest{Text: text})
		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "text", valErr.Field)
	}
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_InvalidMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	upload := media.Upload{Filename: "a.txt", Data: []byte("x")}

	f.users.On("GetByID", ctx, int64(1)).Return(&users.User{ID: 1, Username: "alice"}, nil)
	f.media.On("SavePostMedia", ctx, "alice", upload).Return("", media.ErrUnsupportedFormat)

	_, err := f.service.CreatePost(ctx, 1, CreatePostRequest{Text: "x", Media: &upload})
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "media", valErr.Field)
}

func TestUpdatePost_WithinWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	existing := &Post{ID: 5, UserID: 1, Text: "old", CreatedAt: now.Add(-4*time.Minute - 59*time.Second)}

	f.repo.On("GetByID", ctx, int64(5)).Return(existing, nil)
	f.repo.On("Update", ctx, mock.MatchedBy(func(p *Post) bool { return p.Text == "new" }), 5*time.Minute).
		Return(&Post{ID: 5, UserID: 1, Text: "new", CreatedAt: existing.CreatedAt}, nil)

	post, err := f.service.UpdatePost(ctx, 1, 5, UpdatePostRequest{Text: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", post.Text)
	assert.Equal(t, existing.CreatedAt, post.CreatedAt)
}

func TestUpdatePost_WindowDecidedByRepository(t *testing.T) {
	// created_at far from the local clock must not short-circuit the edit:
	// the repository compares against the database clock that stamped it.
	tests := []struct {
		name      string
		createdAt time.Time
	}{
		{"stamped ahead of local clock", time.Now().Add(time.Hour)},
		{"stamped behind local clock", time.Now().Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			existing := &Post{ID: 5, UserID: 1, Text: "old", CreatedAt: tt.createdAt}
			f.repo.On("GetByID", ctx, int64(5)).Return(existing, nil)
			f.repo.On("Update", ctx, mock.Anything, 5*time.Minute).Return(existing, nil).Once()

			_, err := f.service.UpdatePost(ctx, 1, 5, UpdatePostRequest{Text: strPtr("new"), Partial: true})
			require.NoError(t, err)
			f.repo.AssertExpectations(t)
		})
	}
}

func TestUpdatePost_NotOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	// Ownership is checked before the window, so an old foreign post reports permission denied
	f.repo.On("GetByID", ctx, int64(5)).Return(&Post{ID: 5, UserID: 2, CreatedAt: now.Add(-time.Hour)}, nil)

	_, err := f.service.UpdatePost(ctx, 1, 5, UpdatePostRequest{Text: strPtr("new")})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePost_PutRequiresText(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, int64(5)).Return(&Post{ID: 5, UserID: 1, CreatedAt: now}, nil)

	_, err := f.service.UpdatePost(ctx, 1, 5, UpdatePostRequest{})
	assert.True(t, IsValidationError(err))
}

func TestUpdatePost_ReplacesMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	upload := media.Upload{Filename: "b.png", Data: []byte{2}}
	existing := &Post{ID: 5, UserID: 1, Text: "t", Media: "old-key", CreatedAt: now.Add(-time.Minute)}

	f.repo.On("GetByID", ctx, int64(5)).Return(existing, nil)
	f.users.On("GetByID", ctx, int64(1)).Return(&users.User{ID: 1, Username: "alice"}, nil)
	f.media.On("SavePostMedia", ctx, "alice", upload).Return("new-key", nil)
	f.repo.On("Update", ctx, mock.MatchedBy(func(p *Post) bool { return p.Media == "new-key" && p.Text == "t" }), mock.Anything).
		Return(&Post{ID: 5, UserID: 1, Text: "t", Media: "new-key"}, nil)
	f.media.On("Delete", ctx, "old-key").Return(nil)

	post, err := f.service.UpdatePost(ctx, 1, 5, UpdatePostRequest{Media: &upload, Partial: true})
	require.NoError(t, err)
	assert.Equal(t, "new-key", post.Media)
	f.media.AssertExpectations(t)
}

func TestUpdatePost_ExpiredWindowRejectedByRepository(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, int64(5)).Return(&Post{ID: 5, UserID: 1, CreatedAt: now.Add(-time.Minute)}, nil)
	f.repo.On("Update", ctx, mock.Anything, mock.Anything).Return(nil, ErrEditWindowExpired)

	_, err := f.service.UpdatePost(ctx, 1, 5, UpdatePostRequest{Text: strPtr("x")})
	assert.ErrorIs(t, err, ErrEditWindowExpired)
}

func TestUpdatePost_ExpiredWindowDiscardsNewMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	upload := media.Upload{Filename: "b.png", Data: []byte{2}}
	f.repo.On("GetByID", ctx, int64(5)).Return(&Post{ID: 5, UserID: 1, Media: "old-key", CreatedAt: now}, nil)
	f.users.On("GetByID", ctx, int64(1)).Return(&users.User{ID: 1, Username: "alice"}, nil)
	f.media.On("SavePostMedia", ctx, "alice", upload).Return("new-key", nil)
	f.repo.On("Update", ctx, mock.Anything, mock.Anything).Return(nil, ErrEditWindowExpired)
	f.media.On("Delete", ctx, "new-key").Return(nil)

	_, err := f.service.UpdatePost(ctx, 1, 5, UpdatePostRequest{Media: &upload, Partial: true})
	assert.ErrorIs(t, err, ErrEditWindowExpired)
	f.media.AssertExpectations(t)
	f.media.AssertNotCalled(t, "Delete", ctx, "old-key")
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, int64(5)).Return(&Post{ID: 5, UserID: 1, CreatedAt: now.Add(-time.Hour)}, nil)
	f.repo.On("Delete", ctx, int64(5), int64(1)).Return([]string{"post-key", "", "comment-key"}, nil)
	f.media.On("Delete", ctx, "post-key").Return(nil)
	f.media.On("Delete", ctx, "comment-key").Return(nil)

	require.NoError(t, f.service.DeletePost(ctx, 1, 5))
	f.media.AssertExpectations(t)
}

func TestDeletePost_NotOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("GetByID", ctx, int64(5)).Return(&Post{ID: 5, UserID: 2}, nil)

	assert.ErrorIs(t, f.service.DeletePost(ctx, 1, 5), ErrPermissionDenied)
	f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPost_NotFound(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(404)).Return(nil, ErrNotFound)

	_, err := f.service.GetPost(context.Background(), 404)
	assert.True(t, IsNotFound(err))
}
