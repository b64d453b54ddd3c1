package comments

import (
	"context"
	"errors"
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

func (m *MockRepository) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	args := m.Called(ctx, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, comment *Comment, window time.Duration) (*Comment, error) {
	args := m.Called(ctx, comment, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id, userID int64) (string, error) {
	args := m.Called(ctx, id, userID)
	return args.String(0), args.Error(1)
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

func newService() (*MockRepository, *MockMediaStore, *MockUserLookup, Service) {
	repo := new(MockRepository)
	mediaStore := new(MockMediaStore)
	lookup := new(MockUserLookup)
	policy := editwindow.New(5 * time.Minute)
	return repo, mediaStore, lookup, NewCommentService(repo, lookup, mediaStore, policy, nil)
}

func strPtr(s string) *string { return &s }

func TestCreateComment(t *testing.T) {
	repo, _, _, svc := newService()
	ctx := context.Background()

	repo.On("Create", ctx, &Comment{UserID: 1, PostID: 9, Text: "nice"}).
		Return(&Comment{ID: 3, UserID: 1, PostID: 9, Text: "nice", CreatedAt: now}, nil)

	c, err := svc.CreateComment(ctx, 1, 9, CreateCommentRequest{Text: "nice"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), c.PostID)
	assert.Equal(t, int64(1), c.UserID)
}

func TestCreateComment_PostMissing(t *testing.T) {
	repo, mediaStore, lookup, svc := newService()
	ctx := context.Background()
	upload := media.Upload{Filename: "a.png", Data: []byte{1}}

	lookup.On("GetByID", ctx, int64(1)).Return(&users.User{ID: 1, Username: "bob"}, nil)
	mediaStore.On("SavePostMedia", ctx, "bob", upload).Return("k", nil)
	repo.On("Create", ctx, mock.Anything).Return(nil, ErrPostNotFound)
	mediaStore.On("Delete", ctx, "k").Return(nil)

	_, err := svc.CreateComment(ctx, 1, 404, CreateCommentRequest{Text: "hi", Media: &upload})
	assert.True(t, IsNotFound(err))
	mediaStore.AssertExpectations(t)
}

func TestCreateComment_BlankText(t *testing.T) {
	repo, _, _, svc := newService()
	_, err := svc.CreateComment(context.Background(), 1, 9, CreateCommentRequest{Text: "  "})
	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()

	t.Run("owner within window", func(t *testing.T) {
		repo, _, _, svc := newService()
		existing := &Comment{ID: 3, UserID: 1, PostID: 9, Text: "a", CreatedAt: now.Add(-time.Minute)}
		repo.On("GetByID", ctx, int64(3)).Return(existing, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(c *Comment) bool {
			return c.Text == "b" && c.PostID == 9 && c.UserID == 1
		}), 5*time.Minute).Return(&Comment{ID: 3, UserID: 1, PostID: 9, Text: "b"}, nil)

		c, err := svc.UpdateComment(ctx, 1, 3, UpdateCommentRequest{Text: strPtr("b")})
		require.NoError(t, err)
		assert.Equal(t, "b", c.Text)
	})

	t.Run("expired", func(t *testing.T) {
		repo, _, _, svc := newService()
		repo.On("GetByID", ctx, int64(3)).Return(&Comment{ID: 3, UserID: 1, CreatedAt: now.Add(-5 * time.Minute)}, nil)
		repo.On("Update", ctx, mock.Anything, 5*time.Minute).Return(nil, ErrEditWindowExpired)

		_, err := svc.UpdateComment(ctx, 1, 3, UpdateCommentRequest{Text: strPtr("b")})
		assert.True(t, errors.Is(err, ErrEditWindowExpired))
	})

	t.Run("created_at ahead of local clock", func(t *testing.T) {
		// the database clock stamped created_at; the local clock does not gate the edit
		repo, _, _, svc := newService()
		existing := &Comment{ID: 3, UserID: 1, PostID: 9, Text: "a", CreatedAt: time.Now().Add(time.Hour)}
		repo.On("GetByID", ctx, int64(3)).Return(existing, nil)
		repo.On("Update", ctx, mock.Anything, 5*time.Minute).Return(existing, nil).Once()

		_, err := svc.UpdateComment(ctx, 1, 3, UpdateCommentRequest{Text: strPtr("b")})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("not owner", func(t *testing.T) {
		repo, _, _, svc := newService()
		repo.On("GetByID", ctx, int64(3)).Return(&Comment{ID: 3, UserID: 2, CreatedAt: now}, nil)

		_, err := svc.UpdateComment(ctx, 1, 3, UpdateCommentRequest{Text: strPtr("b")})
		assert.ErrorIs(t, err, ErrPermissionDenied)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo, _, _, svc := newService()
		repo.On("GetByID", ctx, int64(3)).Return(nil, ErrCommentNotFound)

		_, err := svc.UpdateComment(ctx, 1, 3, UpdateCommentRequest{Text: strPtr("b")})
		assert.True(t, IsNotFound(err))
	})
}

func TestDeleteComment(t *testing.T) {
	repo, mediaStore, _, svc := newService()
	ctx := context.Background()
	repo.On("GetByID", ctx, int64(3)).Return(&Comment{ID: 3, UserID: 1, Media: "m"}, nil)
	repo.On("Delete", ctx, int64(3), int64(1)).Return("m", nil)
	mediaStore.On("Delete", ctx, "m").Return(nil)

	require.NoError(t, svc.DeleteComment(ctx, 1, 3))
	mediaStore.AssertExpectations(t)
}

func TestDeleteComment_NotOwner(t *testing.T) {
	repo, _, _, svc := newService()
	ctx := context.Background()
	repo.On("GetByID", ctx, int64(3)).Return(&Comment{ID: 3, UserID: 2}, nil)

	assert.ErrorIs(t, svc.DeleteComment(ctx, 1, 3), ErrPermissionDenied)
}
