package postgres

import (
	"fmt"

	"Agora/internal/core/feeds"
)

// Shared SQL fragments of the feed queries.
//
// DATABASE INDEXES REQUIRED (002_create_posts_comments.sql, 003_create_likes.sql):
//   - idx_posts_created ON posts(created_at DESC, id DESC): every post feed
//   - idx_subscriptions_target / subscriptions PK: subscriptions feed
//   - post_likes and comment_likes PKs lead with user_id: liked feed
//   - idx_comments_post_created ON comments(post_id, created_at DESC, id DESC): comment pages
//
// Counts come from correlated COUNT(*) sub-selects; nothing is denormalized.
const (
	postRowColumns = `
		p.id, p.text, p.media, p.created_at,
		u.id, u.username, u.full_name, u.profile_picture,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count,
		(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count`

	commentRowColumns = `
		c.id, c.post_id, c.text, c.media, c.created_at,
		u.id, u.username, u.full_name, u.profile_picture,
		(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS likes_count`

	newestFirst        = `ORDER BY p.created_at DESC, p.id DESC`
	newestCommentFirst = `ORDER BY c.created_at DESC, c.id DESC`
)

// viewFilter returns the WHERE predicate of view and its arguments.
// The liked view is a set membership test over the union of directly liked
// posts and posts of liked comments, so a post qualifying both ways appears once.
func viewFilter(view feeds.PostView) (string, []any, error) {
	if err := view.Validate(); err != nil {
		return "", nil, err
	}

	switch view.Kind {
	case feeds.ViewSubscriptions:
		return `p.user_id IN (SELECT target_id FROM subscriptions WHERE subscriber_id = $1)`,
			[]any{view.ActorID}, nil
	case feeds.ViewLiked:
		return `p.id IN (
				SELECT post_id FROM post_likes WHERE user_id = $1
				UNION
				SELECT c.post_id FROM comment_likes cl
				JOIN comments c ON c.id = cl.comment_id
				WHERE cl.user_id = $1
			)`, []any{view.ActorID}, nil
	case feeds.ViewAll:
		return `TRUE`, nil, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", feeds.ErrInvalidView, view.Kind)
	}
}

func scanPostRow(row rowScanner) (*feeds.PostRow, error) {
	p := &feeds.PostRow{}
	err := row.Scan(&p.ID, &p.Text, &p.Media, &p.CreatedAt,
		&p.Author.ID, &p.Author.Username, &p.Author.FullName, &p.Author.ProfilePicture,
		&p.CommentsCount, &p.LikesCount)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanCommentRow(row rowScanner) (*feeds.CommentRow, error) {
	c := &feeds.CommentRow{}
	err := row.Scan(&c.ID, &c.PostID, &c.Text, &c.Media, &c.CreatedAt,
		&c.Author.ID, &c.Author.Username, &c.Author.FullName, &c.Author.ProfilePicture,
		&c.LikesCount)
	if err != nil {
		return nil, err
	}
	return c, nil
}
