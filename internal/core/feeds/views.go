package feeds

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"Agora/internal/core/comments"
	"Agora/internal/core/pagination"
	"Agora/internal/core/posts"
	"Agora/internal/core/users"
)

// UserRef is the author block of posts and comments
type UserRef struct {
	ProfilePicture *string `json:"profile_picture"`
	FullName       *string `json:"full_name"`
	Username       string  `json:"username"`
	ID             int64   `json:"id"`
}

// PostListItem is a post as shown in feeds
type PostListItem struct {
	CreatedAt     time.Time `json:"created_at"`
	Media         *string   `json:"media"`
	User          UserRef   `json:"user"`
	Text          string    `json:"text"`
	URL           string    `json:"url"`
	ID            int64     `json:"id"`
	CommentsCount int       `json:"comments_count"`
	LikesCount    int       `json:"likes_count"`
}

// PostDetailView is a post with a page of its comments
type PostDetailView struct {
	CreatedAt  time.Time                        `json:"created_at"`
	Media      *string                          `json:"media"`
	User       UserRef                          `json:"user"`
	Text       string                           `json:"text"`
	Comments   pagination.Page[CommentListItem] `json:"comments"`
	ID         int64                            `json:"id"`
	LikesCount int                              `json:"likes_count"`
}

// CommentListItem is a comment as shown under a post
type CommentListItem struct {
	CreatedAt  time.Time `json:"created_at"`
	Media      *string   `json:"media"`
	User       UserRef   `json:"user"`
	Text       string    `json:"text"`
	URL        string    `json:"url"`
	ID         int64     `json:"id"`
	LikesCount int       `json:"likes_count"`
}

// CommentDetailView is a comment with the post it belongs to
type CommentDetailView struct {
	CreatedAt time.Time    `json:"created_at"`
	Media     *string      `json:"media"`
	User      UserRef      `json:"user"`
	Text      string       `json:"text"`
	Post      PostListItem `json:"post"`
	ID        int64        `json:"id"`
}

// PostWriteView is returned by post create and update
type PostWriteView struct {
	CreatedAt time.Time `json:"created_at"`
	Media     *string   `json:"media"`
	Text      string    `json:"text"`
	ID        int64     `json:"id"`
	User      int64     `json:"user"`
}

// CommentWriteView is returned by comment create and update
type CommentWriteView struct {
	CreatedAt time.Time `json:"created_at"`
	Media     *string   `json:"media"`
	Text      string    `json:"text"`
	ID        int64     `json:"id"`
	User      int64     `json:"user"`
	Post      int64     `json:"post"`
}

// UserListItem is a row of the user list and of subscriber lists
type UserListItem struct {
	FullName         *string `json:"full_name"`
	ProfilePicture   *string `json:"profile_picture"`
	Username         string  `json:"username"`
	ID               int64   `json:"id"`
	SubscribersCount int     `json:"subscribers_count"`
}

// UserDetailView is a public profile
type UserDetailView struct {
	ProfilePicture   *string        `json:"profile_picture"`
	FullName         *string        `json:"full_name"`
	Username         string         `json:"username"`
	Bio              string         `json:"bio"`
	Location         string         `json:"location"`
	Website          string         `json:"website"`
	Subscribers      []UserListItem `json:"subscribers"`
	SubscribedTo     []UserListItem `json:"subscribed_to"`
	ID               int64          `json:"id"`
	SubscribersCount int            `json:"subscribers_count"`
}

// AccountView is the caller's own account
type AccountView struct {
	DateOfBirth    *string `json:"date_of_birth"`
	FullName       *string `json:"full_name"`
	ProfilePicture *string `json:"profile_picture"`
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	Bio            string  `json:"bio"`
	Location       string  `json:"location"`
	Website        string  `json:"website"`
	ID             int64   `json:"id"`
	IsStaff        bool    `json:"is_staff"`
}

// Presenter turns domain rows into response shapes.
// apiBase is the absolute URL of the API root, e.g. "https://host/api/".
type Presenter struct {
	mediaURL func(key string) string
	apiBase  string
}

// NewPresenter creates a presenter. mediaURL maps a media key to its public URL.
func NewPresenter(apiBase string, mediaURL func(key string) string) *Presenter {
	if !strings.HasSuffix(apiBase, "/") {
		apiBase += "/"
	}
	return &Presenter{apiBase: apiBase, mediaURL: mediaURL}
}

// PostURL is the absolute URL of a post detail
func (p *Presenter) PostURL(id int64) string {
	return p.apiBase + "posts/" + strconv.FormatInt(id, 10) + "/"
}

// CommentURL is the absolute URL of a comment detail
func (p *Presenter) CommentURL(id int64) string {
	return p.apiBase + "comments/" + strconv.FormatInt(id, 10) + "/"
}

func (p *Presenter) media(key string) *string {
	if key == "" {
		return nil
	}
	u := p.mediaURL(key)
	return &u
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (p *Presenter) userRef(a users.Author) UserRef {
	return UserRef{
		ID:             a.ID,
		Username:       a.Username,
		FullName:       optional(a.FullName),
		ProfilePicture: p.media(a.ProfilePicture),
	}
}

// PostListItem renders a feed row
func (p *Presenter) PostListItem(row *PostRow) PostListItem {
	return PostListItem{
		ID:            row.ID,
		CreatedAt:     row.CreatedAt,
		User:          p.userRef(row.Author),
		Text:          row.Text,
		Media:         p.media(row.Media),
		CommentsCount: row.CommentsCount,
		LikesCount:    row.LikesCount,
		URL:           p.PostURL(row.ID),
	}
}

// PostListItems renders a page of feed rows
func (p *Presenter) PostListItems(rows []*PostRow) []PostListItem {
	out := make([]PostListItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, p.PostListItem(row))
	}
	return out
}

// CommentListItem renders a comment row
func (p *Presenter) CommentListItem(row *CommentRow) CommentListItem {
	return CommentListItem{
		ID:         row.ID,
		CreatedAt:  row.CreatedAt,
		Text:       row.Text,
		Media:      p.media(row.Media),
		User:       p.userRef(row.Author),
		LikesCount: row.LikesCount,
		URL:        p.CommentURL(row.ID),
	}
}

// CommentListItems renders a page of comment rows
func (p *Presenter) CommentListItems(rows []*CommentRow) []CommentListItem {
	out := make([]CommentListItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, p.CommentListItem(row))
	}
	return out
}

// PostDetail renders a post with its comments page. base is the request URL
// and param the page parameter of the embedded comments.
func (p *Presenter) PostDetail(d *PostDetail, base *url.URL, param string, page pagination.Request) PostDetailView {
	return PostDetailView{
		ID:         d.Post.ID,
		User:       p.userRef(d.Post.Author),
		CreatedAt:  d.Post.CreatedAt,
		Text:       d.Post.Text,
		Media:      p.media(d.Post.Media),
		LikesCount: d.Post.LikesCount,
		Comments:   pagination.Build(base, param, page, d.CommentsCount, p.CommentListItems(d.Comments)),
	}
}

// CommentDetail renders a comment with its post
func (p *Presenter) CommentDetail(d *CommentDetail) CommentDetailView {
	return CommentDetailView{
		ID:        d.Comment.ID,
		CreatedAt: d.Comment.CreatedAt,
		Text:      d.Comment.Text,
		Media:     p.media(d.Comment.Media),
		User:      p.userRef(d.Comment.Author),
		Post:      p.PostListItem(d.Post),
	}
}

// PostWrite renders the result of a post create or update
func (p *Presenter) PostWrite(post *posts.Post) PostWriteView {
	return PostWriteView{
		ID:        post.ID,
		CreatedAt: post.CreatedAt,
		Text:      post.Text,
		Media:     p.media(post.Media),
		User:      post.UserID,
	}
}

// CommentWrite renders the result of a comment create or update
func (p *Presenter) CommentWrite(c *comments.Comment) CommentWriteView {
	return CommentWriteView{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Text:      c.Text,
		Media:     p.media(c.Media),
		User:      c.UserID,
		Post:      c.PostID,
	}
}

// UserListItem renders a user summary
func (p *Presenter) UserListItem(u *users.UserSummary) UserListItem {
	return UserListItem{
		ID:               u.ID,
		Username:         u.Username,
		FullName:         optional(u.FullName),
		ProfilePicture:   p.media(u.ProfilePicture),
		SubscribersCount: u.SubscribersCount,
	}
}

// UserListItems renders user summaries
func (p *Presenter) UserListItems(list []*users.UserSummary) []UserListItem {
	out := make([]UserListItem, 0, len(list))
	for _, u := range list {
		out = append(out, p.UserListItem(u))
	}
	return out
}

// UserDetail renders a public profile
func (p *Presenter) UserDetail(d *users.UserDetail) UserDetailView {
	return UserDetailView{
		ID:               d.User.ID,
		ProfilePicture:   p.media(d.User.ProfilePicture),
		Username:         d.User.Username,
		FullName:         optional(d.User.FullName),
		Bio:              d.User.Bio,
		Location:         d.User.Location,
		Website:          d.User.Website,
		SubscribersCount: d.SubscribersCount,
		Subscribers:      p.UserListItems(d.Subscribers),
		SubscribedTo:     p.UserListItems(d.SubscribedTo),
	}
}

// Account renders the caller's own account
func (p *Presenter) Account(u *users.User) AccountView {
	var dob *string
	if u.DateOfBirth != nil {
		s := u.DateOfBirth.Format(users.DateLayout)
		dob = &s
	}
	return AccountView{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		FullName:       optional(u.FullName),
		DateOfBirth:    dob,
		Bio:            u.Bio,
		Location:       u.Location,
		Website:        u.Website,
		ProfilePicture: p.media(u.ProfilePicture),
		IsStaff:        u.IsStaff,
	}
}
