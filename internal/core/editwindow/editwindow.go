// Package editwindow holds the rule that gates edits of posts and comments.
package editwindow

import (
	"errors"
	"time"
)

// DefaultWindow is how long a post or comment stays editable after creation
const DefaultWindow = 5 * time.Minute

// ErrExpired is returned when an edit arrives after the window closed
var ErrExpired = errors.New("cannot edit after the edit window has closed")

// Policy carries the edit window. Content is editable while
// now - created_at < window; the boundary itself is not editable.
//
// The comparison runs in the database UPDATE predicate against NOW(), the
// clock that stamped created_at, so application clock skew cannot move the
// boundary.
type Policy struct {
	window time.Duration
}

// New creates a policy. A non-positive window falls back to DefaultWindow.
func New(window time.Duration) *Policy {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Policy{window: window}
}

// Window returns the configured window length
func (p *Policy) Window() time.Duration {
	return p.window
}
