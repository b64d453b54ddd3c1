package scheduling

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"Agora/internal/core/media"
	"Agora/internal/core/posts"
	"Agora/internal/core/users"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// memQueue implements Queue and JobStore with the same claim rules as the SQL store
type memQueue struct {
	mu        sync.Mutex
	clock     *clock
	jobs      map[string]*Job
	submitErr error
	claimed   []string
}

func newMemQueue(c *clock) *memQueue {
	return &memQueue{clock: c, jobs: make(map[string]*Job)}
}

func (q *memQueue) Submit(ctx context.Context, sub Submission) (*Job, error) {
	if q.submitErr != nil {
		return nil, q.submitErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.clock.Now()
	job := &Job{
		ID:        uuid.NewString(),
		ActorID:   sub.ActorID,
		Text:      sub.Text,
		TempMedia: sub.TempMediaPath,
		RunAt:     now.Add(time.Duration(sub.DelaySeconds) * time.Second),
		Status:    StatusPending,
		CreatedAt: now,
	}
	q.jobs[job.ID] = job
	cp := *job
	return &cp, nil
}

func (q *memQueue) ListPending(ctx context.Context, actorID int64) ([]*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*Job
	for _, j := range q.jobs {
		if j.ActorID == actorID && j.Status == StatusPending {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].RunAt.Before(out[b].RunAt) })
	return out, nil
}

func (q *memQueue) Cancel(ctx context.Context, actorID int64, jobID string) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	j, ok := q.jobs[jobID]
	if !ok || j.ActorID != actorID {
		return nil, ErrJobNotFound
	}
	if j.Status != StatusPending {
		return nil, ErrNotPending
	}
	j.Status = StatusCancelled
	cp := *j
	return &cp, nil
}

func (q *memQueue) Claim(ctx context.Context, limit int, lease time.Duration) ([]*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := q.clock.Now()
	var due []*Job
	for _, j := range q.jobs {
		pendingDue := j.Status == StatusPending && !j.RunAt.After(now)
		leaseExpired := j.Status == StatusRunning && j.LockedUntil != nil && j.LockedUntil.Before(now)
		if pendingDue || leaseExpired {
			due = append(due, j)
		}
	}
	sort.Slice(due, func(a, b int) bool { return due[a].RunAt.Before(due[b].RunAt) })
	if len(due) > limit {
		due = due[:limit]
	}
	out := make([]*Job, 0, len(due))
	for _, j := range due {
		until := now.Add(lease)
		j.Status = StatusRunning
		j.Attempts++
		j.LockedUntil = &until
		q.claimed = append(q.claimed, j.ID)
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (q *memQueue) Complete(ctx context.Context, jobID string, postID int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := q.jobs[jobID]
	j.Status = StatusDone
	j.PostID = &postID
	j.LockedUntil = nil
	return nil
}

func (q *memQueue) Fail(ctx context.Context, jobID, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	j := q.jobs[jobID]
	j.Status = StatusFailed
	j.LastError = reason
	j.LockedUntil = nil
	return nil
}

func (q *memQueue) RecordError(ctx context.Context, jobID, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs[jobID].LastError = reason
	return nil
}

func (q *memQueue) get(id string) Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return *q.jobs[id]
}

// memMedia keeps blobs in a map
type memMedia struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	promoteErr error
}

func newMemMedia() *memMedia {
	return &memMedia{blobs: make(map[string][]byte)}
}

func (m *memMedia) Validate(upload media.Upload) error {
	if len(upload.Data) == 0 {
		return media.ErrEmptyUpload
	}
	if !strings.HasPrefix(string(upload.Data), "IMG") {
		return media.ErrUnsupportedFormat
	}
	return nil
}

func (m *memMedia) SaveTemp(ctx context.Context, upload media.Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "temp/" + uuid.NewString() + "-" + upload.Filename
	m.blobs[key] = upload.Data
	return key, nil
}

func (m *memMedia) Promote(ctx context.Context, tempKey, destKey string) error {
	if m.promoteErr != nil {
		return m.promoteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[tempKey]
	if !ok {
		return media.ErrNotFound
	}
	m.blobs[destKey] = data
	return nil
}

func (m *memMedia) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *memMedia) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok
}

func (m *memMedia) tempCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.blobs {
		if strings.HasPrefix(k, "temp/") {
			n++
		}
	}
	return n
}

// memPosts enforces the scheduled_job_id uniqueness of the posts table
type memPosts struct {
	mu     sync.Mutex
	posts  []*posts.Post
	byJob  map[string]*posts.Post
	nextID int64
	err    error
}

func newMemPosts() *memPosts {
	return &memPosts{byJob: make(map[string]*posts.Post)}
}

func (p *memPosts) CreateScheduled(ctx context.Context, post *posts.Post) (*posts.Post, bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.byJob[*post.ScheduledJobID]; ok {
		return existing, false, nil
	}
	p.nextID++
	created := *post
	created.ID = p.nextID
	p.posts = append(p.posts, &created)
	p.byJob[*post.ScheduledJobID] = &created
	return &created, true, nil
}

type memUsers map[int64]*users.User

func (m memUsers) GetByID(ctx context.Context, id int64) (*users.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

var errBoom = errors.New("boom")

type fixture struct {
	clock   *clock
	queue   *memQueue
	media   *memMedia
	posts   *memPosts
	service Service
	worker  *Worker
}

func newFixture() *fixture {
	c := newClock()
	q := newMemQueue(c)
	m := newMemMedia()
	p := newMemPosts()
	u := memUsers{1: {ID: 1, Username: "alice"}, 2: {ID: 2, Username: "bob"}}

	exec := NewExecutor(p, u, m, nil)
	return &fixture{
		clock:   c,
		queue:   q,
		media:   m,
		posts:   p,
		service: NewSchedulingService(q, m, nil, c.Now),
		worker: NewWorker(q, exec, m, WorkerConfig{
			PollInterval: 10 * time.Millisecond,
			Lease:        time.Minute,
			BatchSize:    2,
			MaxAttempts:  3,
		}, nil, c.Now),
	}
}

func (f *fixture) at(d time.Duration) *time.Time {
	t := f.clock.Now().Add(d)
	return &t
}
