package scheduling

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Agora/internal/core/media"
)

func TestExecute_TwiceYieldsOnePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.service.SchedulePost(ctx, 1, ScheduleRequest{Text: "once", PublishAt: f.at(time.Second)})
	require.NoError(t, err)

	first, err := f.worker.executor.Execute(ctx, job)
	require.NoError(t, err)
	second, err := f.worker.executor.Execute(ctx, job)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.posts.posts, 1)
}

func TestWorker_RedeliveryAfterLostCompletion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.service.SchedulePost(ctx, 1, ScheduleRequest{Text: "once", PublishAt: f.at(time.Second)})
	require.NoError(t, err)

	// A worker crashed after inserting the post but before marking the job done
	f.clock.Advance(time.Second)
	claimed, err := f.queue.Claim(ctx, 1, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	_, err = f.worker.executor.Execute(ctx, claimed[0])
	require.NoError(t, err)

	f.clock.Advance(2 * time.Minute)
	n, err := f.worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Len(t, f.posts.posts, 1)
	stored := f.queue.get(job.ID)
	assert.Equal(t, StatusDone, stored.Status)
	assert.Equal(t, 2, stored.Attempts)
}

func TestWorker_PermanentFailureCleansUp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Owner 3 does not exist when the job runs
	job, err := f.service.SchedulePost(ctx, 3, ScheduleRequest{
		Text:      "orphan",
		PublishAt: f.at(time.Second),
		Media:     &media.Upload{Filename: "a.png", Data: []byte("IMG")},
	})
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	_, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)

	stored := f.queue.get(job.ID)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Contains(t, stored.LastError, "no longer exists")
	assert.Zero(t, f.media.tempCount())
	assert.Empty(t, f.posts.posts)
}

func TestWorker_InvalidPayloadFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.queue.Submit(ctx, Submission{ActorID: 1, Text: "   "})
	require.NoError(t, err)

	_, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, f.queue.get(job.ID).Status)
}

func TestWorker_MissingTempMediaFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	job, err := f.queue.Submit(ctx, Submission{ActorID: 1, Text: "x", TempMediaPath: "temp/gone.png"})
	require.NoError(t, err)

	_, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, f.queue.get(job.ID).Status)
}

func TestWorker_TransientFailureRetriesThenGivesUp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.posts.err = fmt.Errorf("connection reset: %w", errBoom)

	job, err := f.service.SchedulePost(ctx, 1, ScheduleRequest{
		Text:      "x",
		PublishAt: f.at(time.Second),
		Media:     &media.Upload{Filename: "a.png", Data: []byte("IMG")},
	})
	require.NoError(t, err)
	f.clock.Advance(time.Second)

	// Attempts 1 and 2 keep the job and its temp media for lease expiry
	for attempt := 1; attempt <= 2; attempt++ {
		_, err = f.worker.RunOnce(ctx)
		require.NoError(t, err)

		stored := f.queue.get(job.ID)
		assert.Equal(t, StatusRunning, stored.Status)
		assert.Equal(t, attempt, stored.Attempts)
		assert.Contains(t, stored.LastError, "boom")
		assert.Equal(t, 1, f.media.tempCount())

		n, err := f.worker.RunOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "leased job is not reclaimed before expiry")

		f.clock.Advance(2 * time.Minute)
	}

	// Attempt 3 is the last one allowed
	_, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)
	stored := f.queue.get(job.ID)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Zero(t, f.media.tempCount())
}

func TestWorker_TransientFailureRecovers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.posts.err = errBoom

	job, err := f.service.SchedulePost(ctx, 1, ScheduleRequest{Text: "x", PublishAt: f.at(time.Second)})
	require.NoError(t, err)
	f.clock.Advance(time.Second)

	_, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)

	f.posts.err = nil
	f.clock.Advance(2 * time.Minute)
	_, err = f.worker.RunOnce(ctx)
	require.NoError(t, err)

	assert.Equal(t, StatusDone, f.queue.get(job.ID).Status)
	assert.Len(t, f.posts.posts, 1)
}

func TestWorker_DrainsMoreThanOneBatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.service.SchedulePost(ctx, 1, ScheduleRequest{Text: fmt.Sprintf("post %d", i), PublishAt: f.at(time.Second)})
		require.NoError(t, err)
	}
	f.clock.Advance(time.Second)

	n, err := f.worker.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Len(t, f.posts.posts, 5)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}
