package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func setupWorker(t *testing.T) (*Worker, *JobQueue) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	w := NewWorker(WorkerConfig{
		RedisClient: client,
		Queues:      []string{"default"},
		Logger:      zerolog.Nop(),
	})
	return w, NewJobQueue(client)
}

func TestEnqueueIncreasesQueueSize(t *testing.T) {
	_, queue := setupWorker(t)

	if err := queue.Enqueue("default", JobTypeStatsSnapshot, nil); err != nil {
		t.Fatalf("Expected enqueue success, got %v", err)
	}

	size, err := queue.GetQueueSize("default")
	if err != nil {
		t.Fatalf("Expected size query success, got %v", err)
	}
	if size != 1 {
		t.Errorf("Expected queue size 1, got %d", size)
	}
}

func TestWorkerProcessesJob(t *testing.T) {
	w, queue := setupWorker(t)

	done := make(chan *Job, 1)
	w.RegisterHandler(JobTypeStatsSnapshot, func(ctx context.Context, job *Job) error {
		done <- job
		return nil
	})

	if err := queue.Enqueue("default", JobTypeStatsSnapshot, map[string]interface{}{"reason": "test"}); err != nil {
		t.Fatalf("Expected enqueue success, got %v", err)
	}

	w.Start(1)
	defer w.Stop()

	select {
	case job := <-done:
		if job.Type != JobTypeStatsSnapshot {
			t.Errorf("Expected stats_snapshot job, got %s", job.Type)
		}
		if job.Payload["reason"] != "test" {
			t.Errorf("Expected payload carried through, got %v", job.Payload)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Job was not processed in time")
	}
}

func TestFailedJobGoesToRetryQueue(t *testing.T) {
	w, queue := setupWorker(t)

	attempted := make(chan struct{}, 1)
	w.RegisterHandler(JobTypeCompletedCleanup, func(ctx context.Context, job *Job) error {
		attempted <- struct{}{}
		return errors.New("boom")
	})

	if err := queue.Enqueue("default", JobTypeCompletedCleanup, nil); err != nil {
		t.Fatalf("Expected enqueue success, got %v", err)
	}

	w.Start(1)
	defer w.Stop()

	select {
	case <-attempted:
	case <-time.After(3 * time.Second):
		t.Fatal("Job was not attempted in time")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		size, err := queue.GetQueueSize(retryQueue)
		if err != nil {
			t.Fatalf("Expected size query success, got %v", err)
		}
		if size == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Error("Expected failed job moved to the retry queue")
}
