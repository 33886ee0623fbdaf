package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-drive/internal/model"
)

func TestAuditService_RecordWritesAsynchronously(t *testing.T) {
	repo := &captureAuditRepo{}
	svc := NewAuditService(repo, 16)
	defer svc.Close()

	actor := model.Actor{ID: uuid.New(), Email: "actor@example.com", IP: "10.0.0.1"}
	target := uuid.New()
	svc.Record(actor, model.ActionMove, model.AuditStatusSuccess, "item", &target, "report.pdf", map[string]any{"to_parent_id": "root"}, "")

	require.Eventually(t, func() bool { return repo.len() == 1 }, time.Second, 5*time.Millisecond)

	records, _, err := repo.Query(context.Background(), model.AuditQuery{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.ActionMove, records[0].Action)
	assert.Equal(t, actor.ID, records[0].ActorID)
	require.NotNil(t, records[0].TargetID)
	assert.Equal(t, target, *records[0].TargetID)
	assert.False(t, records[0].OccurredAt.IsZero())
}

func TestAuditService_CloseDrainsQueue(t *testing.T) {
	repo := &captureAuditRepo{}
	svc := NewAuditService(repo, 64)

	actor := model.Actor{ID: uuid.New()}
	for i := 0; i < 20; i++ {
		id := uuid.New()
		svc.Record(actor, model.ActionSoftDelete, model.AuditStatusSuccess, "item", &id, fmt.Sprintf("file-%d", i), nil, "")
	}

	svc.Close()
	assert.Equal(t, 20, repo.len())
}

func TestAuditService_InsertFailureDoesNotPropagate(t *testing.T) {
	repo := &captureAuditRepo{insertErr: errors.New("relation does not exist")}
	svc := NewAuditService(repo, 8)

	actor := model.Actor{ID: uuid.New()}
	id := uuid.New()
	svc.Record(actor, model.ActionRestore, model.AuditStatusFailed, "item", &id, "lost.txt", nil, "boom")

	// Close must return even though every insert fails.
	svc.Close()
	assert.Zero(t, repo.len())
}

// blockingAuditRepo parks Insert until released so tests can fill the buffer.
type blockingAuditRepo struct {
	release chan struct{}
	mu      sync.Mutex
	count   int
}

func (b *blockingAuditRepo) Insert(_ context.Context, _ model.AuditRecord) error {
	<-b.release
	b.mu.Lock()
	b.count++
	b.mu.Unlock()
	return nil
}

func (b *blockingAuditRepo) Query(_ context.Context, _ model.AuditQuery) ([]model.AuditRecord, model.Meta, error) {
	return nil, model.Meta{}, nil
}

func TestAuditService_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	repo := &blockingAuditRepo{release: make(chan struct{})}
	svc := NewAuditService(repo, 1)

	actor := model.Actor{ID: uuid.New()}
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 10; i++ {
			id := uuid.New()
			svc.Record(actor, model.ActionPermanentDelete, model.AuditStatusSuccess, "item", &id, "bulk", nil, "")
		}
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full buffer")
	}

	close(repo.release)
	svc.Close()

	repo.mu.Lock()
	written := repo.count
	repo.mu.Unlock()
	assert.Greater(t, written, 0)
	assert.Less(t, written, 10)
}
