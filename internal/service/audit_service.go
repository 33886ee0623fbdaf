package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-drive/internal/model"
	"go-drive/internal/repository"
)

const defaultAuditBuffer = 256

// AuditService appends immutable audit records through a single writer
// goroutine fed by a buffered channel. Recording is fire-and-forget: the
// primary operation never waits for the write and never sees its failure.
// A full buffer drops the record with a warning rather than blocking.
type AuditService struct {
	repo    repository.AuditRepository
	records chan model.AuditRecord

	closeOnce sync.Once
	done      chan struct{}
}

func NewAuditService(repo repository.AuditRepository, buffer int) *AuditService {
	if buffer <= 0 {
		buffer = defaultAuditBuffer
	}

	s := &AuditService{
		repo:    repo,
		records: make(chan model.AuditRecord, buffer),
		done:    make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

// Record enqueues one audit record. targetID may be nil for owner-scoped
// actions such as empty-trash.
func (s *AuditService) Record(actor model.Actor, action model.Action, status string, targetType string, targetID *uuid.UUID, targetName string, details map[string]any, errText string) {
	if s == nil {
		return
	}

	record := model.AuditRecord{
		ID:         uuid.New(),
		OccurredAt: time.Now().UTC(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		Status:     status,
		TargetType: targetType,
		TargetID:   targetID,
		TargetName: targetName,
		Details:    details,
		IPAddress:  actor.IP,
		UserAgent:  actor.UserAgent,
		Error:      errText,
	}

	select {
	case s.records <- record:
	default:
		slog.Warn("audit buffer full; dropping record", "action", action, "actor_id", actor.ID)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditRecord, model.Meta, error) {
	return s.repo.Query(ctx, query)
}

// Close stops accepting records and drains what is already queued.
func (s *AuditService) Close() {
	s.closeOnce.Do(func() {
		close(s.records)
		<-s.done
	})
}

func (s *AuditService) writeLoop() {
	defer close(s.done)

	for record := range s.records {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s.repo.Insert(ctx, record); err != nil {
			// Audit is a side channel, not a transaction participant: the
			// failure stays here.
			slog.Error("audit write failed", "action", record.Action, "error", err)
		}
		cancel()
	}
}
