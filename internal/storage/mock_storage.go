package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBlobStore is a testify mock used by unit tests and dev mode.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) DeleteBlob(ctx context.Context, storageRef string) error {
	args := m.Called(ctx, storageRef)
	return args.Error(0)
}

// NopBlobStore discards delete requests; used when no object store is
// configured.
type NopBlobStore struct{}

func (NopBlobStore) DeleteBlob(context.Context, string) error { return nil }
