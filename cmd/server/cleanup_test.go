package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmarket/internal/config"
)

func TestNewCleanup_ShutsDownAuthenticatorBeforeClosingStore(t *testing.T) {
	var callOrder []string

	authenticator := &fakeAuthenticator{calls: &callOrder}
	store := &fakeStore{calls: &callOrder}

	cleanup := newCleanup(time.Second, authenticator, store)

	cleanup()

	require.Equal(t, []string{"authShutdown", "storeClose"}, callOrder)
	assert.True(t, authenticator.hadDeadline, "authenticator drain must be bounded")
	assert.NoError(t, authenticator.ctxErr, "drain context must not start cancelled")
}

func TestNewCleanup_ClosesStoreWhenShutdownFails(t *testing.T) {
	var callOrder []string

	authenticator := &fakeAuthenticator{calls: &callOrder, err: errors.New("queue not drained")}
	store := &fakeStore{calls: &callOrder}

	newCleanup(time.Second, authenticator, store)()

	require.Equal(t, []string{"authShutdown", "storeClose"}, callOrder)
}

func TestNewCleanup_NilDependencies(t *testing.T) {
	assert.NotPanics(t, newCleanup(time.Second, nil, nil))
}

func TestShutdownTimeout(t *testing.T) {
	assert.Equal(t, DefaultShutdownTimeout, shutdownTimeout(&config.ServerConfig{}))
	assert.Equal(t, 3*time.Second, shutdownTimeout(&config.ServerConfig{ShutdownTimeout: 3 * time.Second}))
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxxx@db:5432/market", maskPassword("postgres://app:secret@db:5432/market"))
	assert.Equal(t, "postgres://db:5432/market", maskPassword("postgres://db:5432/market"))
	assert.Equal(t, "[REDACTED]", maskPassword("postgres://app:secret@db:5432/%zz"))
}

func TestProvideStore_Memory(t *testing.T) {
	store, err := provideStore(context.Background(), &config.ServerConfig{StorageType: config.StorageMemory})
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestProvideSnapshotCache_DisabledWithoutAddress(t *testing.T) {
	snapshots, cleanup, err := provideSnapshotCache(context.Background(), &config.ServerConfig{})
	require.NoError(t, err)
	assert.Nil(t, snapshots)
	cleanup()
}

type fakeAuthenticator struct {
	calls       *[]string
	hadDeadline bool
	ctxErr      error
	err         error
}

func (f *fakeAuthenticator) Shutdown(ctx context.Context) error {
	_, f.hadDeadline = ctx.Deadline()
	f.ctxErr = ctx.Err()
	*f.calls = append(*f.calls, "authShutdown")
	return f.err
}

type fakeStore struct {
	calls *[]string
}

func (s *fakeStore) Close() error {
	*s.calls = append(*s.calls, "storeClose")
	return nil
}
