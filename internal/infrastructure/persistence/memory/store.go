// Package memory provides an in-process implementation of every repository interface.
// It backs the service tests and local development without a database.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/application/helper"
	"github.com/rezkam/taskmarket/internal/application/reconcile"
	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/domain"
)

type eventKey struct {
	taskID string
	kind   domain.AggregateEventKind
}

type data struct {
	tasks    map[string]*domain.Task
	users    map[string]*domain.User
	profiles map[string]*domain.HelperProfile // keyed by user id
	events   map[eventKey]struct{}
}

func newData() *data {
	return &data{
		tasks:    make(map[string]*domain.Task),
		users:    make(map[string]*domain.User),
		profiles: make(map[string]*domain.HelperProfile),
		events:   make(map[eventKey]struct{}),
	}
}

func (d *data) clone() *data {
	c := newData()
	for id, t := range d.tasks {
		c.tasks[id] = t.Clone()
	}
	for id, u := range d.users {
		uc := *u
		c.users[id] = &uc
	}
	for id, p := range d.profiles {
		c.profiles[id] = p.Clone()
	}
	maps.Copy(c.events, d.events)
	return c
}

// Store keeps all state behind one mutex. A transaction holds the mutex for its
// whole duration and works on a copy that replaces the state on commit.
type Store struct {
	mu   *sync.Mutex
	data *data
	inTx bool
	now  func() time.Time
}

// Compile-time verification that Store implements all repository interfaces.
var (
	_ task.Repository      = (*Store)(nil)
	_ helper.Repository    = (*Store)(nil)
	_ admin.Repository     = (*Store)(nil)
	_ auth.Repository      = (*Store)(nil)
	_ reconcile.Repository = (*Store)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		mu:   &sync.Mutex{},
		data: newData(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Close is a no-op, present so the store can stand in for the postgres one.
func (s *Store) Close() error {
	return nil
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) executeInTransaction(ctx context.Context, fn func(txStore *Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txStore := &Store{mu: s.mu, data: snapshot, inTx: true, now: s.now}
	if err := fn(txStore); err != nil {
		return err
	}
	*s.data = *snapshot
	return nil
}

// Atomic runs fn against a transactional view of the store.
func (s *Store) Atomic(ctx context.Context, fn func(repo task.Repository) error) error {
	return s.executeInTransaction(ctx, func(txStore *Store) error {
		return fn(txStore)
	})
}

// AtomicAdmin runs fn against a transactional view of the store.
func (s *Store) AtomicAdmin(ctx context.Context, fn func(repo admin.Repository) error) error {
	return s.executeInTransaction(ctx, func(txStore *Store) error {
		return fn(txStore)
	})
}

// AtomicReconcile runs fn against a transactional view of the store.
func (s *Store) AtomicReconcile(ctx context.Context, fn func(repo reconcile.Repository) error) error {
	return s.executeInTransaction(ctx, func(txStore *Store) error {
		return fn(txStore)
	})
}
