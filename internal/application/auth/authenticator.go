package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Default configuration values.
const (
	DefaultOperationTimeout = 5 * time.Second
	DefaultUpdateQueueSize  = 1000
)

// Config holds configuration for the Authenticator.
type Config struct {
	OperationTimeout time.Duration // Timeout for storage operations
	UpdateQueueSize  int           // Buffer size for last_seen_at updates
}

type lastSeenUpdate struct {
	userID    string
	timestamp time.Time
}

// Authenticator validates bearer tokens against the user store.
// A token is accepted only if its user exists, is active and still holds the token's role.
type Authenticator struct {
	tokens           *TokenManager
	repo             Repository
	appCtx           context.Context // Application context, cancelled on shutdown
	lastSeenUpdates  chan lastSeenUpdate
	shutdownChan     chan struct{}
	shutdownOnce     sync.Once
	wg               sync.WaitGroup
	operationTimeout time.Duration
}

// NewAuthenticator creates an authenticator and starts the background worker
// that records last_seen_at.
// The ctx parameter should be an application-level context that gets cancelled on shutdown.
func NewAuthenticator(ctx context.Context, tokens *TokenManager, repo Repository, config Config) *Authenticator {
	if config.OperationTimeout <= 0 {
		config.OperationTimeout = DefaultOperationTimeout
	}
	if config.UpdateQueueSize <= 0 {
		config.UpdateQueueSize = DefaultUpdateQueueSize
	}

	a := &Authenticator{
		tokens:           tokens,
		repo:             repo,
		appCtx:           ctx,
		lastSeenUpdates:  make(chan lastSeenUpdate, config.UpdateQueueSize),
		shutdownChan:     make(chan struct{}),
		operationTimeout: config.OperationTimeout,
	}

	a.wg.Go(a.processLastSeenUpdates)

	return a
}

func (a *Authenticator) processLastSeenUpdates() {
	for {
		select {
		case update := <-a.lastSeenUpdates:
			ctx, cancel := context.WithTimeout(a.appCtx, a.operationTimeout)
			if err := a.repo.UpdateLastSeen(ctx, update.userID, update.timestamp); err != nil {
				slog.WarnContext(ctx, "Failed to update user last_seen_at",
					slog.String("user_id", update.userID),
					slog.String("error", err.Error()))
			}
			cancel()

		case <-a.shutdownChan:
			// Drain with a fresh context, appCtx is already cancelled at this point.
			for {
				select {
				case update := <-a.lastSeenUpdates:
					ctx, cancel := context.WithTimeout(context.Background(), a.operationTimeout)
					_ = a.repo.UpdateLastSeen(ctx, update.userID, update.timestamp)
					cancel()
				default:
					return
				}
			}
		}
	}
}

// Shutdown stops the worker after it drains queued updates.
// It respects the provided context's deadline. Safe to call multiple times.
func (a *Authenticator) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.shutdownOnce.Do(func() {
		close(a.shutdownChan)

		done := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			shutdownErr = fmt.Errorf("shutdown timeout: %w", ctx.Err())
		}
	})
	return shutdownErr
}

// Authenticate validates a bearer token and returns the caller's identity.
// Returns an error wrapping domain.ErrUnauthorized for any rejected token.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	identity, err := a.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}

	opCtx, cancel := context.WithTimeout(ctx, a.operationTimeout)
	defer cancel()

	user, err := a.repo.FindUserByID(opCtx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
		}
		return domain.Identity{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return domain.Identity{}, fmt.Errorf("%w: user is deactivated", domain.ErrUnauthorized)
	}
	if user.Role != identity.Role {
		return domain.Identity{}, fmt.Errorf("%w: role changed since token was issued", domain.ErrUnauthorized)
	}

	select {
	case a.lastSeenUpdates <- lastSeenUpdate{userID: user.ID, timestamp: time.Now().UTC()}:
	default:
		slog.WarnContext(ctx, "Dropped last_seen_at update due to full queue",
			slog.String("user_id", user.ID))
	}

	return identity, nil
}

// IssueToken signs a token for an existing, active user.
func IssueToken(ctx context.Context, tokens *TokenManager, repo Repository, userID string, ttl time.Duration) (string, error) {
	user, err := repo.FindUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", fmt.Errorf("%w: user is deactivated", domain.ErrForbidden)
	}
	return tokens.Issue(domain.Identity{UserID: user.ID, Role: user.Role}, ttl)
}
