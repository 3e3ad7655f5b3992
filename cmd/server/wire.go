//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/rezkam/taskmarket/internal/application/admin"
	"github.com/rezkam/taskmarket/internal/application/auth"
	"github.com/rezkam/taskmarket/internal/application/helper"
	"github.com/rezkam/taskmarket/internal/application/task"
	"github.com/rezkam/taskmarket/internal/config"
	httpserver "github.com/rezkam/taskmarket/internal/infrastructure/http"
	"github.com/rezkam/taskmarket/internal/infrastructure/http/handler"
)

// StoreSet provides the storage backend and the per-service repository views of it.
var StoreSet = wire.NewSet(
	provideStore,
	taskRepository,
	helperRepository,
	adminRepository,
	authRepository,
)

// ServiceSet provides application services.
var ServiceSet = wire.NewSet(
	provideTaskConfig,
	provideSnapshotCache,
	task.NewService,
	helper.NewService,
	admin.NewService,
)

// AuthSet provides token verification and the authenticator.
var AuthSet = wire.NewSet(
	provideTokenManager,
	provideAuthConfig,
	auth.NewAuthenticator,
)

// HTTPSet provides HTTP layer components.
var HTTPSet = wire.NewSet(
	handler.NewOpenAPIRouter,
	provideAPIServer,
)

// InitializeServer wires everything together for the HTTP server.
func InitializeServer(ctx context.Context, cfg *config.ServerConfig) (*httpserver.APIServer, func(), error) {
	wire.Build(
		StoreSet,
		ServiceSet,
		AuthSet,
		HTTPSet,
	)
	return nil, nil, nil
}
