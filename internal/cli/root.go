// Package cli holds the operator commands: migrations, demo data, search
// index rebuilds and a notification smoke test.
package cli

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/user-directory/config"
	"github.com/oksasatya/user-directory/internal/container"
	"github.com/oksasatya/user-directory/internal/domain/repository"
	"github.com/oksasatya/user-directory/internal/router"
	"github.com/oksasatya/user-directory/pkg/helpers"
)

// Env is what a command needs to touch the stores. Index is nil when search
// is not enabled.
type Env struct {
	Config *config.Config
	Logger *logrus.Logger
	Repos  router.Repositories
	Index  repository.ProfileIndex
}

// Loader opens an Env. The returned func releases it.
type Loader func(ctx context.Context, cfg *config.Config) (*Env, func(), error)

// ContainerLoader connects the services named by cfg through the container.
func ContainerLoader(ctx context.Context, cfg *config.Config) (*Env, func(), error) {
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	cleanup, err := container.Init(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return &Env{
		Config: cfg,
		Logger: logger,
		Repos:  router.BuildRepositories(),
		Index:  router.BuildProfileIndex(),
	}, cleanup, nil
}

// NewRootCmd assembles the command tree. cfg is loaded lazily by each
// command so --help works without any environment.
func NewRootCmd(load Loader) *cobra.Command {
	root := &cobra.Command{
		Use:           "user-directory",
		Short:         "Operator commands for the user directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd(load))
	root.AddCommand(newNotificationCmd(load))
	root.AddCommand(newReindexCmd(load))
	return root
}

func withEnv(cmd *cobra.Command, load Loader, fn func(ctx context.Context, env *Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, closeFn, err := load(ctx, config.Load())
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, env)
}
