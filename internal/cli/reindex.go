package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/oksasatya/user-directory/internal/application"
)

func newReindexCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Copy every stored profile into the Elasticsearch index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(ctx context.Context, env *Env) error {
				svc := application.NewProfileService(env.Repos.Profiles, env.Index, nil, env.Config.Location(), env.Logger)
				n, err := svc.Reindex(ctx)
				if errors.Is(err, application.ErrIndexDisabled) {
					return errors.New("elasticsearch is not enabled, set ES_ENABLED=true")
				}
				if err != nil {
					return err
				}
				cmd.Printf("indexed %d profile(s)\n", n)
				return nil
			})
		},
	}
}
