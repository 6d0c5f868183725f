package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
)

// ErrNoIdentities is returned when there is nobody to notify.
var ErrNoIdentities = errors.New("no users found in database, please register a user first")

func newNotificationCmd(load Loader) *cobra.Command {
	notificationCmd := &cobra.Command{
		Use:   "notification",
		Short: "Notification utilities",
	}
	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Create a test notification for the first user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(ctx context.Context, env *Env) error {
				svc := application.NewNotificationService(env.Repos.Notifications, env.Logger)
				owner, n, err := sendTestNotification(ctx, env.Repos.Identities, svc)
				if err != nil {
					return err
				}
				cmd.Println("Test notification created successfully!")
				cmd.Printf("User: %s (%s)\n", owner.Name, owner.Email)
				cmd.Printf("Notification ID: %d\n", n.ID)
				return nil
			})
		},
	}
	notificationCmd.AddCommand(testCmd)
	return notificationCmd
}

func sendTestNotification(ctx context.Context, identities repository.IdentityRepository, svc *application.NotificationService) (*entity.AuthIdentity, *entity.Notification, error) {
	owner, err := identities.First(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrNoIdentities
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find first identity: %w", err)
	}
	n, err := svc.Create(ctx, owner.ID, entity.TestNotificationTitle, entity.TestNotificationMessage)
	if err != nil {
		return nil, nil, err
	}
	return owner, n, nil
}
