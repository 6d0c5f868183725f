package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oksasatya/user-directory/internal/domain/entity"
	"github.com/oksasatya/user-directory/internal/domain/repository"
	"github.com/oksasatya/user-directory/pkg/helpers"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
	demoName     = "Demo User"
)

var demoNames = []string{
	"Aarav Sharma", "Priya Patel", "Rohan Gupta", "Ananya Singh", "Vikram Rao",
	"Meera Iyer", "Arjun Nair", "Kavya Reddy", "Ishaan Mehta", "Diya Kapoor",
	"Kabir Joshi", "Saanvi Das", "Aditya Kulkarni", "Neha Verma", "Rahul Bose",
}

func newSeedCmd(load Loader) *cobra.Command {
	var profiles int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo login and sample directory entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, load, func(ctx context.Context, env *Env) error {
				identity, created, err := seedIdentity(ctx, env.Repos.Identities, helpers.BcryptHasher{})
				if err != nil {
					return err
				}
				if created {
					cmd.Printf("seeded login: email=%s password=%s\n", identity.Email, demoPassword)
				} else {
					cmd.Printf("login %s already exists (id=%d)\n", identity.Email, identity.ID)
				}

				n, err := seedProfiles(ctx, env.Repos.Profiles, env.Index, profiles)
				if err != nil {
					return err
				}
				cmd.Printf("seeded %d profile(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&profiles, "profiles", len(demoNames), "number of sample profiles to create")
	return cmd
}

type hasher interface {
	Hash(plain string) (string, error)
}

// seedIdentity creates the demo login unless it already exists.
func seedIdentity(ctx context.Context, identities repository.IdentityRepository, h hasher) (*entity.AuthIdentity, bool, error) {
	existing, err := identities.GetByEmail(ctx, demoEmail)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup demo identity: %w", err)
	}
	hash, err := h.Hash(demoPassword)
	if err != nil {
		return nil, false, fmt.Errorf("hash demo password: %w", err)
	}
	a := &entity.AuthIdentity{
		Name:         demoName,
		Email:        demoEmail,
		PasswordHash: hash,
		Roles:        entity.NewRoles(entity.RoleUser, entity.RoleAdmin),
	}
	if err := identities.Create(ctx, a); err != nil {
		return nil, false, fmt.Errorf("create demo identity: %w", err)
	}
	return a, true, nil
}

// seedProfiles writes n sample profiles, mirroring each into index when one
// is configured so the listing sees them.
func seedProfiles(ctx context.Context, profiles repository.ProfileRepository, index repository.ProfileIndex, n int) (int, error) {
	for i := 0; i < n; i++ {
		name := demoNames[i%len(demoNames)]
		age := 20 + (i*7)%45
		p := &entity.UserProfile{
			Name:  name,
			Email: fmt.Sprintf("user%02d@example.com", i+1),
			Age:   &age,
		}
		if err := profiles.Create(ctx, p); err != nil {
			return i, fmt.Errorf("create profile %d: %w", i+1, err)
		}
		if index != nil {
			if err := index.Index(ctx, p); err != nil {
				return i, fmt.Errorf("index profile %d: %w", p.ID, err)
			}
		}
	}
	return n, nil
}
