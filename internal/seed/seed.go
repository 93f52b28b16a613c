// Package seed loads an optional YAML seed file at startup. It fills the
// feelings catalog and can create a demo team with users for local
// development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/teampulse/teampulse/internal/feeling"
	"github.com/teampulse/teampulse/internal/team"
	"github.com/teampulse/teampulse/internal/user"
)

// File is the on-disk seed document.
type File struct {
	Feelings []string   `json:"feelings"`
	Teams    []TeamSeed `json:"teams"`
}

// TeamSeed describes a team plus its members.
type TeamSeed struct {
	Name    string     `json:"name"`
	Members []UserSeed `json:"members"`
}

// UserSeed describes a user to create inside a seeded team.
type UserSeed struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Parse reads and unmarshals a seed file.
func Parse(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var f File
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	for _, ts := range f.Teams {
		for _, us := range ts.Members {
			if !user.Role(us.Role).Valid() {
				return nil, fmt.Errorf("seed user %q: unknown role %q", us.Email, us.Role)
			}
		}
	}

	return &f, nil
}

// Seeder applies a seed file against the repositories.
type Seeder struct {
	feelings   feeling.Repository
	teams      team.Repository
	users      user.Repository
	bcryptCost int
}

// NewSeeder creates a Seeder.
func NewSeeder(feelings feeling.Repository, teams team.Repository, users user.Repository, bcryptCost int) *Seeder {
	return &Seeder{
		feelings:   feelings,
		teams:      teams,
		users:      users,
		bcryptCost: bcryptCost,
	}
}

// Apply upserts the seed data. Existing records are left untouched, so the
// seed file can stay configured across restarts.
func (s *Seeder) Apply(ctx context.Context, f *File) error {
	for _, name := range f.Feelings {
		fl := &feeling.Feeling{Name: name}
		err := s.feelings.Create(ctx, fl)
		if err != nil && !errors.Is(err, feeling.ErrDuplicateFeelingName) {
			return fmt.Errorf("seeding feeling %q: %w", name, err)
		}
	}

	for _, ts := range f.Teams {
		t, err := s.ensureTeam(ctx, ts.Name)
		if err != nil {
			return err
		}

		for _, us := range ts.Members {
			if err := s.ensureUser(ctx, t, us); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Seeder) ensureTeam(ctx context.Context, name string) (*team.Team, error) {
	t := &team.Team{Name: name}
	err := s.teams.Create(ctx, t)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, team.ErrDuplicateTeamName) {
		return nil, fmt.Errorf("seeding team %q: %w", name, err)
	}
	return s.teams.GetByName(ctx, name)
}

func (s *Seeder) ensureUser(ctx context.Context, t *team.Team, us UserSeed) error {
	exists, err := s.users.ExistsByEmail(ctx, us.Email)
	if err != nil {
		return fmt.Errorf("checking seed user %q: %w", us.Email, err)
	}
	if exists {
		return nil
	}

	hash, err := user.HashPassword(us.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing seed password for %q: %w", us.Email, err)
	}

	u := &user.User{
		Email:        us.Email,
		PasswordHash: hash,
		Name:         us.Name,
		Role:         user.Role(us.Role),
		TeamID:       &t.ID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return fmt.Errorf("seeding user %q: %w", us.Email, err)
	}

	slog.Info("seeded user", "email", u.Email, "team", t.Name)
	return nil
}
