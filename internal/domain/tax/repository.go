package tax

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository manages tax profile persistence
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// FindActive returns the single active profile, or nil (no error) when
	// no profile is active - absence of a tax regime is not a failure.
	FindActive(ctx context.Context) (*Profile, error)
	FindAll(ctx context.Context) ([]Profile, error)
	Save(ctx context.Context, profile *Profile) error
	// DeactivateAll clears the active flag on every profile; used before
	// activating a new one so at most one profile stays active.
	DeactivateAll(ctx context.Context) error
}

// CategoryRepository manages tax category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}

// RuleRepository manages tax rule persistence
type RuleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Rule, error)
	FindByProfile(ctx context.Context, profileID uuid.UUID) ([]Rule, error)
	Save(ctx context.Context, rule *Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
}
