package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/internal/config"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

var (
	// ErrInviteNotFound is returned when no unclaimed member matches the token
	ErrInviteNotFound = errors.New("invite token does not match any unclaimed member")
	// ErrMemberNotFound is returned when a member id is not on the roster
	ErrMemberNotFound = errors.New("member not found on the roster")
)

// FamilyStore defines the database operations needed for roster management
type FamilyStore interface {
	GetFamily(ctx context.Context) ([]model.Person, error)
	SaveFamily(ctx context.Context, family []model.Person) error
}

// defaultSeedFamily mirrors the household this was built for: the claimed
// members cover group A and the siblings join by claiming an invite.
var defaultSeedFamily = []config.SeedMember{
	{ID: "papa", Name: "Papá", AvatarColor: "sky", Claimed: true},
	{ID: "mama", Name: "Mamá", AvatarColor: "pink", Claimed: true},
	{ID: "hermano1", Name: "Hermano 1", AvatarColor: "emerald"},
	{ID: "hermano2", Name: "Hermano 2", AvatarColor: "amber"},
	{ID: "hermano3", Name: "Hermano 3", AvatarColor: "indigo"},
	{ID: "yo", Name: "Yo", AvatarColor: "red", Claimed: true},
}

// BootstrapFamily returns the roster, seeding it on first run. Unclaimed
// members receive an invite token to be bound later via ClaimInvite.
func BootstrapFamily(ctx context.Context, store FamilyStore, cfg *config.Config, logger *zap.Logger) ([]model.Person, error) {
	family, err := store.GetFamily(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load family: %w", err)
	}
	if len(family) > 0 {
		return family, nil
	}

	seed := cfg.SeedFamily
	if len(seed) == 0 {
		seed = defaultSeedFamily
	}

	family = make([]model.Person, 0, len(seed))
	for _, m := range seed {
		p := model.Person{
			ID:                  m.ID,
			Name:                m.Name,
			AvatarColor:         m.AvatarColor,
			Status:              model.StatusUnclaimed,
			CountsOnLeaderboard: true,
		}
		if m.Claimed {
			p.Status = model.StatusClaimed
		} else {
			p.InviteToken = uuid.New().String()
		}
		family = append(family, p)
	}

	if err := store.SaveFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("failed to save seeded family: %w", err)
	}

	logger.Info("Seeded family roster", zap.Int("members", len(family)))

	return family, nil
}

// ClaimInvite binds an unclaimed roster entry to a real participant: the
// member takes the chosen name, becomes claimed and the token is cleared.
func ClaimInvite(ctx context.Context, store FamilyStore, logger *zap.Logger, token, name string) (*model.Person, error) {
	family, err := store.GetFamily(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load family: %w", err)
	}

	idx := -1
	for i := range family {
		if family[i].Status == model.StatusUnclaimed && family[i].InviteToken == token {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrInviteNotFound
	}

	family[idx].Name = name
	family[idx].Status = model.StatusClaimed
	family[idx].InviteToken = ""

	if err := store.SaveFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("failed to save family: %w", err)
	}

	logger.Info("Invite claimed",
		zap.String("member_id", family[idx].ID),
		zap.String("name", name))

	return &family[idx], nil
}

// RenameMember updates a member's display name
func RenameMember(ctx context.Context, store FamilyStore, logger *zap.Logger, memberID, name string) (*model.Person, error) {
	family, err := store.GetFamily(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load family: %w", err)
	}

	idx := -1
	for i := range family {
		if family[i].ID == memberID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}

	family[idx].Name = name

	if err := store.SaveFamily(ctx, family); err != nil {
		return nil, fmt.Errorf("failed to save family: %w", err)
	}

	logger.Info("Member renamed", zap.String("member_id", memberID), zap.String("name", name))

	return &family[idx], nil
}
