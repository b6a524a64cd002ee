package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/internal/config"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

func TestBootstrapFamily_SeedsDefaultRosterOnce(t *testing.T) {
	store := newMockStore()

	family, err := BootstrapFamily(context.Background(), store, testConfig(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, family, 6)

	claimed := 0
	for _, p := range family {
		assert.True(t, p.CountsOnLeaderboard)
		if p.Status == model.StatusClaimed {
			claimed++
			assert.Empty(t, p.InviteToken)
		} else {
			assert.NotEmpty(t, p.InviteToken)
		}
	}
	assert.Equal(t, 3, claimed)

	// A second call returns the stored roster without reseeding
	again, err := BootstrapFamily(context.Background(), store, testConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, family, again)
	assert.Len(t, store.savedFamily, 1)
}

func TestBootstrapFamily_UsesConfiguredSeed(t *testing.T) {
	store := newMockStore()
	cfg := testConfig()
	cfg.SeedFamily = []config.SeedMember{
		{ID: "abuela", Name: "Abuela", AvatarColor: "violet", Claimed: true},
		{ID: "primo", Name: "Primo"},
	}

	family, err := BootstrapFamily(context.Background(), store, cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, family, 2)

	assert.Equal(t, "abuela", family[0].ID)
	assert.Equal(t, model.StatusClaimed, family[0].Status)
	assert.Equal(t, model.StatusUnclaimed, family[1].Status)
	assert.NotEmpty(t, family[1].InviteToken)
}

func TestClaimInvite_BindsMember(t *testing.T) {
	store := newMockStore()
	_, err := BootstrapFamily(context.Background(), store, testConfig(), zap.NewNop())
	require.NoError(t, err)

	var token, memberID string
	for _, p := range store.family {
		if p.Status == model.StatusUnclaimed {
			token = p.InviteToken
			memberID = p.ID
			break
		}
	}
	require.NotEmpty(t, token)

	person, err := ClaimInvite(context.Background(), store, zap.NewNop(), token, "Lucía")
	require.NoError(t, err)

	assert.Equal(t, memberID, person.ID)
	assert.Equal(t, "Lucía", person.Name)
	assert.Equal(t, model.StatusClaimed, person.Status)
	assert.Empty(t, person.InviteToken)

	// The same token cannot be claimed twice
	_, err = ClaimInvite(context.Background(), store, zap.NewNop(), token, "Otra")
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestClaimInvite_UnknownToken(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()

	_, err := ClaimInvite(context.Background(), store, zap.NewNop(), "no-such-token", "Lucía")
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestRenameMember(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()

	person, err := RenameMember(context.Background(), store, zap.NewNop(), "yo", "Matías")
	require.NoError(t, err)

	assert.Equal(t, "Matías", person.Name)
	assert.Equal(t, "Matías", store.family[2].Name)
}

func TestRenameMember_UnknownID(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()

	_, err := RenameMember(context.Background(), store, zap.NewNop(), "desconocido", "X")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
