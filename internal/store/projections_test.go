package store

import (
	"context"
	"testing"

	"kit-inventory/internal/domain/kits"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKitWithRunners(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s, alice)
	g := newFixture(t, s, bob)

	// a runner of another owner that points at alice's kit never shows up
	intruder := kits.Runner{UserID: bob, Name: "X", KitID: f.kit.ID, ColorID: g.color.ID, Amount: 1}
	require.NoError(t, s.db.Create(&intruder).Error)

	view, err := s.KitWithRunners(ctx, alice, f.kit.ID)
	require.NoError(t, err)
	assert.Equal(t, f.kit.ID, view.ID)
	require.Len(t, view.Runners, 2)
	assert.Equal(t, []uint{f.runnerA.ID, f.runnerB.ID}, []uint{view.Runners[0].ID, view.Runners[1].ID})

	_, err = s.KitWithRunners(ctx, bob, f.kit.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	empty := createKit(t, s, alice, "empty")
	view, err = s.KitWithRunners(ctx, alice, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, view.Runners)
	assert.Empty(t, view.Runners)
}

func TestKitPartWithRequirements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s, alice)

	created, err := s.BulkCreateRequirements(ctx, alice, kits.BulkCreateRequirements{
		KitPartID: f.part.ID,
		Items: []kits.RequirementItem{
			{Gate: []string{"4"}, Qty: 1, RunnerID: f.runnerA.ID},
			{Gate: []string{"5"}, Qty: 2, RunnerID: f.runnerB.ID},
		},
	})
	require.NoError(t, err)

	view, err := s.KitPartWithRequirements(ctx, alice, f.part.ID)
	require.NoError(t, err)
	assert.Equal(t, f.part.ID, view.ID)
	assert.Equal(t, requirementIDs(created), requirementIDs(view.Requirements))

	_, err = s.KitPartWithRequirements(ctx, bob, f.part.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJoinedChildrenAreOwnerFiltered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s, alice)
	g := newFixture(t, s, bob)

	// alice's runner molded in bob's color, inserted behind the store's back
	odd := kits.Runner{UserID: alice, Name: "odd", KitID: f.kit.ID, ColorID: g.color.ID, Amount: 1}
	require.NoError(t, s.db.Create(&odd).Error)

	runners, err := s.RunnersWithColor(ctx, alice, f.kit.ID)
	require.NoError(t, err)
	require.Len(t, runners, 3)
	require.NotNil(t, runners[0].Color)
	assert.Equal(t, f.color.ID, runners[0].Color.ID)
	assert.Equal(t, odd.ID, runners[2].ID)
	assert.Nil(t, runners[2].Color)

	_, err = s.RunnersWithColor(ctx, bob, f.kit.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKitPartsWithSubAssembly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s, alice)

	parts, err := s.KitPartsWithSubAssembly(ctx, alice, f.kit.ID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.NotNil(t, parts[0].SubAssembly)
	assert.Equal(t, "Torso", parts[0].SubAssembly.Name)

	_, err = s.KitPartsWithSubAssembly(ctx, bob, f.kit.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequirementsWithRunner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := newFixture(t, s, alice)

	_, err := s.BulkCreateRequirements(ctx, alice, kits.BulkCreateRequirements{
		KitPartID: f.part.ID,
		Items:     []kits.RequirementItem{{Gate: []string{"8"}, Qty: 1, RunnerID: f.runnerB.ID}},
	})
	require.NoError(t, err)

	reqs, err := s.RequirementsWithRunner(ctx, alice, f.part.ID)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	require.NotNil(t, reqs[0].Runner)
	assert.Equal(t, "B", reqs[0].Runner.Name)

	_, err = s.RequirementsWithRunner(ctx, bob, f.part.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
