package store

import (
	"context"

	"kit-inventory/internal/domain/kits"
)

// UpdateKitStatus moves a kit to any status; transitions are not ordered.
func (s *Store) UpdateKitStatus(ctx context.Context, ownerID, id uint, status kits.Status) (kits.Kit, error) {
	if !status.Valid() {
		return kits.Kit{}, invalidf(s.Kits.name, "status %q is not one of PENDING, IN_PROGRESS, DONE", string(status))
	}
	return s.Kits.patch(ctx, ownerID, id, nil, map[string]any{"status": status})
}

func (s *Store) SetKitPartCut(ctx context.Context, ownerID, id uint, isCut bool) (kits.KitPart, error) {
	return s.KitParts.patch(ctx, ownerID, id, nil, map[string]any{"is_cut": isCut})
}

func (s *Store) SetRunnerUsed(ctx context.Context, ownerID, id uint, isUsed bool) (kits.Runner, error) {
	return s.Runners.patch(ctx, ownerID, id, nil, map[string]any{"is_used": isUsed})
}

// ListKitsByStatus is List with a status filter given as its stored name.
func (s *Store) ListKitsByStatus(ctx context.Context, ownerID uint, status string) ([]kits.Kit, error) {
	if status == "" {
		return s.Kits.List(ctx, ownerID, nil)
	}
	st := kits.Status(status)
	if !st.Valid() {
		return nil, invalidf(s.Kits.name, "status %q is not one of PENDING, IN_PROGRESS, DONE", status)
	}
	return s.Kits.List(ctx, ownerID, kits.KitFilter{Status: &st})
}
