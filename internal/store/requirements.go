package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kit-inventory/internal/domain/kits"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const requirementResource = "requirement"

// BulkCreateRequirements inserts all items under one kit part, or none of them.
func (s *Store) BulkCreateRequirements(ctx context.Context, ownerID uint, in kits.BulkCreateRequirements) ([]kits.Requirement, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(requirementResource, err)
	}

	var out []kits.Requirement
	err := s.tx(ctx, requirementResource, func(tx *gorm.DB) error {
		if err := lockKitPart(tx, ownerID, in.KitPartID); err != nil {
			return err
		}
		if err := checkRunners(tx, ownerID, itemRunnerIDs(in.Items)); err != nil {
			return err
		}
		rows, err := insertRequirements(tx, ownerID, in.KitPartID, in.Items, s.clock())
		if err != nil {
			return err
		}
		if err := requirementsOnOneKit(tx, ownerID, errCrossKitRunner(), "r.kit_part_id = ?", in.KitPartID); err != nil {
			return err
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkUpdateRequirements applies every patch or none. The patched rows may belong to
// different kit parts.
func (s *Store) BulkUpdateRequirements(ctx context.Context, ownerID uint, in kits.BulkUpdateRequirements) ([]kits.Requirement, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(requirementResource, err)
	}

	out := make([]kits.Requirement, 0, len(in.Items))
	err := s.tx(ctx, requirementResource, func(tx *gorm.DB) error {
		if err := checkRunners(tx, ownerID, patchRunnerIDs(in.Items)); err != nil {
			return err
		}
		now := s.clock()
		ids := make([]uint, 0, len(in.Items))
		for _, p := range in.Items {
			if err := updateRequirement(tx, ownerID, 0, p.ID, p.Fields(), now); err != nil {
				return err
			}
			ids = append(ids, p.ID)
		}
		if len(ids) == 0 {
			return nil
		}
		if err := requirementsOnOneKit(tx, ownerID, errCrossKitRunner(), "r.id IN ?", ids); err != nil {
			return err
		}
		return tx.Scopes(ownedBy(ownerID)).Where("id IN ?", ids).Order("id ASC").Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BulkDeleteRequirements deletes all ids or none. An id the owner does not have aborts
// the whole delete.
func (s *Store) BulkDeleteRequirements(ctx context.Context, ownerID uint, in kits.BulkDeleteRequirements) (int, error) {
	if err := in.Validate(); err != nil {
		return 0, invalid(requirementResource, err)
	}

	var deleted int
	err := s.tx(ctx, requirementResource, func(tx *gorm.DB) error {
		n, err := deleteRequirements(tx, ownerID, 0, in.IDs)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// SyncRequirements applies deletes, then updates, then creates to one kit part in a
// single transaction and returns the resulting set.
func (s *Store) SyncRequirements(ctx context.Context, ownerID uint, in kits.SyncRequirements) (kits.SyncResult, error) {
	if err := in.Validate(); err != nil {
		return kits.SyncResult{}, invalid(requirementResource, err)
	}

	var out kits.SyncResult
	err := s.tx(ctx, requirementResource, func(tx *gorm.DB) error {
		if err := lockKitPart(tx, ownerID, in.KitPartID); err != nil {
			return err
		}
		runnerIDs := append(itemRunnerIDs(in.Create), patchRunnerIDs(in.Update)...)
		if err := checkRunners(tx, ownerID, runnerIDs); err != nil {
			return err
		}

		now := s.clock()
		deleted, err := deleteRequirements(tx, ownerID, in.KitPartID, in.DeleteIDs)
		if err != nil {
			return err
		}
		for _, p := range in.Update {
			if err := updateRequirement(tx, ownerID, in.KitPartID, p.ID, p.Fields(), now); err != nil {
				return err
			}
		}
		created, err := insertRequirements(tx, ownerID, in.KitPartID, in.Create, now)
		if err != nil {
			return err
		}

		if err := requirementsOnOneKit(tx, ownerID, errCrossKitRunner(), "r.kit_part_id = ?", in.KitPartID); err != nil {
			return err
		}
		items, err := listRequirements(tx, ownerID, in.KitPartID)
		if err != nil {
			return err
		}
		out = kits.SyncResult{Items: items, Created: len(created), Updated: len(in.Update), Deleted: deleted}
		return nil
	})
	if err != nil {
		return kits.SyncResult{}, err
	}
	return out, nil
}

// CompareSyncRequirements makes the kit part's requirements equal to the target list:
// rows missing from the list are deleted, items with an id are overwritten and items
// without one are created.
func (s *Store) CompareSyncRequirements(ctx context.Context, ownerID uint, in kits.CompareSyncRequirements) (kits.SyncResult, error) {
	if err := in.Validate(); err != nil {
		return kits.SyncResult{}, invalid(requirementResource, err)
	}

	var out kits.SyncResult
	err := s.tx(ctx, requirementResource, func(tx *gorm.DB) error {
		if err := lockKitPart(tx, ownerID, in.KitPartID); err != nil {
			return err
		}

		var existing []uint
		if err := tx.Model(&kits.Requirement{}).Scopes(ownedBy(ownerID)).
			Where("kit_part_id = ?", in.KitPartID).Order("id ASC").Pluck("id", &existing).Error; err != nil {
			return err
		}
		known := make(map[uint]bool, len(existing))
		for _, id := range existing {
			known[id] = true
		}

		provided := make(map[uint]bool, len(in.Items))
		var creates []kits.RequirementItem
		runnerIDs := make([]uint, 0, len(in.Items))
		for _, it := range in.Items {
			runnerIDs = append(runnerIDs, it.RunnerID)
			if it.ID == nil {
				creates = append(creates, it.Item())
				continue
			}
			if !known[*it.ID] {
				return requirementNotFound(*it.ID, in.KitPartID)
			}
			provided[*it.ID] = true
		}
		if err := checkRunners(tx, ownerID, runnerIDs); err != nil {
			return err
		}

		var stale []uint
		for _, id := range existing {
			if !provided[id] {
				stale = append(stale, id)
			}
		}

		now := s.clock()
		deleted, err := deleteRequirements(tx, ownerID, in.KitPartID, stale)
		if err != nil {
			return err
		}
		updated := 0
		for _, it := range in.Items {
			if it.ID == nil {
				continue
			}
			if err := updateRequirement(tx, ownerID, in.KitPartID, *it.ID, it.Fields(), now); err != nil {
				return err
			}
			updated++
		}
		created, err := insertRequirements(tx, ownerID, in.KitPartID, creates, now)
		if err != nil {
			return err
		}

		if err := requirementsOnOneKit(tx, ownerID, errCrossKitRunner(), "r.kit_part_id = ?", in.KitPartID); err != nil {
			return err
		}
		items, err := listRequirements(tx, ownerID, in.KitPartID)
		if err != nil {
			return err
		}
		out = kits.SyncResult{Items: items, Created: len(created), Updated: updated, Deleted: deleted}
		return nil
	})
	if err != nil {
		return kits.SyncResult{}, err
	}
	return out, nil
}

// lockKitPart takes a row lock on the kit part so reconciliations of one part run one
// after another. SQLite has no row locks and serializes writers on its own.
func lockKitPart(tx *gorm.DB, ownerID, id uint) error {
	var part kits.KitPart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(ownedBy(ownerID)).
		First(&part, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("kit_part")
	}
	return err
}

func checkRunners(tx *gorm.DB, ownerID uint, ids []uint) error {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return nil
	}
	want := make([]uint, 0, len(unique))
	for id := range unique {
		want = append(want, id)
	}

	var n int64
	if err := tx.Model(&kits.Runner{}).Scopes(ownedBy(ownerID)).Where("id IN ?", want).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(want) {
		return invalidf(requirementResource, "runner_id does not reference a runner you own")
	}
	return nil
}

func insertRequirements(tx *gorm.DB, ownerID, kitPartID uint, items []kits.RequirementItem, now time.Time) ([]kits.Requirement, error) {
	rows := make([]kits.Requirement, 0, len(items))
	for _, it := range items {
		rows = append(rows, it.Model(ownerID, kitPartID, now))
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// updateRequirement updates one owned requirement. A non-zero kitPartID also pins the
// row to that kit part.
func updateRequirement(tx *gorm.DB, ownerID, kitPartID, id uint, fields map[string]any, now time.Time) error {
	fields["updated_at"] = now
	q := tx.Model(&kits.Requirement{}).Scopes(ownedBy(ownerID)).Where("id = ?", id)
	if kitPartID != 0 {
		q = q.Where("kit_part_id = ?", kitPartID)
	}
	res := q.Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return requirementNotFound(id, kitPartID)
	}
	return nil
}

func deleteRequirements(tx *gorm.DB, ownerID, kitPartID uint, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := tx.Scopes(ownedBy(ownerID)).Where("id IN ?", ids)
	if kitPartID != 0 {
		q = q.Where("kit_part_id = ?", kitPartID)
	}
	res := q.Delete(&kits.Requirement{})
	if res.Error != nil {
		return 0, res.Error
	}
	if int(res.RowsAffected) != len(ids) {
		return 0, &Error{Kind: KindNotFound, Resource: requirementResource, Msg: "one or more ids not found"}
	}
	return len(ids), nil
}

func listRequirements(tx *gorm.DB, ownerID, kitPartID uint) ([]kits.Requirement, error) {
	out := make([]kits.Requirement, 0)
	err := tx.Scopes(ownedBy(ownerID)).Where("kit_part_id = ?", kitPartID).Order("id ASC").Find(&out).Error
	return out, err
}

func requirementNotFound(id, kitPartID uint) *Error {
	msg := fmt.Sprintf("%s %d not found", requirementResource, id)
	if kitPartID != 0 {
		msg = fmt.Sprintf("%s in kit part %d", msg, kitPartID)
	}
	return &Error{Kind: KindNotFound, Resource: requirementResource, Msg: msg}
}

func itemRunnerIDs(items []kits.RequirementItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.RunnerID)
	}
	return ids
}

func patchRunnerIDs(patches []kits.RequirementPatch) []uint {
	var ids []uint
	for _, p := range patches {
		if p.RunnerID != nil {
			ids = append(ids, *p.RunnerID)
		}
	}
	return ids
}
