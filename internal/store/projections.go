package store

import (
	"context"

	"kit-inventory/internal/domain/kits"

	"gorm.io/gorm"
)

// Joined reads. Every joined table carries the owner filter; a child row of another
// owner is left out, and the parent must resolve for the caller or the read is NotFound.

func (s *Store) KitWithRunners(ctx context.Context, ownerID, kitID uint) (kits.KitWithRunners, error) {
	var out kits.KitWithRunners
	err := s.run(ctx, "kit", func(db *gorm.DB) error {
		if err := db.Scopes(ownedBy(ownerID)).First(&out.Kit, kitID).Error; err != nil {
			return err
		}
		out.Runners = make([]kits.Runner, 0)
		return db.Scopes(ownedBy(ownerID)).Where("kit_id = ?", kitID).Order("id ASC").Find(&out.Runners).Error
	})
	return out, err
}

func (s *Store) KitPartWithRequirements(ctx context.Context, ownerID, kitPartID uint) (kits.KitPartWithRequirements, error) {
	var out kits.KitPartWithRequirements
	err := s.run(ctx, "kit_part", func(db *gorm.DB) error {
		if err := db.Scopes(ownedBy(ownerID)).First(&out.KitPart, kitPartID).Error; err != nil {
			return err
		}
		out.Requirements = make([]kits.Requirement, 0)
		return db.Scopes(ownedBy(ownerID)).Where("kit_part_id = ?", kitPartID).Order("id ASC").Find(&out.Requirements).Error
	})
	return out, err
}

// KitPartsWithSubAssembly lists the parts of a kit, each with its sub assembly.
func (s *Store) KitPartsWithSubAssembly(ctx context.Context, ownerID, kitID uint) ([]kits.KitPart, error) {
	out := make([]kits.KitPart, 0)
	err := s.run(ctx, "kit", func(db *gorm.DB) error {
		if err := requireOwned(db, ownerID, &kits.Kit{}, kitID); err != nil {
			return err
		}
		return db.Scopes(ownedBy(ownerID)).
			Preload("SubAssembly", ownedBy(ownerID)).
			Where("kit_id = ?", kitID).
			Order("id ASC").
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RequirementsWithRunner lists the requirements of a kit part, each with its runner.
func (s *Store) RequirementsWithRunner(ctx context.Context, ownerID, kitPartID uint) ([]kits.Requirement, error) {
	out := make([]kits.Requirement, 0)
	err := s.run(ctx, "kit_part", func(db *gorm.DB) error {
		if err := requireOwned(db, ownerID, &kits.KitPart{}, kitPartID); err != nil {
			return err
		}
		return db.Scopes(ownedBy(ownerID)).
			Preload("Runner", ownedBy(ownerID)).
			Where("kit_part_id = ?", kitPartID).
			Order("id ASC").
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunnersWithColor lists the runners of a kit, each with its color.
func (s *Store) RunnersWithColor(ctx context.Context, ownerID, kitID uint) ([]kits.Runner, error) {
	out := make([]kits.Runner, 0)
	err := s.run(ctx, "kit", func(db *gorm.DB) error {
		if err := requireOwned(db, ownerID, &kits.Kit{}, kitID); err != nil {
			return err
		}
		return db.Scopes(ownedBy(ownerID)).
			Preload("Color", ownedBy(ownerID)).
			Where("kit_id = ?", kitID).
			Order("id ASC").
			Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func requireOwned(db *gorm.DB, ownerID uint, model any, id uint) error {
	var n int64
	if err := db.Model(model).Scopes(ownedBy(ownerID)).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
