package store

import (
	"kit-inventory/internal/domain/kits"

	"gorm.io/gorm"
)

// checkSameKit runs after a row is written inside its transaction and rejects links that
// cross kits: a part filed under another kit's sub assembly, or a requirement cut from
// another kit's runner. Parent ownership has been checked already.
func checkSameKit(tx *gorm.DB, ownerID uint, row any) error {
	switch r := row.(type) {
	case kits.KitPart:
		var n int64
		if err := tx.Model(&kits.SubAssembly{}).Scopes(ownedBy(ownerID)).
			Where("id = ? AND kit_id = ?", r.SubAssemblyID, r.KitID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return invalidf("kit_part", "sub_assembly_id does not reference a sub assembly of kit %d", r.KitID)
		}
	case kits.SubAssembly:
		var n int64
		if err := tx.Model(&kits.KitPart{}).Scopes(ownedBy(ownerID)).
			Where("sub_assembly_id = ? AND kit_id <> ?", r.ID, r.KitID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return invalidf("sub_assembly", "kit_id conflicts with %d kit parts filed under this sub assembly", n)
		}
	case kits.Runner:
		return requirementsOnOneKit(tx, ownerID, invalidf("runner", "kit_id conflicts with requirements that use this runner"), "r.runner_id = ?", r.ID)
	case kits.Requirement:
		return requirementsOnOneKit(tx, ownerID, errCrossKitRunner(), "r.id = ?", r.ID)
	}
	return nil
}

// requirementsOnOneKit fails when any selected requirement joins a kit part and a runner
// of different kits.
func requirementsOnOneKit(tx *gorm.DB, ownerID uint, mismatch *Error, cond string, args ...any) error {
	var n int64
	err := tx.Table("kit_part_requirements AS r").
		Joins("JOIN kit_parts AS p ON p.id = r.kit_part_id").
		Joins("JOIN runners AS ru ON ru.id = r.runner_id").
		Where("r.user_id = ? AND p.kit_id <> ru.kit_id", ownerID).
		Where(cond, args...).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return mismatch
	}
	return nil
}

func errCrossKitRunner() *Error {
	return invalidf(requirementResource, "runner_id must reference a runner of the kit part's kit")
}
