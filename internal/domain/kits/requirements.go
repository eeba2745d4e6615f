package kits

import (
	"errors"
	"fmt"
	"time"

	"kit-inventory/internal/domain"

	"gorm.io/datatypes"
)

// GateList normalizes a gate list for storage. A missing list is stored as [].
func GateList(gate []string) datatypes.JSONSlice[string] {
	if gate == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](gate)
}

func validQty(qty int) error {
	if qty < 1 {
		return errors.New("qty must be at least 1")
	}
	return nil
}

type CreateRequirement struct {
	KitPartID uint     `json:"kit_part_id"`
	RunnerID  uint     `json:"runner_id"`
	Gate      []string `json:"gate"`
	Qty       int      `json:"qty"`
	IsCut     *bool    `json:"is_cut"`
}

func (in CreateRequirement) Validate() error {
	return errors.Join(requiredID("kit_part_id", in.KitPartID), requiredID("runner_id", in.RunnerID), validQty(in.Qty))
}

func (in CreateRequirement) Parents() []domain.ParentRef {
	return []domain.ParentRef{KitPartRef(in.KitPartID), RunnerRef(in.RunnerID)}
}

func (in CreateRequirement) Model(ownerID uint, now time.Time) Requirement {
	return RequirementItem{RunnerID: in.RunnerID, Gate: in.Gate, Qty: in.Qty, IsCut: in.IsCut}.
		Model(ownerID, in.KitPartID, now)
}

// UpdateRequirement is a partial update. A nil Gate leaves the gate untouched, an empty
// one clears it.
type UpdateRequirement struct {
	Gate     []string `json:"gate"`
	Qty      *int     `json:"qty"`
	IsCut    *bool    `json:"is_cut"`
	RunnerID *uint    `json:"runner_id"`
}

func (in UpdateRequirement) Validate() error {
	var qtyErr error
	if in.Qty != nil {
		qtyErr = validQty(*in.Qty)
	}
	return errors.Join(qtyErr, optionalID("runner_id", in.RunnerID))
}

func (in UpdateRequirement) Parents() []domain.ParentRef {
	if in.RunnerID == nil {
		return nil
	}
	return []domain.ParentRef{RunnerRef(*in.RunnerID)}
}

func (in UpdateRequirement) Fields() map[string]any {
	f := map[string]any{}
	if in.Gate != nil {
		f["gate"] = GateList(in.Gate)
	}
	if in.Qty != nil {
		f["qty"] = *in.Qty
	}
	if in.IsCut != nil {
		f["is_cut"] = *in.IsCut
	}
	if in.RunnerID != nil {
		f["runner_id"] = *in.RunnerID
	}
	return f
}

type RequirementFilter struct {
	KitPartID *uint
	RunnerID  *uint
}

func (f RequirementFilter) Conditions() map[string]any {
	c := map[string]any{}
	if f.KitPartID != nil {
		c["kit_part_id"] = *f.KitPartID
	}
	if f.RunnerID != nil {
		c["runner_id"] = *f.RunnerID
	}
	return c
}

// ---- bulk and sync payloads ----

// RequirementItem is a new requirement inside a bulk payload; the kit part comes from
// the payload.
type RequirementItem struct {
	Gate     []string `json:"gate"`
	Qty      int      `json:"qty"`
	IsCut    *bool    `json:"is_cut"`
	RunnerID uint     `json:"runner_id"`
}

func (it RequirementItem) Validate() error {
	return errors.Join(validQty(it.Qty), requiredID("runner_id", it.RunnerID))
}

func (it RequirementItem) Model(ownerID, kitPartID uint, now time.Time) Requirement {
	return Requirement{
		UserID:    ownerID,
		Gate:      GateList(it.Gate),
		Qty:       it.Qty,
		IsCut:     orFalse(it.IsCut),
		KitPartID: kitPartID,
		RunnerID:  it.RunnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type RequirementPatch struct {
	ID uint `json:"id"`
	UpdateRequirement
}

func (p RequirementPatch) Validate() error {
	return errors.Join(requiredID("id", p.ID), p.UpdateRequirement.Validate())
}

// RequirementUpsert is one entry of a compare-sync target list. Items without an id are
// created.
type RequirementUpsert struct {
	ID       *uint    `json:"id"`
	Gate     []string `json:"gate"`
	Qty      int      `json:"qty"`
	IsCut    *bool    `json:"is_cut"`
	RunnerID uint     `json:"runner_id"`
}

func (u RequirementUpsert) Validate() error {
	return errors.Join(optionalID("id", u.ID), validQty(u.Qty), requiredID("runner_id", u.RunnerID))
}

func (u RequirementUpsert) Item() RequirementItem {
	return RequirementItem{Gate: u.Gate, Qty: u.Qty, IsCut: u.IsCut, RunnerID: u.RunnerID}
}

// Fields overwrites gate, qty and runner; is_cut only when given.
func (u RequirementUpsert) Fields() map[string]any {
	f := map[string]any{
		"gate":      GateList(u.Gate),
		"qty":       u.Qty,
		"runner_id": u.RunnerID,
	}
	if u.IsCut != nil {
		f["is_cut"] = *u.IsCut
	}
	return f
}

type BulkCreateRequirements struct {
	KitPartID uint              `json:"kit_part_id"`
	Items     []RequirementItem `json:"items"`
}

func (in BulkCreateRequirements) Validate() error {
	errs := []error{requiredID("kit_part_id", in.KitPartID)}
	for i, it := range in.Items {
		errs = append(errs, itemErr(i, it.Validate()))
	}
	return errors.Join(errs...)
}

type BulkUpdateRequirements struct {
	Items []RequirementPatch `json:"items"`
}

func (in BulkUpdateRequirements) Validate() error {
	var errs []error
	ids := make([]uint, 0, len(in.Items))
	for i, p := range in.Items {
		errs = append(errs, itemErr(i, p.Validate()))
		ids = append(ids, p.ID)
	}
	return errors.Join(append(errs, uniqueIDs("items", ids))...)
}

type SyncRequirements struct {
	KitPartID uint               `json:"kit_part_id"`
	Create    []RequirementItem  `json:"create"`
	Update    []RequirementPatch `json:"update"`
	DeleteIDs []uint             `json:"delete_ids"`
}

// Validate rejects repeated ids, including an id that is both updated and deleted.
func (in SyncRequirements) Validate() error {
	errs := []error{requiredID("kit_part_id", in.KitPartID)}
	for i, it := range in.Create {
		errs = append(errs, prefixed(fmt.Sprintf("create[%d]", i), it.Validate()))
	}
	touched := make([]uint, 0, len(in.Update)+len(in.DeleteIDs))
	for i, p := range in.Update {
		errs = append(errs, prefixed(fmt.Sprintf("update[%d]", i), p.Validate()))
		touched = append(touched, p.ID)
	}
	for _, id := range in.DeleteIDs {
		errs = append(errs, requiredID("delete_ids", id))
	}
	touched = append(touched, in.DeleteIDs...)
	errs = append(errs, uniqueIDs("update and delete_ids", touched))
	return errors.Join(errs...)
}

type CompareSyncRequirements struct {
	KitPartID uint                `json:"kit_part_id"`
	Items     []RequirementUpsert `json:"items"`
}

func (in CompareSyncRequirements) Validate() error {
	errs := []error{requiredID("kit_part_id", in.KitPartID)}
	var ids []uint
	for i, u := range in.Items {
		errs = append(errs, itemErr(i, u.Validate()))
		if u.ID != nil {
			ids = append(ids, *u.ID)
		}
	}
	errs = append(errs, uniqueIDs("items", ids))
	return errors.Join(errs...)
}

type BulkDeleteRequirements struct {
	IDs []uint `json:"ids"`
}

func (in BulkDeleteRequirements) Validate() error {
	var errs []error
	for _, id := range in.IDs {
		errs = append(errs, requiredID("ids", id))
	}
	return errors.Join(append(errs, uniqueIDs("ids", in.IDs))...)
}

// SyncResult is the full requirement set of the kit part after a reconciliation, ordered
// by id, with the number of rows each step touched.
type SyncResult struct {
	Items   []Requirement `json:"items"`
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Deleted int           `json:"deleted"`
}

func itemErr(i int, err error) error {
	return prefixed(fmt.Sprintf("items[%d]", i), err)
}

func prefixed(prefix string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

func uniqueIDs(field string, ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s: id %d appears more than once", field, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
