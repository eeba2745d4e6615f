package kits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kit-inventory/internal/domain"
)

func KitRef(id uint) domain.ParentRef {
	return domain.ParentRef{Field: "kit_id", Noun: "kit", Model: &Kit{}, ID: id}
}

func SubAssemblyRef(id uint) domain.ParentRef {
	return domain.ParentRef{Field: "sub_assembly_id", Noun: "sub assembly", Model: &SubAssembly{}, ID: id}
}

func KitPartRef(id uint) domain.ParentRef {
	return domain.ParentRef{Field: "kit_part_id", Noun: "kit part", Model: &KitPart{}, ID: id}
}

func RunnerRef(id uint) domain.ParentRef {
	return domain.ParentRef{Field: "runner_id", Noun: "runner", Model: &Runner{}, ID: id}
}

func ColorRef(id uint) domain.ParentRef {
	return domain.ParentRef{Field: "color_id", Noun: "color", Model: &Color{}, ID: id}
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func notBlank(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	return nil
}

func requiredID(field string, id uint) error {
	if id == 0 {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func optionalID(field string, id *uint) error {
	if id != nil && *id == 0 {
		return fmt.Errorf("%s must not be zero", field)
	}
	return nil
}

func orFalse(b *bool) bool {
	return b != nil && *b
}

// ---- kits ----

type CreateKit struct {
	Name         string  `json:"name"`
	Grade        Grade   `json:"grade"`
	Manufacturer *string `json:"manufacturer"`
}

func (in CreateKit) Validate() error {
	if !in.Grade.Valid() {
		return fmt.Errorf("grade %q is not one of EG, HG, RG, MG, MGSD, PG, OTHER", string(in.Grade))
	}
	return required("name", in.Name)
}

func (in CreateKit) Parents() []domain.ParentRef { return nil }

// Model builds the new row. A kit always starts PENDING.
func (in CreateKit) Model(ownerID uint, now time.Time) Kit {
	return Kit{
		UserID:       ownerID,
		Name:         in.Name,
		Grade:        in.Grade,
		Manufacturer: in.Manufacturer,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type UpdateKit struct {
	Name         *string `json:"name"`
	Grade        *Grade  `json:"grade"`
	Manufacturer *string `json:"manufacturer"`
}

func (in UpdateKit) Validate() error {
	if in.Grade != nil && !in.Grade.Valid() {
		return fmt.Errorf("grade %q is not one of EG, HG, RG, MG, MGSD, PG, OTHER", string(*in.Grade))
	}
	return notBlank("name", in.Name)
}

func (in UpdateKit) Parents() []domain.ParentRef { return nil }

func (in UpdateKit) Fields() map[string]any {
	f := map[string]any{}
	if in.Name != nil {
		f["name"] = *in.Name
	}
	if in.Grade != nil {
		f["grade"] = *in.Grade
	}
	if in.Manufacturer != nil {
		f["manufacturer"] = *in.Manufacturer
	}
	return f
}

type KitFilter struct {
	Status *Status
}

func (f KitFilter) Conditions() map[string]any {
	if f.Status == nil {
		return nil
	}
	return map[string]any{"status": *f.Status}
}

// ---- sub assemblies ----

type CreateSubAssembly struct {
	Name  string `json:"name"`
	KitID uint   `json:"kit_id"`
}

func (in CreateSubAssembly) Validate() error {
	return errors.Join(required("name", in.Name), requiredID("kit_id", in.KitID))
}

func (in CreateSubAssembly) Parents() []domain.ParentRef {
	return []domain.ParentRef{KitRef(in.KitID)}
}

func (in CreateSubAssembly) Model(ownerID uint, now time.Time) SubAssembly {
	return SubAssembly{UserID: ownerID, Name: in.Name, KitID: in.KitID, CreatedAt: now, UpdatedAt: now}
}

type UpdateSubAssembly struct {
	Name  *string `json:"name"`
	KitID *uint   `json:"kit_id"`
}

func (in UpdateSubAssembly) Validate() error {
	return errors.Join(notBlank("name", in.Name), optionalID("kit_id", in.KitID))
}

func (in UpdateSubAssembly) Parents() []domain.ParentRef {
	if in.KitID == nil {
		return nil
	}
	return []domain.ParentRef{KitRef(*in.KitID)}
}

func (in UpdateSubAssembly) Fields() map[string]any {
	f := map[string]any{}
	if in.Name != nil {
		f["name"] = *in.Name
	}
	if in.KitID != nil {
		f["kit_id"] = *in.KitID
	}
	return f
}

type SubAssemblyFilter struct {
	KitID *uint
}

func (f SubAssemblyFilter) Conditions() map[string]any {
	if f.KitID == nil {
		return nil
	}
	return map[string]any{"kit_id": *f.KitID}
}

// ---- kit parts ----

type CreateKitPart struct {
	Code          *string `json:"code"`
	IsCut         *bool   `json:"is_cut"`
	KitID         uint    `json:"kit_id"`
	SubAssemblyID uint    `json:"sub_assembly_id"`
}

func (in CreateKitPart) Validate() error {
	return errors.Join(requiredID("kit_id", in.KitID), requiredID("sub_assembly_id", in.SubAssemblyID))
}

func (in CreateKitPart) Parents() []domain.ParentRef {
	return []domain.ParentRef{KitRef(in.KitID), SubAssemblyRef(in.SubAssemblyID)}
}

func (in CreateKitPart) Model(ownerID uint, now time.Time) KitPart {
	return KitPart{
		UserID:        ownerID,
		Code:          in.Code,
		IsCut:         orFalse(in.IsCut),
		KitID:         in.KitID,
		SubAssemblyID: in.SubAssemblyID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type UpdateKitPart struct {
	Code          *string `json:"code"`
	IsCut         *bool   `json:"is_cut"`
	SubAssemblyID *uint   `json:"sub_assembly_id"`
}

func (in UpdateKitPart) Validate() error {
	return optionalID("sub_assembly_id", in.SubAssemblyID)
}

func (in UpdateKitPart) Parents() []domain.ParentRef {
	if in.SubAssemblyID == nil {
		return nil
	}
	return []domain.ParentRef{SubAssemblyRef(*in.SubAssemblyID)}
}

func (in UpdateKitPart) Fields() map[string]any {
	f := map[string]any{}
	if in.Code != nil {
		f["code"] = *in.Code
	}
	if in.IsCut != nil {
		f["is_cut"] = *in.IsCut
	}
	if in.SubAssemblyID != nil {
		f["sub_assembly_id"] = *in.SubAssemblyID
	}
	return f
}

type KitPartFilter struct {
	KitID         *uint
	SubAssemblyID *uint
}

func (f KitPartFilter) Conditions() map[string]any {
	c := map[string]any{}
	if f.KitID != nil {
		c["kit_id"] = *f.KitID
	}
	if f.SubAssemblyID != nil {
		c["sub_assembly_id"] = *f.SubAssemblyID
	}
	return c
}

// ---- colors ----

type CreateColor struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Hex     string `json:"hex"`
	IsClear *bool  `json:"is_clear"`
	IsMulti *bool  `json:"is_multi"`
}

func (in CreateColor) Validate() error {
	return errors.Join(required("name", in.Name), required("code", in.Code), required("hex", in.Hex))
}

func (in CreateColor) Parents() []domain.ParentRef { return nil }

func (in CreateColor) Model(ownerID uint, now time.Time) Color {
	return Color{
		UserID:    ownerID,
		Name:      in.Name,
		Code:      in.Code,
		Hex:       in.Hex,
		IsClear:   orFalse(in.IsClear),
		IsMulti:   orFalse(in.IsMulti),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type UpdateColor struct {
	Name    *string `json:"name"`
	Code    *string `json:"code"`
	Hex     *string `json:"hex"`
	IsClear *bool   `json:"is_clear"`
	IsMulti *bool   `json:"is_multi"`
}

func (in UpdateColor) Validate() error {
	return errors.Join(notBlank("name", in.Name), notBlank("code", in.Code), notBlank("hex", in.Hex))
}

func (in UpdateColor) Parents() []domain.ParentRef { return nil }

func (in UpdateColor) Fields() map[string]any {
	f := map[string]any{}
	if in.Name != nil {
		f["name"] = *in.Name
	}
	if in.Code != nil {
		f["code"] = *in.Code
	}
	if in.Hex != nil {
		f["hex"] = *in.Hex
	}
	if in.IsClear != nil {
		f["is_clear"] = *in.IsClear
	}
	if in.IsMulti != nil {
		f["is_multi"] = *in.IsMulti
	}
	return f
}

// ---- runners ----

type CreateRunner struct {
	Name    string `json:"name"`
	KitID   uint   `json:"kit_id"`
	ColorID uint   `json:"color_id"`
	Amount  int    `json:"amount"`
}

func (in CreateRunner) Validate() error {
	var amountErr error
	if in.Amount < 1 {
		amountErr = errors.New("amount must be at least 1")
	}
	return errors.Join(required("name", in.Name), requiredID("kit_id", in.KitID), requiredID("color_id", in.ColorID), amountErr)
}

func (in CreateRunner) Parents() []domain.ParentRef {
	return []domain.ParentRef{KitRef(in.KitID), ColorRef(in.ColorID)}
}

func (in CreateRunner) Model(ownerID uint, now time.Time) Runner {
	return Runner{
		UserID:    ownerID,
		Name:      in.Name,
		KitID:     in.KitID,
		ColorID:   in.ColorID,
		Amount:    in.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

type UpdateRunner struct {
	Name    *string `json:"name"`
	KitID   *uint   `json:"kit_id"`
	ColorID *uint   `json:"color_id"`
	Amount  *int    `json:"amount"`
}

func (in UpdateRunner) Validate() error {
	var amountErr error
	if in.Amount != nil && *in.Amount < 1 {
		amountErr = errors.New("amount must be at least 1")
	}
	return errors.Join(notBlank("name", in.Name), optionalID("kit_id", in.KitID), optionalID("color_id", in.ColorID), amountErr)
}

func (in UpdateRunner) Parents() []domain.ParentRef {
	var refs []domain.ParentRef
	if in.KitID != nil {
		refs = append(refs, KitRef(*in.KitID))
	}
	if in.ColorID != nil {
		refs = append(refs, ColorRef(*in.ColorID))
	}
	return refs
}

func (in UpdateRunner) Fields() map[string]any {
	f := map[string]any{}
	if in.Name != nil {
		f["name"] = *in.Name
	}
	if in.KitID != nil {
		f["kit_id"] = *in.KitID
	}
	if in.ColorID != nil {
		f["color_id"] = *in.ColorID
	}
	if in.Amount != nil {
		f["amount"] = *in.Amount
	}
	return f
}

type RunnerFilter struct {
	KitID   *uint
	ColorID *uint
}

func (f RunnerFilter) Conditions() map[string]any {
	c := map[string]any{}
	if f.KitID != nil {
		c["kit_id"] = *f.KitID
	}
	if f.ColorID != nil {
		c["color_id"] = *f.ColorID
	}
	return c
}
