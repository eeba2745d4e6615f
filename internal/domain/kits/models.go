package kits

import (
	"time"

	"gorm.io/datatypes"
)

type Kit struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Name         string    `gorm:"not null" json:"name"`
	Grade        Grade     `gorm:"type:varchar(8);not null" json:"grade"`
	Manufacturer *string   `json:"manufacturer"`
	Status       Status    `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SubAssembly struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	KitID  uint   `gorm:"not null;index" json:"kit_id"`
	Kit    *Kit   `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KitPart is one numbered part of a kit. SubAssembly is only filled by projections.
type KitPart struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	Code          *string      `json:"code"`
	IsCut         bool         `gorm:"not null" json:"is_cut"`
	KitID         uint         `gorm:"not null;index" json:"kit_id"`
	Kit           *Kit         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SubAssemblyID uint         `gorm:"not null;index" json:"sub_assembly_id"`
	SubAssembly   *SubAssembly `gorm:"constraint:OnDelete:CASCADE" json:"sub_assembly,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Color struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;uniqueIndex:idx_colors_user_code" json:"user_id"`
	Name    string `gorm:"not null" json:"name"`
	Code    string `gorm:"not null;uniqueIndex:idx_colors_user_code" json:"code"`
	Hex     string `gorm:"not null" json:"hex"`
	IsClear bool   `gorm:"not null" json:"is_clear"`
	IsMulti bool   `gorm:"not null" json:"is_multi"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Runner is a plastic frame of a kit, molded in one color. A color still used by a
// runner cannot be deleted.
type Runner struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Name    string `gorm:"not null" json:"name"`
	KitID   uint   `gorm:"not null;index" json:"kit_id"`
	Kit     *Kit   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ColorID uint   `gorm:"not null;index" json:"color_id"`
	Color   *Color `gorm:"constraint:OnDelete:RESTRICT" json:"color,omitempty"`
	Amount  int    `gorm:"not null" json:"amount"`
	IsUsed  bool   `gorm:"not null" json:"is_used"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Requirement maps a kit part to the runner gates it is cut from. Gate order is kept.
type Requirement struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    uint                        `gorm:"not null;index" json:"user_id"`
	Gate      datatypes.JSONSlice[string] `gorm:"not null" json:"gate"`
	Qty       int                         `gorm:"not null" json:"qty"`
	IsCut     bool                        `gorm:"not null" json:"is_cut"`
	KitPartID uint                        `gorm:"not null;index" json:"kit_part_id"`
	KitPart   *KitPart                    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RunnerID  uint                        `gorm:"not null;index" json:"runner_id"`
	Runner    *Runner                     `gorm:"constraint:OnDelete:CASCADE" json:"runner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Requirement) TableName() string { return "kit_part_requirements" }

// KitWithRunners is a kit together with the caller's runners of that kit.
type KitWithRunners struct {
	Kit
	Runners []Runner `json:"runners"`
}

type KitPartWithRequirements struct {
	KitPart
	Requirements []Requirement `json:"requirements"`
}
