package kits

import (
	"database/sql/driver"
	"fmt"
)

type Grade string

const (
	GradeEG    Grade = "EG"
	GradeHG    Grade = "HG"
	GradeRG    Grade = "RG"
	GradeMG    Grade = "MG"
	GradeMGSD  Grade = "MGSD"
	GradePG    Grade = "PG"
	GradeOther Grade = "OTHER"
)

// stored column value per grade, and back
var (
	gradeColumns = map[Grade]string{
		GradeEG:    "EG",
		GradeHG:    "HG",
		GradeRG:    "RG",
		GradeMG:    "MG",
		GradeMGSD:  "MGSD",
		GradePG:    "PG",
		GradeOther: "OTHER",
	}
	gradesByColumn = invert(gradeColumns)
)

func (g Grade) Valid() bool {
	_, ok := gradeColumns[g]
	return ok
}

func (g Grade) Value() (driver.Value, error) {
	col, ok := gradeColumns[g]
	if !ok {
		return nil, fmt.Errorf("kits: invalid grade %q", string(g))
	}
	return col, nil
}

func (g *Grade) Scan(src any) error {
	s, err := columnString(src)
	if err != nil {
		return fmt.Errorf("kits: scan grade: %w", err)
	}
	v, ok := gradesByColumn[s]
	if !ok {
		return fmt.Errorf("kits: unknown stored grade %q", s)
	}
	*g = v
	return nil
}

// Status is the build progress of a kit. Any status may follow any other.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

var (
	statusColumns = map[Status]string{
		StatusPending:    "PENDING",
		StatusInProgress: "IN_PROGRESS",
		StatusDone:       "DONE",
	}
	statusesByColumn = invert(statusColumns)
)

func (s Status) Valid() bool {
	_, ok := statusColumns[s]
	return ok
}

func (s Status) Value() (driver.Value, error) {
	col, ok := statusColumns[s]
	if !ok {
		return nil, fmt.Errorf("kits: invalid status %q", string(s))
	}
	return col, nil
}

func (s *Status) Scan(src any) error {
	str, err := columnString(src)
	if err != nil {
		return fmt.Errorf("kits: scan status: %w", err)
	}
	v, ok := statusesByColumn[str]
	if !ok {
		return fmt.Errorf("kits: unknown stored status %q", str)
	}
	*s = v
	return nil
}

func columnString(src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported column type %T", src)
	}
}

func invert[K ~string](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
