package domain

// ParentRef names a row a child points at through one of its id fields. Model is a
// pointer to the parent's zero value, e.g. &kits.Kit{}.
type ParentRef struct {
	Field string
	Noun  string
	Model any
	ID    uint
}
