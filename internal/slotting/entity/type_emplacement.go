package entity

// TypeEmplacement is the hierarchical location type triple kept in
// TblTypeEmpla123. Type1 is mandatory; the triple is unique.
type TypeEmplacement struct {
	Type1 string `json:"Type1"`
	Type2 string `json:"Type2"`
	Type3 string `json:"Type3"`
}

// TypeHierarchy maps Type1 → Type2 → Type3 values for the cascading
// selectors of the location detail screen.
type TypeHierarchy map[string]map[string][]string
