package entity

import "cloud.google.com/go/bigquery"

// DetailFilter narrows the location-detail grid. Zero values mean "no
// filter" except the range bounds, which are pointers so 0 stays a valid
// bound.
type DetailFilter struct {
	Zone            string
	Allee           *int
	DeplacementFrom *int
	DeplacementTo   *int
	NiveauFrom      *int
	NiveauTo        *int
	Type1           string
	Type2           string
	Type3           string
	Search          string
}

// EmplacementChange is one batch-update entry for the warehouse location
// master. Null fields never overwrite the stored value; the whole batch is
// applied by a single statement through an ARRAY<STRUCT> query parameter.
type EmplacementChange struct {
	Zone                string                `bigquery:"Zone"`
	Allee               int64                 `bigquery:"Allee"`
	Deplacement         int64                 `bigquery:"Deplacement"`
	Niveau              int64                 `bigquery:"Niveau"`
	X                   bigquery.NullFloat64  `bigquery:"X"`
	Y                   bigquery.NullFloat64  `bigquery:"Y"`
	Z                   bigquery.NullFloat64  `bigquery:"Z"`
	PoidsLimiteUnitaire bigquery.NullFloat64  `bigquery:"PoidsLimiteUnitaire"`
	Type1               bigquery.NullString   `bigquery:"Type1"`
	Type2               bigquery.NullString   `bigquery:"Type2"`
	Type3               bigquery.NullString   `bigquery:"Type3"`
	Palette             bigquery.NullBool     `bigquery:"Palette"`
}
