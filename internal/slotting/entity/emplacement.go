package entity

import "fmt"

// Emplacement is the routing copy of the location grid kept in PostgreSQL.
// The analytical master of the same table lives in the warehouse and is
// maintained by the import merge.
type Emplacement struct {
	Zone        string  `json:"Zone" gorm:"column:zone;primaryKey;size:10"`
	Allee       int     `json:"Allee" gorm:"column:allee;primaryKey"`
	Deplacement int     `json:"Deplacement" gorm:"column:deplacement;primaryKey"`
	Niveau      int     `json:"Niveau" gorm:"column:niveau;primaryKey"`
	X           float64 `json:"X" gorm:"column:x"`
	Y           float64 `json:"Y" gorm:"column:y"`
	Z           float64 `json:"Z" gorm:"column:z"`
}

func (Emplacement) TableName() string {
	return "tblemplacement"
}

// Label renders the Z-AAA-DDDD-NN form used by the route screens.
func (e Emplacement) Label() string {
	return fmt.Sprintf("%s-%03d-%04d-%02d", e.Zone, e.Allee, e.Deplacement, e.Niveau)
}

// Engin is a vehicle type usable on a route.
type Engin struct {
	TypeEngin  string  `json:"TypeEngin" gorm:"column:typeengin;primaryKey;size:50"`
	VitesseKmH float64 `json:"VitesseKmH" gorm:"column:vitessekmh"`
}

func (Engin) TableName() string {
	return "tblengin"
}
