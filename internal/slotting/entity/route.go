package entity

// Secondary route kinds and side tags.
const (
	RouteParallele       = "parallele"
	RoutePerpendiculaire = "perpendiculaire"

	CotePair   = "pair"
	CoteImpair = "impair"

	SensCroissant = "croissant"
)

// RouteSimple is a manually created primary route between two locations.
type RouteSimple struct {
	IdRoute        string   `json:"IdRoute" gorm:"column:idroute;primaryKey;size:8"`
	NomRoute       string   `json:"NomRoute" gorm:"column:nomroute;size:100;not null"`
	ZoneDepart     *string  `json:"ZoneDepart" gorm:"column:zonedepart;size:10"`
	ZoneArrivee    *string  `json:"ZoneArrivee" gorm:"column:zonearrivee;size:10"`
	AlleeGauche    *int     `json:"AlleeGauche" gorm:"column:alleegauche"`
	AlleeDroite    *int     `json:"AlleeDroite" gorm:"column:alleedroite"`
	DeplacementDeb *int     `json:"DeplacementDeb" gorm:"column:deplacementdeb"`
	NiveauDeb      *int     `json:"NiveauDeb" gorm:"column:niveaudeb"`
	DeplacementFin *int     `json:"DeplacementFin" gorm:"column:deplacementfin"`
	NiveauFin      *int     `json:"NiveauFin" gorm:"column:niveaufin"`
	XDeb           *float64 `json:"XDeb" gorm:"column:xdeb"`
	YDeb           *float64 `json:"YDeb" gorm:"column:ydeb"`
	ZDeb           *float64 `json:"ZDeb" gorm:"column:zdeb"`
	XFin           *float64 `json:"XFin" gorm:"column:xfin"`
	YFin           *float64 `json:"YFin" gorm:"column:yfin"`
	ZFin           *float64 `json:"ZFin" gorm:"column:zfin"`
	LargeurAllee   *float64 `json:"LargeurAllee" gorm:"column:largeurallee"`
	TypeEngin      *string  `json:"TypeEngin" gorm:"column:typeengin;size:50"`
	SensUnique     bool     `json:"SensUnique" gorm:"column:sensunique"`
	SensDirection  *string  `json:"SensDirection" gorm:"column:sensdirection;size:20"`
}

func (RouteSimple) TableName() string {
	return "tblroutesimple"
}

// Direction returns SensDirection, defaulting to "croissant".
func (r RouteSimple) Direction() string {
	if r.SensDirection == nil || *r.SensDirection == "" {
		return SensCroissant
	}
	return *r.SensDirection
}

// RouteSecondaire is a generated segment owned by a primary route. EmpCible
// is NULL for perpendicular spurs, whose end point is synthetic.
type RouteSecondaire struct {
	IdRouteSecondaire string  `json:"IdRouteSecondaire" gorm:"column:idroutesecondaire;primaryKey;size:10"`
	IdRoutePrincipale string  `json:"IdRoutePrincipale" gorm:"column:idrouteprincipale;size:8;index"`
	TypeRoute         string  `json:"TypeRoute" gorm:"column:typeroute;size:20"`
	Zone              string  `json:"Zone" gorm:"column:zone;size:10"`
	Allee             int     `json:"Allee" gorm:"column:allee"`
	Cote              string  `json:"Cote" gorm:"column:cote;size:10"`
	EmpSource         string  `json:"EmpSource" gorm:"column:empsource;size:20"`
	EmpCible          *string `json:"EmpCible" gorm:"column:empcible;size:20"`
	XDeb              float64 `json:"XDeb" gorm:"column:xdeb"`
	YDeb              float64 `json:"YDeb" gorm:"column:ydeb"`
	ZDeb              float64 `json:"ZDeb" gorm:"column:zdeb"`
	XFin              float64 `json:"XFin" gorm:"column:xfin"`
	YFin              float64 `json:"YFin" gorm:"column:yfin"`
	ZFin              float64 `json:"ZFin" gorm:"column:zfin"`
	Largeur           float64 `json:"Largeur" gorm:"column:largeur"`
	TypeEngin         string  `json:"TypeEngin" gorm:"column:typeengin;size:50"`
	SensUnique        bool    `json:"SensUnique" gorm:"column:sensunique"`
	SensDirection     string  `json:"SensDirection" gorm:"column:sensdirection;size:20"`
}

func (RouteSecondaire) TableName() string {
	return "tblroutesecondaire"
}
