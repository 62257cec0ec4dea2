package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// routeUpdateColumns maps the JSON field names accepted by route updates
// onto their columns. Anything outside this list is silently dropped.
var routeUpdateColumns = map[string]string{
	"NomRoute":       "nomroute",
	"ZoneDepart":     "zonedepart",
	"ZoneArrivee":    "zonearrivee",
	"AlleeGauche":    "alleegauche",
	"AlleeDroite":    "alleedroite",
	"DeplacementDeb": "deplacementdeb",
	"NiveauDeb":      "niveaudeb",
	"DeplacementFin": "deplacementfin",
	"NiveauFin":      "niveaufin",
	"XDeb":           "xdeb",
	"YDeb":           "ydeb",
	"ZDeb":           "zdeb",
	"XFin":           "xfin",
	"YFin":           "yfin",
	"ZFin":           "zfin",
	"LargeurAllee":   "largeurallee",
	"TypeEngin":      "typeengin",
	"SensUnique":     "sensunique",
	"SensDirection":  "sensdirection",
}

// LocationOption is one selectable location of the route screens.
type LocationOption struct {
	Zone        string  `json:"Zone"`
	Allee       int     `json:"Allee"`
	Deplacement int     `json:"Deplacement"`
	Niveau      int     `json:"Niveau"`
	X           float64 `json:"X"`
	Y           float64 `json:"Y"`
	Z           float64 `json:"Z"`
	Label       string  `json:"label"`
}

// RouteLists feeds the route-editor selects.
type RouteLists struct {
	Zones        []string         `json:"zones"`
	Allees       []int            `json:"allees"`
	Emplacements []LocationOption `json:"emplacements"`
	Engins       []entity.Engin   `json:"engins"`
}

// CreateRouteInput is the payload of a new primary route. EmpDeb and
// EmpFin are location labels; coordinates are optional overrides.
type CreateRouteInput struct {
	NomRoute      string   `json:"NomRoute"`
	EmpDeb        string   `json:"EmpDeb"`
	EmpFin        string   `json:"EmpFin"`
	XDeb          *float64 `json:"XDeb"`
	YDeb          *float64 `json:"YDeb"`
	ZDeb          *float64 `json:"ZDeb"`
	XFin          *float64 `json:"XFin"`
	YFin          *float64 `json:"YFin"`
	ZFin          *float64 `json:"ZFin"`
	LargeurAllee  *float64 `json:"LargeurAllee"`
	TypeEngin     *string  `json:"TypeEngin"`
	SensUnique    bool     `json:"SensUnique"`
	SensDirection *string  `json:"SensDirection"`
}

// RouteService manages primary routes and the generated secondary segment
// network.
type RouteService struct {
	routes *repository.RouteRepository
	emps   *repository.EmplacementRepository
	engins *repository.EnginRepository
	logger *zap.Logger
}

func NewRouteService(routes *repository.RouteRepository, emps *repository.EmplacementRepository, engins *repository.EnginRepository, logger *zap.Logger) *RouteService {
	return &RouteService{routes: routes, emps: emps, engins: engins, logger: logger}
}

// Lists collects the zones, aisles, locations and vehicle types of the
// route editor.
func (s *RouteService) Lists(ctx context.Context) (*RouteLists, error) {
	emps, err := s.emps.ListForRouting(ctx)
	if err != nil {
		return nil, fmt.Errorf("emplacements: %w", err)
	}
	engins, err := s.engins.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("engins: %w", err)
	}

	lists := &RouteLists{
		Emplacements: make([]LocationOption, 0, len(emps)),
		Engins:       engins,
	}
	zoneSet := map[string]bool{}
	alleeSet := map[int]bool{}
	for _, e := range emps {
		lists.Emplacements = append(lists.Emplacements, LocationOption{
			Zone:        e.Zone,
			Allee:       e.Allee,
			Deplacement: e.Deplacement,
			Niveau:      e.Niveau,
			X:           e.X,
			Y:           e.Y,
			Z:           e.Z,
			Label:       e.Label(),
		})
		zoneSet[e.Zone] = true
		alleeSet[e.Allee] = true
	}
	for z := range zoneSet {
		lists.Zones = append(lists.Zones, z)
	}
	sort.Strings(lists.Zones)
	for a := range alleeSet {
		lists.Allees = append(lists.Allees, a)
	}
	sort.Ints(lists.Allees)
	return lists, nil
}

func (s *RouteService) ListRoutes(ctx context.Context) ([]entity.RouteSimple, error) {
	return s.routes.List(ctx)
}

// CreateRoute persists the primary route, then generates its secondary
// segments. Generation failure is logged but never rolls back the route.
func (s *RouteService) CreateRoute(ctx context.Context, input *CreateRouteInput) (*entity.RouteSimple, error) {
	if input.NomRoute == "" {
		return nil, Invalid("NomRoute manquant")
	}

	empDeb, err := parseLocationLabel(input.EmpDeb)
	if err != nil {
		return nil, err
	}
	empFin, err := parseLocationLabel(input.EmpFin)
	if err != nil {
		return nil, err
	}

	route := &entity.RouteSimple{
		IdRoute:       uuid.New().String()[:8],
		NomRoute:      input.NomRoute,
		XDeb:          input.XDeb,
		YDeb:          input.YDeb,
		ZDeb:          input.ZDeb,
		XFin:          input.XFin,
		YFin:          input.YFin,
		ZFin:          input.ZFin,
		LargeurAllee:  input.LargeurAllee,
		TypeEngin:     input.TypeEngin,
		SensUnique:    input.SensUnique,
		SensDirection: input.SensDirection,
	}
	if empDeb != nil {
		route.ZoneDepart = &empDeb.Zone
		route.AlleeGauche = &empDeb.Allee
		route.DeplacementDeb = &empDeb.Deplacement
		route.NiveauDeb = &empDeb.Niveau
	}
	if empFin != nil {
		route.ZoneArrivee = &empFin.Zone
		route.AlleeDroite = &empFin.Allee
		route.DeplacementFin = &empFin.Deplacement
		route.NiveauFin = &empFin.Niveau
	}

	if err := s.routes.Create(ctx, route); err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	if empDeb != nil && empFin != nil {
		if err := s.generateSecondaries(ctx, route, empDeb.Zone, empFin.Zone); err != nil {
			s.logger.Warn("secondary route generation failed",
				zap.String("idroute", route.IdRoute), zap.Error(err))
		}
	}
	return route, nil
}

func (s *RouteService) generateSecondaries(ctx context.Context, route *entity.RouteSimple, zone1, zone2 string) error {
	emps, err := s.emps.ByZones(ctx, zone1, zone2)
	if err != nil {
		return fmt.Errorf("emplacements: %w", err)
	}
	if len(emps) == 0 {
		s.logger.Warn("no locations in route zones",
			zap.String("zone1", zone1), zap.String("zone2", zone2))
		return nil
	}

	largeur := 0.0
	if route.LargeurAllee != nil {
		largeur = *route.LargeurAllee
	}
	typeEngin := ""
	if route.TypeEngin != nil {
		typeEngin = *route.TypeEngin
	}

	secondaries := buildSecondaryRoutes(route.IdRoute, emps, largeur, typeEngin, route.SensUnique, route.Direction())
	if err := s.routes.CreateSecondaires(ctx, secondaries); err != nil {
		return fmt.Errorf("create secondaries: %w", err)
	}
	s.logger.Info("secondary routes generated",
		zap.String("idroute", route.IdRoute), zap.Int("count", len(secondaries)))
	return nil
}

// UpdateRoute applies a partial update restricted to the known columns.
func (s *RouteService) UpdateRoute(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields))
	for name, v := range fields {
		if col, ok := routeUpdateColumns[name]; ok {
			updates[col] = v
		}
	}
	if len(updates) == 0 {
		return Invalid("aucune donnée à mettre à jour")
	}
	return s.routes.UpdateFields(ctx, id, updates)
}

func (s *RouteService) DeleteRoute(ctx context.Context, id string) error {
	return s.routes.Delete(ctx, id)
}

func (s *RouteService) Secondaries(ctx context.Context, idRoute string) ([]entity.RouteSecondaire, error) {
	return s.routes.SecondairesByRoute(ctx, idRoute)
}

// locationKey is a parsed location label.
type locationKey struct {
	Zone        string
	Allee       int
	Deplacement int
	Niveau      int
}

// parseLocationLabel splits a ZONE-AAA-DDDD-NN label. Empty input is
// allowed, routes may be created without endpoints.
func parseLocationLabel(label string) (*locationKey, error) {
	if label == "" {
		return nil, nil
	}
	parts := strings.Split(label, "-")
	if len(parts) != 4 {
		return nil, Invalid("emplacement invalide : %s", label)
	}
	allee, err1 := strconv.Atoi(parts[1])
	deplacement, err2 := strconv.Atoi(parts[2])
	niveau, err3 := strconv.Atoi(parts[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, Invalid("emplacement invalide : %s", label)
	}
	return &locationKey{
		Zone:        parts[0],
		Allee:       allee,
		Deplacement: deplacement,
		Niveau:      niveau,
	}, nil
}

func cote(deplacement int) string {
	if deplacement%2 == 0 {
		return entity.CotePair
	}
	return entity.CoteImpair
}

// buildSecondaryRoutes derives the segment network of a primary route from
// the locations of its two zones. Per (zone, allee, niveau) group, sorted
// by bay: each adjacent pair becomes a parallel segment, and every
// location gets a perpendicular spur reaching half an aisle width into
// the alley.
func buildSecondaryRoutes(idPrincipale string, emps []entity.Emplacement, largeur float64, typeEngin string, sensUnique bool, sensDirection string) []entity.RouteSecondaire {
	type groupKey struct {
		Zone   string
		Allee  int
		Niveau int
	}
	groups := make(map[groupKey][]entity.Emplacement)
	var order []groupKey
	for _, e := range emps {
		k := groupKey{Zone: e.Zone, Allee: e.Allee, Niveau: e.Niveau}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.Zone != b.Zone {
			return a.Zone < b.Zone
		}
		if a.Allee != b.Allee {
			return a.Allee < b.Allee
		}
		return a.Niveau < b.Niveau
	})

	var routes []entity.RouteSecondaire
	for _, k := range order {
		grp := groups[k]
		sort.Slice(grp, func(i, j int) bool { return grp[i].Deplacement < grp[j].Deplacement })

		for i := 0; i < len(grp)-1; i++ {
			e1, e2 := grp[i], grp[i+1]
			cible := e2.Label()
			routes = append(routes, entity.RouteSecondaire{
				IdRouteSecondaire: uuid.New().String()[:10],
				IdRoutePrincipale: idPrincipale,
				TypeRoute:         entity.RouteParallele,
				Zone:              k.Zone,
				Allee:             k.Allee,
				Cote:              cote(e1.Deplacement),
				EmpSource:         e1.Label(),
				EmpCible:          &cible,
				XDeb:              e1.X,
				YDeb:              e1.Y,
				ZDeb:              e1.Z,
				XFin:              e2.X,
				YFin:              e2.Y,
				ZFin:              e2.Z,
				Largeur:           largeur,
				TypeEngin:         typeEngin,
				SensUnique:        sensUnique,
				SensDirection:     sensDirection,
			})
		}

		for _, e := range grp {
			routes = append(routes, entity.RouteSecondaire{
				IdRouteSecondaire: uuid.New().String()[:10],
				IdRoutePrincipale: idPrincipale,
				TypeRoute:         entity.RoutePerpendiculaire,
				Zone:              k.Zone,
				Allee:             k.Allee,
				Cote:              cote(e.Deplacement),
				EmpSource:         e.Label(),
				EmpCible:          nil,
				XDeb:              e.X,
				YDeb:              e.Y,
				ZDeb:              e.Z,
				XFin:              e.X + largeur/2.0,
				YFin:              e.Y,
				ZFin:              e.Z,
				Largeur:           largeur,
				TypeEngin:         typeEngin,
				SensUnique:        sensUnique,
				SensDirection:     sensDirection,
			})
		}
	}
	return routes
}
