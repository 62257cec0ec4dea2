package entity

// EffectKind tags the effect of a sales event: a percentage evolution or an
// absolute quantity delta, never both.
type EffectKind int

const (
	EffectEvolution EffectKind = iota + 1
	EffectQuantity
)

// EventEffect is the validated effect of a sales event. It is serialized as
// two nullable columns (Evolution / Qte_en_plus), only one of which is set.
type EventEffect struct {
	Kind  EffectKind
	Value float64
}

// Evolution returns the percentage column value, nil for quantity effects.
func (e EventEffect) Evolution() *float64 {
	if e.Kind != EffectEvolution {
		return nil
	}
	v := e.Value
	return &v
}

// QteEnPlus returns the quantity-delta column value, nil for evolution
// effects.
func (e EventEffect) QteEnPlus() *int64 {
	if e.Kind != EffectQuantity {
		return nil
	}
	v := int64(e.Value)
	return &v
}

// TypeFluxTous is the default flow-type qualifier.
const TypeFluxTous = "Tous"

// VenteRef is an exceptional-sales event targeting a single product
// reference.
type VenteRef struct {
	ID               int64    `json:"IDEvenementRef"`
	Reference        string   `json:"Reference"`
	Evolution        *float64 `json:"Evolution"`
	QteEnPlus        *int64   `json:"Qte_en_plus"`
	LignesPrepEnPlus int64    `json:"LignesPrepEnPlus"`
	DateDu           string   `json:"DateDu"`
	DateAu           string   `json:"DateAu"`
	TypeFlux         string   `json:"TypeFlux"`
}

// VenteFournisseur is an exceptional-sales event covering every reference
// of one supplier.
type VenteFournisseur struct {
	ID             int64    `json:"IDEvenementFournisseur"`
	NFournisseur   string   `json:"NFournisseur"`
	NomFournisseur string   `json:"NomFournisseur"`
	Evolution      *float64 `json:"Evolution"`
	DateDu         string   `json:"DateDu"`
	DateAu         string   `json:"DateAu"`
	TypeFlux       string   `json:"TypeFlux"`
}

// VenteFamille is an exceptional-sales event covering a product family
// triple.
type VenteFamille struct {
	ID                int64    `json:"IDEvenementFamilleProduit"`
	FamilleDeProduit1 string   `json:"FamilleDeProduit1"`
	FamilleDeProduit2 string   `json:"FamilleDeProduit2"`
	FamilleDeProduit3 string   `json:"FamilleDeProduit3"`
	Evolution         *float64 `json:"Evolution"`
	DateDu            string   `json:"DateDu"`
	DateAu            string   `json:"DateAu"`
	TypeFlux          string   `json:"TypeFlux"`
}

// Fournisseur is a supplier as known by the product master.
type Fournisseur struct {
	NFournisseur   string `json:"NFournisseur"`
	NomFournisseur string `json:"NomFournisseur"`
}

// FamilleOptions lists the distinct product family values of the product
// master, per hierarchy level.
type FamilleOptions struct {
	Famille1 []string `json:"famille1"`
	Famille2 []string `json:"famille2"`
	Famille3 []string `json:"famille3"`
}
