package entity

import "time"

// Import outcomes recorded in TblHistoriqueImport. The pending value is the
// marker the background reconciler resolves to success or error; rows are
// matched on NomFichier + ResultatPending.
const (
	ResultatSucces  = "Succès"
	ResultatErreur  = "Erreur"
	ResultatPending = "En cours (thread)"
)

// ImportHistory is one row of the warehouse import log. Rows are appended,
// then possibly resolved by the background merge; never deleted.
type ImportHistory struct {
	NomTable     string    `json:"NomTable"`
	DateHeure    time.Time `json:"DateHeure"`
	Utilisateur  string    `json:"Utilisateur"`
	Resultat     string    `json:"Resultat"`
	DetailErreur *string   `json:"DetailErreur"`
	NombreLignes *int64    `json:"NombreLignes"`
	NomFichier   string    `json:"NomFichier"`
}
