package entity

// CircuitGroup is a named group of picking circuits. The warehouse table
// holds one row per (group, circuit); this is the aggregated view.
type CircuitGroup struct {
	GroupeCircuit            string   `json:"GroupeCircuit"`
	DesignationGroupeCircuit string   `json:"DesignationGroupeCircuit"`
	Circuits                 []string `json:"Circuits"`
}

// CircuitConflict reports a circuit already owned by another group.
type CircuitConflict struct {
	Circuit string `json:"Circuit"`
	Groupe  string `json:"GroupeCircuit"`
}
