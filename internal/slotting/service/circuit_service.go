package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
)

// CircuitService manages picking circuit groups: each circuit belongs to
// at most one group.
type CircuitService struct {
	circuits CircuitStore
}

func NewCircuitService(circuits CircuitStore) *CircuitService {
	return &CircuitService{circuits: circuits}
}

func (s *CircuitService) Groups(ctx context.Context) ([]entity.CircuitGroup, error) {
	return s.circuits.Groups(ctx)
}

func (s *CircuitService) AvailableCircuits(ctx context.Context) ([]string, error) {
	return s.circuits.AvailableCircuits(ctx)
}

// SaveGroup creates or rewrites a group. Circuits owned by another group
// make the whole request fail. The returned flag tells whether an
// existing group was updated.
func (s *CircuitService) SaveGroup(ctx context.Context, g entity.CircuitGroup) (bool, error) {
	g.GroupeCircuit = strings.TrimSpace(g.GroupeCircuit)
	g.DesignationGroupeCircuit = strings.TrimSpace(g.DesignationGroupeCircuit)
	if g.GroupeCircuit == "" || len(g.Circuits) == 0 {
		return false, Invalid("nom de groupe et circuits requis")
	}

	existed, err := s.circuits.GroupExists(ctx, g.GroupeCircuit)
	if err != nil {
		return false, err
	}

	conflicts, err := s.circuits.Conflicts(ctx, g.GroupeCircuit, g.Circuits)
	if err != nil {
		return false, err
	}
	if len(conflicts) > 0 {
		parts := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			parts = append(parts, fmt.Sprintf("%s (dans %s)", c.Circuit, c.Groupe))
		}
		return false, Invalid("certains circuits sont déjà attribués : %s", strings.Join(parts, ", "))
	}

	if err := s.circuits.ReplaceGroup(ctx, g); err != nil {
		return false, err
	}
	return existed, nil
}

func (s *CircuitService) DeleteGroup(ctx context.Context, groupe string) error {
	groupe = strings.TrimSpace(groupe)
	if groupe == "" {
		return Invalid("groupe manquant")
	}
	return s.circuits.DeleteGroup(ctx, groupe)
}
