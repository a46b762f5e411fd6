package strategy

import "github.com/nstehr/bastion/model"

// Board is what the engine needs to know about the arena. Queries with an
// out-of-bounds cell are a programmer error and may panic.
type Board interface {
	Occupied(c model.Cell) bool
	UnitAt(c model.Cell) (model.StationaryUnit, bool)
	AttackersThreatening(c model.Cell, target model.Owner) []model.StationaryUnit
	SimulatePath(start model.Cell, edge model.Edge) model.PathResult
	ProjectedResource(pool model.Pool, turnsAhead int, spent float64) float64
}
