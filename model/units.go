package model

// UnitStats are the match constants for one unit kind.
type UnitStats struct {
	SPCost         float64 `json:"spCost" mapstructure:"spCost"`
	MPCost         float64 `json:"mpCost" mapstructure:"mpCost"`
	Health         float64 `json:"health" mapstructure:"health"`
	AttackRange    float64 `json:"attackRange" mapstructure:"attackRange"`
	Damage         float64 `json:"damage" mapstructure:"damage"`
	UpgradeCost    float64 `json:"upgradeCost" mapstructure:"upgradeCost"`
	UpgradedHealth float64 `json:"upgradedHealth" mapstructure:"upgradedHealth"`
	UpgradedRange  float64 `json:"upgradedRange" mapstructure:"upgradedRange"`
	UpgradedDamage float64 `json:"upgradedDamage" mapstructure:"upgradedDamage"`
}

// Range returns the attack range for the given upgrade state.
func (s UnitStats) Range(upgraded bool) float64 {
	if upgraded && s.UpgradedRange > 0 {
		return s.UpgradedRange
	}
	return s.AttackRange
}

// DamageFor returns per-tick damage for the given upgrade state.
func (s UnitStats) DamageFor(upgraded bool) float64 {
	if upgraded && s.UpgradedDamage > 0 {
		return s.UpgradedDamage
	}
	return s.Damage
}

// UnitTable maps each kind to its stats. It is read from the match config
// once and shared read-only afterwards.
type UnitTable map[UnitKind]UnitStats

// Cost returns the price of kind in the given pool.
func (t UnitTable) Cost(kind UnitKind, pool Pool) float64 {
	s := t[kind]
	if pool == SP {
		return s.SPCost
	}
	return s.MPCost
}

// DefaultUnitTable holds the stock match values.
func DefaultUnitTable() UnitTable {
	return UnitTable{
		Wall:        {SPCost: 1, Health: 60, UpgradeCost: 1, UpgradedHealth: 120},
		Support:     {SPCost: 4, Health: 30, UpgradeCost: 4, UpgradedHealth: 30},
		Turret:      {SPCost: 2, Health: 75, AttackRange: 2.5, Damage: 5, UpgradeCost: 4, UpgradedHealth: 75, UpgradedRange: 3.5, UpgradedDamage: 15},
		Scout:       {MPCost: 1, Health: 15, AttackRange: 3.5, Damage: 2},
		Demolisher:  {MPCost: 3, Health: 5, AttackRange: 4.5, Damage: 8},
		Interceptor: {MPCost: 1, Health: 40, AttackRange: 4.5, Damage: 20},
	}
}
