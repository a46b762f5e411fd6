package rules

// Observed opponent tactics, as exposed to rule conditions.
const (
	TacticNone          = "none"
	TacticWall          = "wall"
	TacticStaggerTurret = "stagger_turret"
	TacticStaggerWall   = "stagger_wall"
)

// GoalEnv is the expr environment for goal rules. The scheduler fills the
// observation fields; rules write Default and Goal.
type GoalEnv struct {
	Turn         int
	MP           float64
	Spawnable    int // whole mobile units the current MP could buy
	EnemyHealth  float64
	UpFront      int  // upgraded opponent turrets on the lane's front row
	Behind       int  // upgraded opponent turrets one row further back
	HasWall      bool // opponent wall at the lane's leading cell
	LeadOccupied bool // opponent structure at the stagger lead cell
	Tactic       string
	FailureCount int

	Default float64 // decoy size and base of the goal formula
	Goal    float64
}

// Staggered reports whether the opponent is running either stagger tactic.
func (e GoalEnv) Staggered() bool {
	return e.Tactic == TacticStaggerTurret || e.Tactic == TacticStaggerWall
}

// Density is the goal increase contributed by upgraded turrets in the lane.
func (e GoalEnv) Density() int {
	return e.UpFront + (e.Behind+1)/2
}
