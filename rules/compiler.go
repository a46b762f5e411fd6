package rules

import (
	"fmt"
	"math"
	"strconv"
)

// CompileProfile generates the goal rule set for a profile. Conditions are
// built via fmt.Sprintf with interpolated thresholds, so the compiler never
// generates invalid expr. Rules above priority 1000 shape Default (the decoy
// size); the rest shape Goal.
func CompileProfile(p *Profile) []*Rule {
	var rules []*Rule

	// --- Default value ---

	rules = append(rules, &Rule{
		Name:         "default-base",
		Priority:     2000,
		ConditionSrc: `true`,
		Adjust:       func(env *GoalEnv) { env.Default = p.BaseDefault },
	})

	rules = append(rules, &Rule{
		Name:         "default-early",
		Priority:     1950,
		ConditionSrc: fmt.Sprintf(`Turn <= %d`, p.EarlyTurn),
		Adjust:       func(env *GoalEnv) { env.Default = p.EarlyDefault },
	})

	rules = append(rules, &Rule{
		Name:         "default-low-mp",
		Priority:     1900,
		ConditionSrc: fmt.Sprintf(`Spawnable <= %s`, num(p.LowMPCutoff)),
		Adjust:       func(env *GoalEnv) { env.Default = p.LowMPDefault },
	})

	rules = append(rules, &Rule{
		Name:         "default-lane-wall",
		Priority:     1850,
		ConditionSrc: `HasWall`,
		Adjust:       func(env *GoalEnv) { env.Default = p.WallDefault },
	})

	rules = append(rules, &Rule{
		Name:         "default-stagger",
		Priority:     1800,
		ConditionSrc: `Staggered()`,
		Adjust:       func(env *GoalEnv) { env.Default += float64(2*env.UpFront + env.Behind) },
	})

	rules = append(rules, &Rule{
		Name:         "default-stagger-lead",
		Priority:     1750,
		ConditionSrc: `Staggered() && !LeadOccupied`,
		Adjust:       func(env *GoalEnv) { env.Default = math.Min(env.Default, p.StaggerLeadCap) },
	})

	if p.Toggles.StaggerWallCap {
		rules = append(rules, &Rule{
			Name:         "default-stagger-wall-cap",
			Priority:     1700,
			ConditionSrc: fmt.Sprintf(`Tactic == %q`, TacticStaggerWall),
			Adjust:       func(env *GoalEnv) { env.Default = math.Min(env.Default, p.StaggerWallCap) },
		})
	}

	// Without the toggle a stagger-turret increment replaces the density one;
	// with it both apply and only a stagger wall skips density.
	densityCond := `!Staggered()`
	if p.Toggles.StaggerDensity {
		densityCond = fmt.Sprintf(`Tactic != %q`, TacticStaggerWall)
	}
	rules = append(rules, &Rule{
		Name:         "default-density",
		Priority:     1650,
		ConditionSrc: densityCond,
		Adjust:       func(env *GoalEnv) { env.Default += float64(2*env.UpFront + (env.Behind+1)/2) },
	})

	// --- Goal ---

	rules = append(rules, &Rule{
		Name:         "goal-base",
		Priority:     1000,
		ConditionSrc: `true`,
		Adjust:       func(env *GoalEnv) { env.Goal = math.Min(p.BaseGoalCap, p.BaseGoalOffset+env.Default) },
	})

	if p.Toggles.WallFloor {
		rules = append(rules, &Rule{
			Name:         "goal-wall-floor",
			Priority:     900,
			ConditionSrc: fmt.Sprintf(`HasWall && Tactic != %q`, TacticWall),
			Adjust:       func(env *GoalEnv) { env.Goal = p.WallFloor },
		})
	}

	rules = append(rules, &Rule{
		Name:         "goal-lethal-low-health",
		Priority:     800,
		ConditionSrc: fmt.Sprintf(`EnemyHealth <= %s`, num(p.LethalCutoff)),
		Adjust: func(env *GoalEnv) {
			env.Goal = math.Max(env.Goal, env.EnemyHealth+p.LethalMargin+env.Default)
		},
	})

	rules = append(rules, &Rule{
		Name:         "goal-lethal-high-health",
		Priority:     790,
		ConditionSrc: fmt.Sprintf(`EnemyHealth > %s`, num(p.LethalCutoff)),
		Adjust: func(env *GoalEnv) {
			env.Goal = math.Max(env.Goal, math.Ceil(env.EnemyHealth/2)+p.LethalMargin+env.Default)
		},
	})

	rules = append(rules, &Rule{
		Name:         "goal-stagger-floor",
		Priority:     700,
		ConditionSrc: `Staggered()`,
		Adjust: func(env *GoalEnv) {
			env.Goal = math.Max(env.Goal, p.StaggerFloor+float64(env.UpFront+env.Behind/2))
		},
	})

	rules = append(rules, &Rule{
		Name:         "goal-density",
		Priority:     600,
		ConditionSrc: `Density() > 0`,
		Adjust:       func(env *GoalEnv) { env.Goal += float64(env.Density()) },
	})

	// Past the ceiling the goal falls back to Default+fallback, but never
	// below the ceiling itself so a denser lane cannot lower the goal.
	rules = append(rules, &Rule{
		Name:         "goal-ceiling",
		Priority:     500,
		ConditionSrc: fmt.Sprintf(`Goal > %s`, num(p.GoalCeiling)),
		Adjust: func(env *GoalEnv) {
			env.Goal = math.Max(p.GoalCeiling, env.Default+p.CeilingFallback)
		},
	})

	if p.Toggles.FailurePenalty {
		rules = append(rules, &Rule{
			Name:         "goal-failure-penalty",
			Priority:     400,
			ConditionSrc: `FailureCount > 0`,
			Adjust:       func(env *GoalEnv) { env.Goal += p.FailurePenalty * float64(env.FailureCount) },
		})
	}

	return rules
}

// NewProfileEngine compiles the rule set for p.
func NewProfileEngine(p *Profile) (*Engine, error) {
	e, err := NewEngine(CompileProfile(p))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	return e, nil
}

// num renders a threshold as an expr literal.
func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
