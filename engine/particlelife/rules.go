package particlelife

import "math/rand"

// Rule describes how particles of one kind react to particles of another.
// A positive force attracts, a negative force repels. The force acts between
// MinDistance and MaxDistance; inside MinDistance particles always push apart.
// Layout matches the WGSL Rule struct (12-byte stride).
type Rule struct {
	Force       float32
	MinDistance float32
	MaxDistance float32
}

// Rules is the full KindCount×KindCount interaction table, row-major by the
// acting particle's kind. The table is not symmetric: how kind A reacts to
// kind B is independent of how B reacts to A, which is what makes the
// emergent behavior interesting.
type Rules [KindCount * KindCount]Rule

// Rule returns the rule for how kind a reacts to kind b.
//
// Parameters:
//   - a: the kind of the particle being acted on
//   - b: the kind of the particle exerting the force
//
// Returns:
//   - Rule: the interaction rule
func (r *Rules) Rule(a, b uint32) Rule {
	return r[a*KindCount+b]
}

// FloatRange is a half-open interval [Min, Max) sampled uniformly.
type FloatRange struct {
	Min, Max float32
}

func (fr FloatRange) sample(rng *rand.Rand) float32 {
	return fr.Min + rng.Float32()*(fr.Max-fr.Min)
}

// RuleGenerationParameters control the distributions used when regenerating
// the rule table.
type RuleGenerationParameters struct {
	// MinDistance is the range the repulsion radius is drawn from.
	MinDistance FloatRange
	// MaxDistance is drawn and added to the min distance, so the attraction
	// band always has positive width.
	MaxDistance FloatRange
	// Force is the force magnitude range; the sign is chosen by coin flip.
	Force FloatRange
}

// DefaultRuleGenerationParameters returns the standard tuning.
//
// Returns:
//   - RuleGenerationParameters: min distance in [30,50), max distance offset
//     in [70,250), force magnitude in [0.3,1.0)
func DefaultRuleGenerationParameters() RuleGenerationParameters {
	return RuleGenerationParameters{
		MinDistance: FloatRange{30.0, 50.0},
		MaxDistance: FloatRange{70.0, 250.0},
		Force:       FloatRange{0.3, 1.0},
	}
}

// NewRandomRules generates a full interaction table from the given parameters.
//
// Parameters:
//   - rng: the random source
//   - params: the generation distributions
//
// Returns:
//   - Rules: the generated table
func NewRandomRules(rng *rand.Rand, params RuleGenerationParameters) Rules {
	var rules Rules
	for i := range rules {
		rules[i] = newRandomRule(rng, params)
	}
	return rules
}

func newRandomRule(rng *rand.Rand, params RuleGenerationParameters) Rule {
	minDistance := params.MinDistance.sample(rng)
	maxDistance := minDistance + params.MaxDistance.sample(rng)

	force := params.Force.sample(rng)
	if rng.Intn(2) == 0 {
		force = -force
	}

	return Rule{
		Force:       force,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
	}
}
