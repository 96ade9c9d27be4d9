package particlelife

import "math/rand"

// WorldBuilderOption is a functional option applied to a world during construction via NewWorld.
type WorldBuilderOption func(*world)

// WithParticleCount sets the number of simulated particles. Must be a positive
// multiple of the compute workgroup size (32); NewWorld fails otherwise.
// When not specified, the default is 16384.
//
// Parameters:
//   - count: the particle count
//
// Returns:
//   - WorldBuilderOption: a function that applies the particle count option to a world
func WithParticleCount(count uint32) WorldBuilderOption {
	return func(w *world) {
		w.constants.NumParticles = count
	}
}

// WithWorldSize overrides the simulation world dimensions. When not specified,
// the world matches the renderer's surface size.
//
// Parameters:
//   - width: the world width
//   - height: the world height
//
// Returns:
//   - WorldBuilderOption: a function that applies the world size option to a world
func WithWorldSize(width, height float32) WorldBuilderOption {
	return func(w *world) {
		w.constants.WorldSize = [2]float32{width, height}
	}
}

// WithFriction sets the per-tick velocity damping factor. When not specified,
// the default is 0.9.
//
// Parameters:
//   - friction: the damping factor applied to velocity each tick
//
// Returns:
//   - WorldBuilderOption: a function that applies the friction option to a world
func WithFriction(friction float32) WorldBuilderOption {
	return func(w *world) {
		w.constants.Friction = friction
	}
}

// WithForceMultiplier scales the accumulated interaction force before it is
// added to velocity. When not specified, the default is 0.05.
//
// Parameters:
//   - multiplier: the force scale factor
//
// Returns:
//   - WorldBuilderOption: a function that applies the force multiplier option to a world
func WithForceMultiplier(multiplier float32) WorldBuilderOption {
	return func(w *world) {
		w.constants.ForceMultiplier = multiplier
	}
}

// WithRuleGenerationParameters sets the distributions used for rule table
// regeneration.
//
// Parameters:
//   - params: the generation parameters
//
// Returns:
//   - WorldBuilderOption: a function that applies the rule parameters option to a world
func WithRuleGenerationParameters(params RuleGenerationParameters) WorldBuilderOption {
	return func(w *world) {
		w.ruleParams = params
	}
}

// WithGenerationWorkers sets the number of worker pool goroutines used for
// parallel particle generation on reset. When not specified, the default is
// NumCPU-1 (minimum 1).
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - WorldBuilderOption: a function that applies the workers option to a world
func WithGenerationWorkers(workers int) WorldBuilderOption {
	return func(w *world) {
		if workers > 0 {
			w.genWorkers = workers
		}
	}
}

// WithRandomSource sets the random source used for rule and particle
// generation, allowing deterministic worlds.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - WorldBuilderOption: a function that applies the random source option to a world
func WithRandomSource(rng *rand.Rand) WorldBuilderOption {
	return func(w *world) {
		w.rng = rng
	}
}
