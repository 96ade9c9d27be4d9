package particlelife

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRuleGenerationParameters(t *testing.T) {
	params := DefaultRuleGenerationParameters()

	assert.Equal(t, FloatRange{30.0, 50.0}, params.MinDistance)
	assert.Equal(t, FloatRange{70.0, 250.0}, params.MaxDistance)
	assert.Equal(t, FloatRange{0.3, 1.0}, params.Force)
}

func TestNewRandomRulesInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	params := DefaultRuleGenerationParameters()

	rules := NewRandomRules(rng, params)
	assert.Len(t, rules, KindCount*KindCount)

	for _, rule := range rules {
		magnitude := rule.Force
		if magnitude < 0 {
			magnitude = -magnitude
		}
		assert.GreaterOrEqual(t, magnitude, params.Force.Min)
		assert.Less(t, magnitude, params.Force.Max)

		assert.GreaterOrEqual(t, rule.MinDistance, params.MinDistance.Min)
		assert.Less(t, rule.MinDistance, params.MinDistance.Max)

		// Max distance is offset from min distance, so the attraction band
		// always has positive width.
		assert.GreaterOrEqual(t, rule.MaxDistance, rule.MinDistance+params.MaxDistance.Min)
		assert.Less(t, rule.MaxDistance, rule.MinDistance+params.MaxDistance.Max)
	}
}

func TestNewRandomRulesProducesBothSigns(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rules := NewRandomRules(rng, DefaultRuleGenerationParameters())

	attract, repel := 0, 0
	for _, rule := range rules {
		if rule.Force > 0 {
			attract++
		} else {
			repel++
		}
	}
	assert.Positive(t, attract)
	assert.Positive(t, repel)
}

func TestRuleLookupIsRowMajorByActingKind(t *testing.T) {
	var rules Rules
	for i := range rules {
		rules[i] = Rule{Force: float32(i)}
	}

	assert.Equal(t, float32(0), rules.Rule(0, 0).Force)
	assert.Equal(t, float32(KindCount), rules.Rule(1, 0).Force)
	assert.Equal(t, float32(KindCount+1), rules.Rule(1, 1).Force)
	assert.Equal(t, float32(KindCount*KindCount-1), rules.Rule(KindCount-1, KindCount-1).Force)
}

func TestRegenerateRulesReplacesTable(t *testing.T) {
	w := &world{
		rng:        rand.New(rand.NewSource(3)),
		ruleParams: DefaultRuleGenerationParameters(),
	}
	w.rules = NewRandomRules(w.rng, w.ruleParams)
	before := w.rules

	w.RegenerateRules()
	assert.NotEqual(t, before, w.rules)
}
