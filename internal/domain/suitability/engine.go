// Package suitability computes the compatibility score between a job
// seeker's selected preference keywords and a job posting's keyword
// tags: an unclamped-above, zero-floored score, a discrete tier, and an
// explainable per-category breakdown.
//
// Evaluate is total over its input domain: empty inputs degenerate to
// per-category "no match" or documented automatic full credit, never an
// error. The engine holds no mutable state beyond the atomically
// swappable rule configuration, so a single Engine may serve any number
// of concurrent callers.
package suitability

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/internal/domain/rules"
)

// Hardcoded category weights. The declarative weights on rules.Config
// are modeled but deliberately not consulted here; see the rules
// package doc before changing that.
const (
	locationWeight  = 38.0
	jobTypeWeight   = 33.0
	workDayWeight   = 11.0
	koreanWeight    = 5.0
	visaWeight      = 5.0
	genderWeight    = 4.0
	ageWeight       = 3.0
	conditionWeight = 2.0

	// Gating penalties. A location mismatch keeps only 30% of all
	// accumulated credit; a gender mismatch costs a flat 20 points,
	// floored at zero. Location is applied first.
	locationGateRatio = 0.3
	genderGatePenalty = 20.0

	// Adjacent age brackets earn half credit.
	ageAdjacentRatio = 0.5
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithConditionIDs overrides the hardcoded work-condition catalog ids.
func WithConditionIDs(ids catalog.ConditionIDs) Option {
	return func(e *Engine) {
		e.conditions = ids
	}
}

// WithCatalog supplies the keyword catalog used to resolve a seeker's
// selected ids to records. Only the Korean-level and age-range checks
// need the resolution; every other check matches by id against the
// posting's own records.
func WithCatalog(records []catalog.KeywordRecord) Option {
	return func(e *Engine) {
		e.index = make(map[int64]catalog.KeywordRecord, len(records))
		for _, r := range records {
			e.index[r.ID] = r
		}
	}
}

// Engine evaluates seeker/posting pairs against the active rule
// configuration.
type Engine struct {
	cfg        atomic.Pointer[rules.Config]
	conditions catalog.ConditionIDs
	index      map[int64]catalog.KeywordRecord
}

// New constructs an Engine with the given rule configuration.
// A nil cfg falls back to rules.Default().
func New(cfg *rules.Config, opts ...Option) *Engine {
	e := &Engine{
		conditions: catalog.DefaultConditionIDs(),
	}
	if cfg == nil {
		cfg = rules.Default()
	}
	e.cfg.Store(cfg)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ReplaceRules atomically swaps the active configuration. In-flight
// evaluations may observe either the old or the new configuration,
// which is acceptable since no call spans more than one evaluation.
func (e *Engine) ReplaceRules(cfg *rules.Config) {
	if cfg == nil {
		return
	}
	e.cfg.Store(cfg)
}

// Rules returns the active configuration.
func (e *Engine) Rules() *rules.Config {
	return e.cfg.Load()
}

// Evaluate scores one seeker selection against one posting keyword set.
// The fixed order below matters: category credit accumulates first,
// then the location gate multiplies, then the gender gate subtracts.
func (e *Engine) Evaluate(_ context.Context, seekerKeywordIDs []int64, postingKeywords []catalog.KeywordRecord) Result {
	cfg := e.cfg.Load()
	ev := newEvaluation(seekerKeywordIDs, postingKeywords, e.index)

	total := 0.0

	locScore, locMatched := ev.binary(CheckLocation, catalog.CategoryLocation, locationWeight, false)
	total += locScore

	_, genderMatched := ev.binary(CheckGenderGate, catalog.CategoryGender, 0, true)

	jt, _ := ev.binary(CheckJobType, catalog.CategoryJobType, jobTypeWeight, true)
	total += jt
	total += ev.workDay()
	total += ev.koreanLevel()
	visa, _ := ev.binary(CheckVisa, catalog.CategoryVisa, visaWeight, true)
	total += visa
	gender, _ := ev.binary(CheckGender, catalog.CategoryGender, genderWeight, true)
	total += gender
	total += ev.ageRange()
	total += ev.fixedCondition(CheckVisaSupport, e.conditions.VisaSupport)
	total += ev.fixedCondition(CheckMealProvided, e.conditions.MealProvided)
	total += ev.otherConditions(e.conditions.OtherConditions)
	country, _ := ev.binary(CheckCountry, catalog.CategoryCountry, conditionWeight, true)
	total += country

	if !locMatched {
		total *= locationGateRatio
		ev.missRequired("location")
	}
	if !genderMatched {
		total -= genderGatePenalty
		if total < 0 {
			total = 0
		}
		ev.missRequired("gender")
	}

	score := int(math.Round(total))
	return Result{
		Score:   score,
		Level:   cfg.ScoreLevels.Classify(score),
		Details: ev.details,
	}
}
