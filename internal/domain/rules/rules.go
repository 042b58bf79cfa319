// Package rules holds the tunable scoring configuration supplied to the
// suitability engine at construction time.
//
// The configuration is a value object: the engine never mutates it, and
// replacing it is a wholesale swap of the reference, never a partial
// merge. Several declarative fields (CategoryWeights, KeywordBonus,
// CombinationBonuses, RequiredKeywords) are modeled for parity with the
// production rule tables but are NOT consulted by the aggregation step,
// which hardcodes its weights and required categories. Only ScoreLevels
// is read, by tier classification. Wiring the remaining fields into
// aggregation is a behavior change, not a tuning knob.
package rules

import "github.com/okian/matcha/internal/domain/catalog"

// Tier is a discrete suitability level derived from the score.
type Tier string

// Suitability tiers, best to worst.
const (
	TierPerfect   Tier = "perfect"
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierLow       Tier = "low"
)

// ScoreLevels holds the tier thresholds. Thresholds are expected to be
// ordered perfect >= excellent >= good >= fair; they are deliberately
// not validated here, matching the observed production behavior.
// Unordered values simply yield counter-intuitive tier boundaries.
type ScoreLevels struct {
	Perfect   int `json:"perfect" koanf:"perfect"`
	Excellent int `json:"excellent" koanf:"excellent"`
	Good      int `json:"good" koanf:"good"`
	Fair      int `json:"fair" koanf:"fair"`
}

// Classify maps a score to its tier.
func (l ScoreLevels) Classify(score int) Tier {
	switch {
	case score >= l.Perfect:
		return TierPerfect
	case score >= l.Excellent:
		return TierExcellent
	case score >= l.Good:
		return TierGood
	case score >= l.Fair:
		return TierFair
	default:
		return TierLow
	}
}

// CombinationBonus awards extra points when a keyword combination is
// present. Declared for parity; not consulted by aggregation.
type CombinationBonus struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	KeywordIDs []int64 `json:"keyword_ids"`
	RequireAll bool    `json:"require_all"`
	Bonus      float64 `json:"bonus"`
}

// Config is the swappable rule configuration.
type Config struct {
	// CategoryWeights declares per-category weights summing to 100.
	// Not consulted: the engine hardcodes its weights.
	CategoryWeights map[catalog.Category]float64 `json:"category_weights"`

	// KeywordBonus declares fixed per-keyword bonus points. Not consulted.
	KeywordBonus map[int64]float64 `json:"keyword_bonus"`

	// CombinationBonuses declares combination bonus rules. Not consulted.
	CombinationBonuses []CombinationBonus `json:"combination_bonuses"`

	// RequiredKeywords declares per-category required ids. Not consulted:
	// required-ness is hardcoded per category (location, gender).
	RequiredKeywords map[catalog.Category][]int64 `json:"required_keywords"`

	// ScoreLevels is the only field aggregation actually reads.
	ScoreLevels ScoreLevels `json:"score_levels"`
}

// Clone returns a deep copy of the configuration. Callers deriving a
// new configuration from the active one must clone first; the published
// Config, maps included, is immutable once the engine holds it.
func (c *Config) Clone() *Config {
	out := &Config{ScoreLevels: c.ScoreLevels}
	if c.CategoryWeights != nil {
		out.CategoryWeights = make(map[catalog.Category]float64, len(c.CategoryWeights))
		for k, v := range c.CategoryWeights {
			out.CategoryWeights[k] = v
		}
	}
	if c.KeywordBonus != nil {
		out.KeywordBonus = make(map[int64]float64, len(c.KeywordBonus))
		for k, v := range c.KeywordBonus {
			out.KeywordBonus[k] = v
		}
	}
	if c.CombinationBonuses != nil {
		out.CombinationBonuses = make([]CombinationBonus, len(c.CombinationBonuses))
		for i, b := range c.CombinationBonuses {
			b.KeywordIDs = append([]int64(nil), b.KeywordIDs...)
			out.CombinationBonuses[i] = b
		}
	}
	if c.RequiredKeywords != nil {
		out.RequiredKeywords = make(map[catalog.Category][]int64, len(c.RequiredKeywords))
		for k, v := range c.RequiredKeywords {
			out.RequiredKeywords[k] = append([]int64(nil), v...)
		}
	}
	return out
}

// Default returns the production rule configuration.
func Default() *Config {
	return &Config{
		CategoryWeights: map[catalog.Category]float64{
			catalog.CategoryLocation:       38,
			catalog.CategoryJobType:        33,
			catalog.CategoryWorkDay:        11,
			catalog.CategoryKoreanLevel:    5,
			catalog.CategoryVisa:           5,
			catalog.CategoryGender:         4,
			catalog.CategoryAgeRange:       3,
			catalog.CategoryWorkConditions: 6,
			catalog.CategoryCountry:        2,
		},
		KeywordBonus:       map[int64]float64{},
		CombinationBonuses: nil,
		RequiredKeywords: map[catalog.Category][]int64{
			catalog.CategoryLocation: nil,
			catalog.CategoryGender:   nil,
		},
		ScoreLevels: ScoreLevels{
			Perfect:   90,
			Excellent: 75,
			Good:      60,
			Fair:      40,
		},
	}
}
