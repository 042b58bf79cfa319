package suitability

import (
	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/internal/domain/rules"
)

// Check names used as keys in Details.CategoryScores. Gender appears
// twice: once as the zero-weight gate and once as the scored check.
const (
	CheckLocation        = "location"
	CheckGenderGate      = "gender_gate"
	CheckJobType         = "job_type"
	CheckWorkDay         = "work_day"
	CheckKoreanLevel     = "korean_level"
	CheckVisa            = "visa"
	CheckGender          = "gender"
	CheckAgeRange        = "age_range"
	CheckVisaSupport     = "visa_support"
	CheckMealProvided    = "meal_provided"
	CheckOtherConditions = "other_conditions"
	CheckCountry         = "country"
)

// CategoryScore is the per-check portion of the trace.
type CategoryScore struct {
	Matched int     `json:"matched"`
	Total   int     `json:"total"`
	Score   float64 `json:"score"`
	Weight  float64 `json:"weight"`
}

// Details carries the explainable breakdown of one evaluation for the
// downstream results-explanation UI.
type Details struct {
	CategoryScores            map[string]CategoryScore      `json:"category_scores"`
	MatchedKeywordLabels      map[catalog.Category][]string `json:"matched_keyword_labels"`
	MissingRequiredCategories []string                      `json:"missing_required_categories"`
}

// Result is the outcome of a single evaluation. It has no lifecycle
// beyond the call that produced it.
type Result struct {
	Score   int        `json:"score"`
	Level   rules.Tier `json:"level"`
	Details Details    `json:"details"`
}
