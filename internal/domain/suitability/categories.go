package suitability

import (
	"github.com/okian/matcha/internal/domain/catalog"
)

// evaluation holds the working state of a single Evaluate call. All of
// it is local to the call; nothing escapes except the details trace.
type evaluation struct {
	userIDs []int64 // selection order preserved for deterministic traces
	userSet map[int64]struct{}
	byCat   map[catalog.Category][]catalog.KeywordRecord
	index   map[int64]catalog.KeywordRecord
	details Details
}

func newEvaluation(seekerIDs []int64, posting []catalog.KeywordRecord, index map[int64]catalog.KeywordRecord) *evaluation {
	ev := &evaluation{
		userIDs: seekerIDs,
		userSet: make(map[int64]struct{}, len(seekerIDs)),
		byCat:   make(map[catalog.Category][]catalog.KeywordRecord),
		index:   index,
		details: Details{
			CategoryScores:       make(map[string]CategoryScore),
			MatchedKeywordLabels: make(map[catalog.Category][]string),
		},
	}
	for _, id := range seekerIDs {
		ev.userSet[id] = struct{}{}
	}
	for _, r := range posting {
		ev.byCat[r.Category] = append(ev.byCat[r.Category], r)
	}
	return ev
}

func (ev *evaluation) selected(id int64) bool {
	_, ok := ev.userSet[id]
	return ok
}

// wildcard reports whether the category is a full-credit match by the
// no-preference rule: the posting carries the marker in the category,
// or the seeker selected the category's marker id.
func (ev *evaluation) wildcard(c catalog.Category) bool {
	for _, r := range ev.byCat[c] {
		if r.IsWildcard() {
			return true
		}
	}
	for _, id := range ev.userIDs {
		if r, ok := ev.index[id]; ok && r.Category == c && r.IsWildcard() {
			return true
		}
	}
	return false
}

// userRecords resolves the seeker's selections within a category using
// the catalog index, preserving selection order.
func (ev *evaluation) userRecords(c catalog.Category) []catalog.KeywordRecord {
	var out []catalog.KeywordRecord
	for _, id := range ev.userIDs {
		if r, ok := ev.index[id]; ok && r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

func (ev *evaluation) record(name string, cs CategoryScore) {
	ev.details.CategoryScores[name] = cs
}

func (ev *evaluation) addLabels(c catalog.Category, labels ...string) {
	if len(labels) == 0 {
		return
	}
	ev.details.MatchedKeywordLabels[c] = append(ev.details.MatchedKeywordLabels[c], labels...)
}

func (ev *evaluation) missRequired(name string) {
	ev.details.MissingRequiredCategories = append(ev.details.MissingRequiredCategories, name)
}

// binary scores a membership category: full weight when the posting
// lists nothing in the category, when the wildcard rule applies (if
// enabled), or when the seeker selected one of the posting's ids.
// The gender gate reuses this with weight 0; it records no labels so
// the scored gender check owns the trace for the category.
func (ev *evaluation) binary(name string, c catalog.Category, weight float64, useWildcard bool) (float64, bool) {
	recs := ev.byCat[c]
	withLabels := name != CheckGenderGate

	if len(recs) == 0 {
		ev.record(name, CategoryScore{Score: weight, Weight: weight})
		return weight, true
	}
	if useWildcard && ev.wildcard(c) {
		ev.record(name, CategoryScore{Matched: 1, Total: len(recs), Score: weight, Weight: weight})
		if withLabels {
			ev.addLabels(c, catalog.NoPreference)
		}
		return weight, true
	}

	var matched []string
	for _, r := range recs {
		if !r.IsWildcard() && ev.selected(r.ID) {
			matched = append(matched, r.Label)
		}
	}
	cs := CategoryScore{Matched: len(matched), Total: len(recs), Weight: weight}
	if len(matched) > 0 {
		cs.Score = weight
		ev.record(name, cs)
		if withLabels {
			ev.addLabels(c, matched...)
		}
		return weight, true
	}
	ev.record(name, cs)
	return 0, false
}

// workDay scores proportionally to the share of required days covered.
// Asymmetric with job type: a posting listing no work days earns 0, not
// full credit.
func (ev *evaluation) workDay() float64 {
	recs := ev.byCat[catalog.CategoryWorkDay]
	if len(recs) == 0 {
		ev.record(CheckWorkDay, CategoryScore{Weight: workDayWeight})
		return 0
	}
	if ev.wildcard(catalog.CategoryWorkDay) {
		ev.record(CheckWorkDay, CategoryScore{Matched: 1, Total: len(recs), Score: workDayWeight, Weight: workDayWeight})
		ev.addLabels(catalog.CategoryWorkDay, catalog.NoPreference)
		return workDayWeight
	}

	var required, matched []string
	for _, r := range recs {
		if r.IsWildcard() {
			continue
		}
		required = append(required, r.Label)
		if ev.selected(r.ID) {
			matched = append(matched, r.Label)
		}
	}
	cs := CategoryScore{Matched: len(matched), Total: len(required), Weight: workDayWeight}
	if len(required) == 0 || len(matched) == 0 {
		ev.record(CheckWorkDay, cs)
		return 0
	}
	cs.Score = float64(len(matched)) / float64(len(required)) * workDayWeight
	ev.record(CheckWorkDay, cs)
	ev.addLabels(catalog.CategoryWorkDay, matched...)
	return cs.Score
}

// koreanLevel awards full credit when the seeker's proficiency meets the
// minimum level the posting lists. A posting listing no level awards 0.
func (ev *evaluation) koreanLevel() float64 {
	recs := ev.byCat[catalog.CategoryKoreanLevel]
	if len(recs) == 0 {
		ev.record(CheckKoreanLevel, CategoryScore{Weight: koreanWeight})
		return 0
	}
	if ev.wildcard(catalog.CategoryKoreanLevel) {
		ev.record(CheckKoreanLevel, CategoryScore{Matched: 1, Total: len(recs), Score: koreanWeight, Weight: koreanWeight})
		ev.addLabels(catalog.CategoryKoreanLevel, catalog.NoPreference)
		return koreanWeight
	}

	// Minimum level the posting accepts.
	minRequired := 0
	minLabel := ""
	for _, r := range recs {
		lvl, ok := catalog.KoreanLevels[r.Label]
		if !ok {
			continue
		}
		if minRequired == 0 || lvl < minRequired {
			minRequired = lvl
			minLabel = r.Label
		}
	}
	if minRequired == 0 {
		ev.record(CheckKoreanLevel, CategoryScore{Total: len(recs), Weight: koreanWeight})
		return 0
	}

	// Highest level the seeker selected.
	userLevel := 0
	for _, r := range ev.userRecords(catalog.CategoryKoreanLevel) {
		if lvl := catalog.KoreanLevels[r.Label]; lvl > userLevel {
			userLevel = lvl
		}
	}

	cs := CategoryScore{Total: len(recs), Weight: koreanWeight}
	if userLevel >= minRequired && userLevel > 0 {
		cs.Matched = 1
		cs.Score = koreanWeight
		ev.record(CheckKoreanLevel, cs)
		ev.addLabels(catalog.CategoryKoreanLevel, minLabel)
		return koreanWeight
	}
	ev.record(CheckKoreanLevel, cs)
	return 0
}

// ageRange awards full credit on an exact bracket match or when the
// posting lists no bracket, and half credit when the seeker's bracket is
// adjacent to an accepted one in the fixed bracket order.
func (ev *evaluation) ageRange() float64 {
	recs := ev.byCat[catalog.CategoryAgeRange]
	if len(recs) == 0 {
		ev.record(CheckAgeRange, CategoryScore{Score: ageWeight, Weight: ageWeight})
		return ageWeight
	}
	if ev.wildcard(catalog.CategoryAgeRange) {
		ev.record(CheckAgeRange, CategoryScore{Matched: 1, Total: len(recs), Score: ageWeight, Weight: ageWeight})
		ev.addLabels(catalog.CategoryAgeRange, catalog.NoPreference)
		return ageWeight
	}

	// Exact id match against the posting's accepted brackets.
	for _, r := range recs {
		if !r.IsWildcard() && ev.selected(r.ID) {
			ev.record(CheckAgeRange, CategoryScore{Matched: 1, Total: len(recs), Score: ageWeight, Weight: ageWeight})
			ev.addLabels(catalog.CategoryAgeRange, r.Label)
			return ageWeight
		}
	}

	// Adjacency: the seeker's bracket one position away from any
	// accepted bracket earns half credit.
	userIdx := -1
	for _, r := range ev.userRecords(catalog.CategoryAgeRange) {
		if i := catalog.AgeBracketIndex(r.Label); i >= 0 {
			userIdx = i
			break
		}
	}
	cs := CategoryScore{Total: len(recs), Weight: ageWeight}
	if userIdx >= 0 {
		for _, r := range recs {
			i := catalog.AgeBracketIndex(r.Label)
			if i < 0 {
				continue
			}
			if i-userIdx == 1 || userIdx-i == 1 {
				cs.Score = ageWeight * ageAdjacentRatio
				ev.record(CheckAgeRange, cs)
				return cs.Score
			}
		}
	}
	ev.record(CheckAgeRange, cs)
	return 0
}

// fixedCondition scores one hardcoded work-condition id. A posting not
// carrying the id earns full credit; carrying it requires the seeker to
// have selected it.
func (ev *evaluation) fixedCondition(name string, id int64) float64 {
	var listed *catalog.KeywordRecord
	for _, r := range ev.byCat[catalog.CategoryWorkConditions] {
		if r.ID == id {
			rr := r
			listed = &rr
			break
		}
	}
	if listed == nil {
		ev.record(name, CategoryScore{Score: conditionWeight, Weight: conditionWeight})
		return conditionWeight
	}
	cs := CategoryScore{Total: 1, Weight: conditionWeight}
	if ev.selected(id) {
		cs.Matched = 1
		cs.Score = conditionWeight
		ev.record(name, cs)
		ev.addLabels(catalog.CategoryWorkConditions, listed.Label)
		return conditionWeight
	}
	ev.record(name, cs)
	return 0
}

// otherConditions scores the remaining hardcoded condition ids as a
// group, proportionally to how many listed ones the seeker covers.
// Full credit by default when the posting lists none of them.
func (ev *evaluation) otherConditions(ids []int64) float64 {
	group := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		group[id] = struct{}{}
	}

	var listed, matched []catalog.KeywordRecord
	for _, r := range ev.byCat[catalog.CategoryWorkConditions] {
		if _, ok := group[r.ID]; !ok {
			continue
		}
		listed = append(listed, r)
		if ev.selected(r.ID) {
			matched = append(matched, r)
		}
	}
	if len(listed) == 0 {
		ev.record(CheckOtherConditions, CategoryScore{Score: conditionWeight, Weight: conditionWeight})
		return conditionWeight
	}

	cs := CategoryScore{Matched: len(matched), Total: len(listed), Weight: conditionWeight}
	cs.Score = float64(len(matched)) / float64(len(listed)) * conditionWeight
	ev.record(CheckOtherConditions, cs)
	for _, r := range matched {
		ev.addLabels(catalog.CategoryWorkConditions, r.Label)
	}
	return cs.Score
}
