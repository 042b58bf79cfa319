// Package catalog models the shared keyword catalog the scoring engine reads.
//
// Records are immutable reference data owned by the backend store; the
// engine only ever filters and matches against them.
package catalog

// Category names an attribute dimension within the catalog.
type Category string

// Categories observed in the catalog.
const (
	CategoryCountry        Category = "country"
	CategoryJobType        Category = "job-type"
	CategoryWorkConditions Category = "work-conditions"
	CategoryLocation       Category = "location"
	CategoryAgeRange       Category = "age-range"
	CategoryGender         Category = "gender"
	CategoryVisa           Category = "visa"
	CategoryWorkDay        Category = "work-day"
	CategoryKoreanLevel    Category = "korean-level"
	CategoryRelocatable    Category = "relocatable"
)

// NoPreference is the sentinel label a category may carry to mean
// "accept any value here". It can appear on a posting's keyword or be
// selected by a seeker; either side using it grants the full category
// weight during scoring.
const NoPreference = "no-preference"

// KeywordRecord is one immutable catalog entry.
type KeywordRecord struct {
	ID       int64    `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// IsWildcard reports whether the record is a no-preference sentinel.
func (r KeywordRecord) IsWildcard() bool {
	return r.Label == NoPreference
}

// FilterCategory returns the records belonging to the given category,
// preserving input order.
func FilterCategory(records []KeywordRecord, c Category) []KeywordRecord {
	var out []KeywordRecord
	for _, r := range records {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// KoreanLevels orders proficiency labels from lowest to highest.
// Unknown labels map to 0 and never satisfy a requirement.
var KoreanLevels = map[string]int{
	"beginner":     1,
	"intermediate": 2,
	"advanced":     3,
}

// AgeBrackets lists the fixed bracket order used for adjacency scoring.
// A seeker one index away from an accepted bracket earns half credit.
var AgeBrackets = []string{"20-25", "25-30", "30-35", "35+"}

// AgeBracketIndex returns the position of the bracket label, or -1.
func AgeBracketIndex(label string) int {
	for i, b := range AgeBrackets {
		if b == label {
			return i
		}
	}
	return -1
}
