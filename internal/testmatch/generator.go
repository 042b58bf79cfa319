package testmatch

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/matcha/internal/domain/catalog"
	"github.com/okian/matcha/pkg/logger"
)

// Selection shape constants. A posting usually lists one location, one
// job type, a handful of work days, and a sprinkle of conditions; a
// seeker selects more broadly.
const (
	maxWorkDaysPerPosting   = 5
	maxConditionsPerPosting = 3
	maxWorkDaysPerSeeker    = 6
)

// getRandomInt returns a random int in [0, n) using crypto/rand.
func getRandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// pickOne returns one random record from records.
func pickOne(records []catalog.KeywordRecord) catalog.KeywordRecord {
	return records[getRandomInt(len(records))]
}

// pickSome returns up to max distinct random records from records.
func pickSome(records []catalog.KeywordRecord, max int) []catalog.KeywordRecord {
	if max > len(records) {
		max = len(records)
	}
	count := 1 + getRandomInt(max)
	picked := make([]catalog.KeywordRecord, 0, count)
	used := make(map[int64]struct{}, count)
	for len(picked) < count {
		r := records[getRandomInt(len(records))]
		if _, ok := used[r.ID]; ok {
			continue
		}
		used[r.ID] = struct{}{}
		picked = append(picked, r)
	}
	return picked
}

// generatePostings builds random postings from the keyword catalog.
func generatePostings(ctx context.Context, config *Config, stats *Stats) []Posting {
	logger.Get().Info(ctx, "generating postings", logger.Int("count", config.NumPostings))

	seed := catalog.Seed()
	locations := catalog.FilterCategory(seed, catalog.CategoryLocation)
	jobTypes := catalog.FilterCategory(seed, catalog.CategoryJobType)
	workDays := catalog.FilterCategory(seed, catalog.CategoryWorkDay)
	koreanLevels := catalog.FilterCategory(seed, catalog.CategoryKoreanLevel)
	visas := catalog.FilterCategory(seed, catalog.CategoryVisa)
	genders := catalog.FilterCategory(seed, catalog.CategoryGender)
	ageRanges := catalog.FilterCategory(seed, catalog.CategoryAgeRange)
	conditions := catalog.FilterCategory(seed, catalog.CategoryWorkConditions)
	countries := catalog.FilterCategory(seed, catalog.CategoryCountry)

	postings := make([]Posting, 0, config.NumPostings)
	for i := 0; i < config.NumPostings; i++ {
		records := []catalog.KeywordRecord{
			pickOne(locations),
			pickOne(jobTypes),
			pickOne(koreanLevels),
			pickOne(visas),
			pickOne(genders),
			pickOne(ageRanges),
			pickOne(countries),
		}
		records = append(records, pickSome(workDays, maxWorkDaysPerPosting)...)
		records = append(records, pickSome(conditions, maxConditionsPerPosting)...)

		keywords := make([]Keyword, 0, len(records))
		for _, r := range records {
			keywords = append(keywords, Keyword{
				ID:       r.ID,
				Label:    r.Label,
				Category: string(r.Category),
			})
		}

		postings = append(postings, Posting{
			ID:       "posting-" + uuid.NewString(),
			Title:    "generated posting " + strconv.Itoa(i),
			Keywords: keywords,
		})
	}

	stats.PostingsGenerated = len(postings)
	return postings
}

// generateSeekers builds random seeker selections from the catalog.
func generateSeekers(ctx context.Context, config *Config, stats *Stats) []Seeker {
	logger.Get().Info(ctx, "generating seekers", logger.Int("count", config.NumSeekers))

	seed := catalog.Seed()
	byCategory := map[catalog.Category][]catalog.KeywordRecord{}
	for _, c := range []catalog.Category{
		catalog.CategoryLocation,
		catalog.CategoryJobType,
		catalog.CategoryKoreanLevel,
		catalog.CategoryVisa,
		catalog.CategoryGender,
		catalog.CategoryAgeRange,
		catalog.CategoryWorkConditions,
		catalog.CategoryCountry,
	} {
		byCategory[c] = catalog.FilterCategory(seed, c)
	}
	workDays := catalog.FilterCategory(seed, catalog.CategoryWorkDay)

	seekers := make([]Seeker, 0, config.NumSeekers)
	for i := 0; i < config.NumSeekers; i++ {
		ids := make([]int64, 0, 16)
		for _, records := range byCategory {
			ids = append(ids, pickOne(records).ID)
		}
		for _, r := range pickSome(workDays, maxWorkDaysPerSeeker) {
			ids = append(ids, r.ID)
		}

		seekers = append(seekers, Seeker{
			SeekerID:   "seeker-" + uuid.NewString(),
			KeywordIDs: ids,
		})
	}

	stats.SeekersGenerated = len(seekers)
	return seekers
}
