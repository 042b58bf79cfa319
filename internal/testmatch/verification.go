package testmatch

import (
	"context"
	"fmt"
	"log"
)

// Tier threshold constants mirroring the service defaults. Used only to
// sanity check returned levels against scores.
const (
	perfectThreshold   = 90
	excellentThreshold = 75
	goodThreshold      = 60
	fairThreshold      = 40
)

// verifyResults verifies the consistency of the retrieved match boards.
func verifyResults(ctx context.Context, config *Config, boards map[string][]Entry, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(boards) == 0 {
		return fmt.Errorf("no boards to verify")
	}

	checked := 0
	for seekerID, entries := range boards {
		if err := verifyBoardOrdering(entries); err != nil {
			log.Printf("⚠️  Board ordering warning for %s: %v", seekerID, err)
		}
		if err := verifyTierConsistency(entries); err != nil {
			log.Printf("⚠️  Tier consistency warning for %s: %v", seekerID, err)
		}
		checked++
	}

	log.Printf("✅ Verified %d boards", checked)

	displayScoreStatistics(boards, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyBoardOrdering checks that a board is sorted by score descending
// with sequential ranks.
func verifyBoardOrdering(entries []Entry) error {
	for i, entry := range entries {
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d has rank %d, want %d", i, entry.Rank, i+1)
		}
		if i > 0 && entry.Score > entries[i-1].Score {
			return fmt.Errorf("entry %d has higher score than entry %d", i, i-1)
		}
	}
	return nil
}

// verifyTierConsistency checks that each entry's level matches its score
// under the default thresholds.
func verifyTierConsistency(entries []Entry) error {
	for _, entry := range entries {
		want := classify(entry.Score)
		if entry.Level != want {
			return fmt.Errorf("posting %s: score %d classified as %q, want %q",
				entry.PostingID, entry.Score, entry.Level, want)
		}
	}
	return nil
}

// classify mirrors the default score level thresholds.
func classify(score int) string {
	switch {
	case score >= perfectThreshold:
		return "perfect"
	case score >= excellentThreshold:
		return "excellent"
	case score >= goodThreshold:
		return "good"
	case score >= fairThreshold:
		return "fair"
	default:
		return "low"
	}
}

// displayScoreStatistics shows score distribution across all boards.
func displayScoreStatistics(boards map[string][]Entry, verbose bool) {
	var (
		count    int
		sum      int
		maxScore int
		minScore = -1
		byLevel  = map[string]int{}
	)

	for _, entries := range boards {
		for _, entry := range entries {
			count++
			sum += entry.Score
			if entry.Score > maxScore {
				maxScore = entry.Score
			}
			if minScore < 0 || entry.Score < minScore {
				minScore = entry.Score
			}
			byLevel[entry.Level]++
		}
	}

	if count == 0 {
		return
	}

	log.Printf(`📊 Score statistics:
   Entries: %d
   Average: %.1f
   Maximum: %d
   Minimum: %d
`, count, float64(sum)/float64(count), maxScore, minScore)

	if verbose {
		for _, level := range []string{"perfect", "excellent", "good", "fair", "low"} {
			log.Printf("   %-9s: %d", level, byLevel[level])
		}
	}
}
