package testmatch

import "time"

// Config holds configuration for the match pipeline test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumPostings int           // Number of postings to generate
	NumSeekers  int           // Number of seekers to generate
	TopN        int           // Number of top matches to fetch per seeker
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated data
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Keyword mirrors the API keyword payload
type Keyword struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Posting represents a posting to be registered
type Posting struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Keywords []Keyword `json:"keywords"`
}

// Seeker represents a seeker selection to be matched
type Seeker struct {
	SeekerID   string  `json:"seeker_id"`
	KeywordIDs []int64 `json:"keyword_ids"`
}

// Entry represents a match board entry
type Entry struct {
	Rank      int    `json:"rank"`
	PostingID string `json:"posting_id"`
	Score     int    `json:"score"`
	Level     string `json:"level"`
}

// MatchAck represents the response from match submission
type MatchAck struct {
	Status   string `json:"status"`
	Enqueued int    `json:"enqueued"`
}

// Stats holds test statistics
type Stats struct {
	PostingsGenerated  int
	PostingsRegistered int
	SeekersGenerated   int
	MatchesSubmitted   int
	MatchesSuccessful  int
	MatchesFailed      int
	TasksEnqueued      int
	BoardsRetrieved    int
	BoardEntries       int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
