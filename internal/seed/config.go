// Package seed fills a running persona service with generated members and
// checks that every group reports the expected headcount afterwards.
package seed

import (
	"time"

	"github.com/okian/persona/internal/domain/trait"
)

// Config holds configuration for a seed run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Members    int           // Unique members to create
	Groups     int           // Groups the members are spread over
	Repeats    int           // Extra resubmissions for already created members
	Workers    int           // Concurrent requests
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional JSON dump of the generated submissions
	Verbose    bool          // Log every failed request
}

// Submission is one generated PUT of a member's scores.
type Submission struct {
	Group  string       `json:"group"`
	Member string       `json:"member"`
	Traits trait.Vector `json:"traits"`
}

// Stats holds run statistics.
type Stats struct {
	Generated     int
	Submitted     int
	Created       int
	Updated       int
	Failed        int
	GroupsChecked int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
