package models

import (
	"math"
	"time"
)

// Review is a student's rating of a book; one per (student, book)
type Review struct {
	StudentID    int64     `json:"studentId"`
	StudentName  string    `json:"studentName,omitempty"`
	RatingValue  int       `json:"ratingValue"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	HelpfulCount int       `json:"helpfulCount,omitempty"`
}

// RatingStats aggregates the reviews of a book
type RatingStats struct {
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
	Total        int         `json:"total"`
}

// Clone returns a copy that shares no map with s
func (s RatingStats) Clone() RatingStats {
	out := s
	if s.Distribution != nil {
		out.Distribution = make(map[int]int, len(s.Distribution))
		for k, v := range s.Distribution {
			out.Distribution[k] = v
		}
	}
	return out
}

// ComputeRatingStats builds the stats from a full review list.
// Ratings outside 1..5 are ignored. Average is rounded to one decimal.
func ComputeRatingStats(reviews []Review) RatingStats {
	stats := RatingStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	sum := 0
	for _, r := range reviews {
		if r.RatingValue < 1 || r.RatingValue > 5 {
			continue
		}
		stats.Distribution[r.RatingValue]++
		stats.Total++
		sum += r.RatingValue
	}

	if stats.Total > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Total)*10) / 10
	}
	return stats
}
