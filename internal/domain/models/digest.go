package models

import "time"

// WeeklyDigest is the stored result of the scheduled weekly aggregation sweep.
type WeeklyDigest struct {
	UserID     string              `bson:"user_id" json:"userId"`
	WeekStart  time.Time           `bson:"week_start" json:"weekStart"`
	WeekEnd    time.Time           `bson:"week_end" json:"weekEnd"`
	Total      float64             `bson:"total" json:"total"`
	ByCategory []CategoryBreakdown `bson:"by_category" json:"byCategory"`
	CreatedAt  time.Time           `bson:"created_at" json:"createdAt"`
}
