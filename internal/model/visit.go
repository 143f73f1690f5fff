package model

import "time"

// Visit records one successful redirect. Never mutated; removed only
// when the owning short URL is deleted.
type Visit struct {
	ID             string    `json:"id"`
	ShortenedURLID string    `json:"shortened_url_id"`
	VisitTime      time.Time `json:"visit_time"`
}
