package model

// VisitEvent describes one redirect occurrence. Published to the message
// broker by the resolver and consumed asynchronously by the click worker.
// Source and DetailType tag the producer; the consumer drops events that
// carry unexpected tags.
type VisitEvent struct {
	Source     string `json:"source"`
	DetailType string `json:"detail_type"`
	Slug       string `json:"slug"`
	LongURL    string `json:"long_url"`
	SourceIP   string `json:"source_ip"`
	UserAgent  string `json:"user_agent"`
	Timestamp  int64  `json:"timestamp"`
}

// Tags expected by the visit-event consumer.
const (
	EventSource     = "notshort-redirect"
	EventDetailType = "visit"
)
