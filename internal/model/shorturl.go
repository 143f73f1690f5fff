package model

// ShortURL maps a slug to its long URL. The slug is globally unique.
type ShortURL struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	URL    string `json:"url"`
	UserID string `json:"user_id"`
}

// ShortenRequest is the body of POST /shorten.
type ShortenRequest struct {
	URL string `json:"url"`
}

// UpdateRequest is the body of PUT /shorten. UpdatedSlug is optional.
type UpdateRequest struct {
	Slug        string `json:"slug"`
	UpdatedURL  string `json:"updated_url"`
	UpdatedSlug string `json:"updated_slug,omitempty"`
}

// DeleteRequest is the body of DELETE /shorten.
type DeleteRequest struct {
	Slug string `json:"slug"`
}
