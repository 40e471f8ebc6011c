package models

// StatusResponse is the generic success/failure payload for mutations with
// no natural body.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Feed is what the feed composer returns: posts plus discovery suggestions.
type Feed struct {
	Posts          []*Post `json:"posts"`
	SuggestedUsers []*User `json:"suggestedUsers"`
	// ColdStart is true when the viewer follows nobody and the global
	// fallback feed was returned instead.
	ColdStart bool `json:"coldStart"`
}
