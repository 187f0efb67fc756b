package models

// SocialEnrichPayload is the queued job for fetching link metadata of a social post.
type SocialEnrichPayload struct {
	PostID string `json:"postId"`
	URL    string `json:"url"`
}

// PushMessage is a single device notification.
type PushMessage struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}
