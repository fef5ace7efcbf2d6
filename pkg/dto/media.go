package dto

type MediaResponse struct {
	ID          int64   `json:"id"`
	PersonID    int64   `json:"person_id"`
	Type        string  `json:"type"`
	URL         string  `json:"url"`
	Label       *string `json:"label,omitempty"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type MediaQuery struct {
	Type     string `form:"type"`
	PersonID int64  `form:"person_id"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// WSMediaEvent is a WebSocket message for real-time ingest outcomes.
type WSMediaEvent struct {
	Type      string `json:"type"` // media.indexed, media.skipped
	MediaID   int64  `json:"media_id"`
	PersonID  int64  `json:"person_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}
