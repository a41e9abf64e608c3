package entity

// Service is a catalogue entry. Duration is in minutes.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	BasePrice   int64  `json:"basePrice"`
	Duration    int    `json:"duration"`
	Icon        string `json:"icon"`
}
