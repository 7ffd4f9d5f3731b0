package model

// DraftFile is the top-level structure stored in each daily draft file.
// Drafts are keyed by period label.
type DraftFile struct {
	Date    string                 `json:"date"`
	Project string                 `json:"project,omitempty"`
	Drafts  map[string]HourlyEntry `json:"drafts"`
}
