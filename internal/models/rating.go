package models

// RatingEntry is one row of the Alexa-style ratings table: a host's global
// rank plus per-country rank weights, loaded once at startup (grounded in
// original_source/src/alexa.rs).
type RatingEntry struct {
	Host    string             `json:"host"`
	Global  float64            `json:"global"`
	Country map[string]float64 `json:"country"`
}

// ClusterStats is a periodic snapshot logged by the Stats lifecycle task:
// per-category member counts, inbox backlog, and Store footprint.
type ClusterStats struct {
	Language        Language
	PerCategory     map[Category]int
	InboxPerCategory map[Category]int
	StoreLen        int
	StoreSizeBytes  int64
}
