package models

// Record is the Codec's on-disk schema: the subset of Article fields that
// survive a Store round-trip. Body is intentionally absent — it is only
// available pre-persist, during classification.
type Record struct {
	FileName      string
	Title         string
	URL           string
	Accuracy      float64
	DatePublished int64
	Category      Category
	Language      Language
	USRating      float32
	RURating      float32
	GBRating      float32
}

// ToRecord projects an Article onto its persisted schema.
func (a *Article) ToRecord() Record {
	return Record{
		FileName:      a.FileName,
		Title:         a.Title,
		URL:           a.URL,
		Accuracy:      a.Accuracy,
		DatePublished: a.PublishedTime,
		Category:      a.Category,
		Language:      a.Language,
		USRating:      float32(a.AlexaUS),
		RURating:      float32(a.AlexaRU),
		GBRating:      float32(a.GlobalRating),
	}
}

// FromRecord reconstructs an Article from its persisted schema. Body is
// left empty, matching the Store contract.
func FromRecord(r Record) *Article {
	return &Article{
		FileName:      r.FileName,
		Title:         r.Title,
		URL:           r.URL,
		Accuracy:      r.Accuracy,
		PublishedTime: r.DatePublished,
		Category:      r.Category,
		Language:      r.Language,
		AlexaUS:       float64(r.USRating),
		AlexaRU:       float64(r.RURating),
		GlobalRating:  float64(r.GBRating),
	}
}
