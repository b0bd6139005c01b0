package models

// Category is the fixed set of topical buckets an article can be
// classified into.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySociety
	CategoryEconomy
	CategoryTechnology
	CategoryEntertainment
	CategorySports
	CategoryScience
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategorySociety:
		return "society"
	case CategoryEconomy:
		return "economy"
	case CategoryTechnology:
		return "technology"
	case CategoryEntertainment:
		return "entertainment"
	case CategorySports:
		return "sports"
	case CategoryScience:
		return "science"
	case CategoryOther:
		return "other"
	default:
		return "unknown"
	}
}

// ParseCategory maps a query-string category argument to a Category. The
// caller-level sentinel "any" is not a Category and returns false here;
// callers handle it before calling.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "society":
		return CategorySociety, true
	case "economy":
		return CategoryEconomy, true
	case "technology":
		return CategoryTechnology, true
	case "entertainment":
		return CategoryEntertainment, true
	case "sports":
		return CategorySports, true
	case "science":
		return CategoryScience, true
	case "other":
		return CategoryOther, true
	default:
		return CategoryUnknown, false
	}
}

// AllCategories lists every classifiable category, in the fixed order the
// cluster engine partitions work by.
var AllCategories = []Category{
	CategorySociety,
	CategoryEconomy,
	CategoryTechnology,
	CategoryEntertainment,
	CategorySports,
	CategoryScience,
	CategoryOther,
}

// Language is the pair of languages the pipeline accepts.
type Language int

const (
	LanguageUnknown Language = iota
	LanguageEn
	LanguageRu
)

func (l Language) String() string {
	switch l {
	case LanguageEn:
		return "en"
	case LanguageRu:
		return "ru"
	default:
		return "unknown"
	}
}

// ParseLanguage maps a query-string lang_code argument to a Language.
func ParseLanguage(s string) (Language, bool) {
	switch s {
	case "en":
		return LanguageEn, true
	case "ru":
		return LanguageRu, true
	default:
		return LanguageUnknown, false
	}
}

// Article is the authoritative in-memory record for a single ingested
// document. Body is populated only pre-persist (during classification) and
// is never restored from Store.
type Article struct {
	FileName      string
	URL           string
	Title         string
	PublishedTime int64 // seconds since epoch
	Language      Language
	Category      Category
	Accuracy      float64 // classifier confidence, or fixed 0.90/0.95 for URL-path hits
	AlexaUS       float64 // default 1.0
	AlexaRU       float64 // default 1.0
	GlobalRating  float64 // default 0.1, capped at 100.0 in decay
	Body          string
}

// Decay computes the staleness score for an article at evaluation time
// now (unix seconds), using divisor div (10_000 per the reference model).
// Higher decay means staler; a decay above 5.0 marks the article stale.
func (a *Article) Decay(now int64, div float64) float64 {
	return decay(float64(now-a.PublishedTime), div, a.Accuracy, a.GlobalRating, a.AlexaUS, a.AlexaRU)
}
