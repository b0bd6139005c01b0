package classify

import "newsthreads/internal/models"

// commonValues maps a URL path token to its category, ported from
// original_source/src/categories/classifiers.rs::COMMON_VALUES. A URL-path
// hit is tried before the topic model and, if found, wins outright.
var commonValues = map[string]models.Category{
	"accidents":        models.CategorySociety,
	"crime":            models.CategorySociety,
	"geopolitics":      models.CategorySociety,
	"incident":         models.CategorySociety,
	"incidents":        models.CategorySociety,
	"politics":         models.CategorySociety,
	"politika":         models.CategorySociety,
	"world":            models.CategorySociety,
	"international":    models.CategorySociety,
	"current-affairs":  models.CategorySociety,
	"social":           models.CategorySociety,
	"society":          models.CategorySociety,

	"business":   models.CategoryEconomy,
	"economy":    models.CategoryEconomy,
	"economic":   models.CategoryEconomy,
	"economics":  models.CategoryEconomy,
	"ekonomika":  models.CategoryEconomy,
	"finance":    models.CategoryEconomy,
	"markets":    models.CategoryEconomy,
	"commercial": models.CategoryEconomy,
	"biznes":     models.CategoryEconomy,
	"market":     models.CategoryEconomy,
	"money":      models.CategoryEconomy,
	"stocks":     models.CategoryEconomy,

	"baseball":    models.CategorySports,
	"basketball":  models.CategorySports,
	"cricket":     models.CategorySports,
	"football":    models.CategorySports,
	"football-news": models.CategorySports,
	"futbol":      models.CategorySports,
	"rugby":       models.CategorySports,
	"soccer":      models.CategorySports,
	"sport":       models.CategorySports,
	"sports":      models.CategorySports,
	"tennis":      models.CategorySports,
	"sport-cat":   models.CategorySports,

	"bollywood":     models.CategoryEntertainment,
	"entertainment": models.CategoryEntertainment,
	"movies":        models.CategoryEntertainment,
	"showbiz":       models.CategoryEntertainment,
	"music":         models.CategoryEntertainment,
	"art":           models.CategoryEntertainment,
	"fashion":       models.CategoryEntertainment,
	"lifestyle":     models.CategoryEntertainment,
	"culture":       models.CategoryEntertainment,
	"magazine":      models.CategoryEntertainment,
	"tv-and-radio":  models.CategoryEntertainment,
	"beauty":        models.CategoryEntertainment,
	"film":          models.CategoryEntertainment,
	"kultura":       models.CategoryEntertainment,

	"health":        models.CategoryScience,
	"science":       models.CategoryScience,
	"environment":   models.CategoryScience,
	"neuroscience":  models.CategoryScience,
	"physics":       models.CategoryScience,
	"chemistry":     models.CategoryScience,
	"biology":       models.CategoryScience,

	"weather":   models.CategoryOther,
	"travel":    models.CategoryOther,
	"family":    models.CategoryOther,
	"food":      models.CategoryOther,
	"recipes":   models.CategoryOther,
	"horoscope": models.CategoryOther,

	"tech":       models.CategoryTechnology,
	"technology": models.CategoryTechnology,
	"gadgets":    models.CategoryTechnology,
}

// classifyURL splits the URL path, drops the last segment (the article's
// own slug), and returns the first remaining segment found in
// commonValues.
func classifyURL(path string) (models.Category, bool) {
	segments := splitPath(path)
	if len(segments) <= 1 {
		return models.CategoryUnknown, false
	}
	segments = segments[:len(segments)-1]
	for _, seg := range segments {
		if cat, ok := commonValues[seg]; ok {
			return cat, true
		}
	}
	return models.CategoryUnknown, false
}

func splitPath(path string) []string {
	var segments []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				segments = append(segments, path[start:i])
			}
			start = i + 1
		}
	}
	return segments
}
