// Package rating loads the Alexa-style host ranking table used to weight
// article decay, grounded in original_source/src/alexa.rs.
package rating

import (
	"net/url"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"newsthreads/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Lookup is an in-memory, read-only table of RatingEntry keyed by bare
// host, loaded once at startup and shared across both ClusterEngines.
type Lookup struct {
	byHost map[string]models.RatingEntry
}

// Load reads a JSON array of RatingEntry from path.
func Load(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []models.RatingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	l := &Lookup{byHost: make(map[string]models.RatingEntry, len(entries))}
	for _, e := range entries {
		l.byHost[e.Host] = e
	}
	return l, nil
}

// Empty returns a Lookup with no entries, for environments without a
// ratings file configured.
func Empty() *Lookup {
	return &Lookup{byHost: make(map[string]models.RatingEntry)}
}

// Find looks up the bare host of rawURL (with a leading "www." stripped),
// returning the global rating and the country-specific rating for
// countryCode ("us" or "ru"). Missing entries return the spec's defaults:
// alexa rating 1.0, global rating 0.1.
func (l *Lookup) Find(rawURL, countryCode string) (alexa, global float64) {
	host := bareHost(rawURL)
	entry, ok := l.byHost[host]
	if !ok {
		return 1.0, 0.1
	}

	alexa = 1.0
	if v, ok := entry.Country[countryCode]; ok {
		alexa = v
	}
	return alexa, entry.Global
}

func bareHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
