// Package topic holds the catalog of interview subjects a candidate can
// pick from and resolves free-form input to a catalog entry.
package topic

import "strings"

// Topic is one interview subject. Key is the canonical lowercase form
// stored with a session; Label is what the UI shows.
type Topic struct {
	Key   string
	Label string
}

var catalog = []Topic{
	{Key: "full stack web development", Label: "Full Stack Web Development"},
	{Key: "data structures", Label: "Data Structures"},
	{Key: "computer networks", Label: "Computer Networks"},
	{Key: "operating systems", Label: "Operating Systems"},
	{Key: "database management systems", Label: "Database Management Systems"},
	{Key: "object oriented programming", Label: "Object Oriented Programming"},
}

// aliases maps historical and abbreviated spellings to catalog keys.
// Every value must be a key present in the catalog.
var aliases = map[string]string{
	"full stack development":     "full stack web development",
	"fullstack development":      "full stack web development",
	"fullstack web development":  "full stack web development",
	"dbms":                       "database management systems",
	"database management system": "database management systems",
	"oop":                        "object oriented programming",
	"o.o.p":                      "object oriented programming",
	"operating system":           "operating systems",
	"os":                         "operating systems",
	"cn":                         "computer networks",
	"networks":                   "computer networks",
	"ds":                         "data structures",
}

var byKey = func() map[string]Topic {
	m := make(map[string]Topic, len(catalog))
	for _, t := range catalog {
		m[t.Key] = t
	}
	return m
}()

// Default returns the topic used when the input cannot be resolved.
func Default() Topic {
	return catalog[0]
}

// All returns the full catalog in display order.
func All() []Topic {
	out := make([]Topic, len(catalog))
	copy(out, catalog)
	return out
}

// Resolve maps arbitrary input to a catalog topic. It never fails:
// unknown or empty input resolves to the default topic.
func Resolve(input string) Topic {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Default()
	}
	if key, ok := aliases[normalized]; ok {
		if t, ok := byKey[key]; ok {
			return t
		}
	}
	if t, ok := byKey[normalized]; ok {
		return t
	}
	return Default()
}
