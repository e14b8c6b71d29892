package source

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"matchfeed-engine/internal/domain"
)

// This file is the only place that branches on legacy input shapes.
// Everything downstream sees the canonical domain.Profile fields.

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// CommaSkills splits a legacy "javascript, react, node" string into
// normalized names.
func CommaSkills(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(cleanText(part))
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// SkillsFromAny converts whatever encoding a source uses for skills
// (structured list, list of names, plain comma-string) into structured
// skills plus legacy names.
func SkillsFromAny(v any) (skills []domain.Skill, legacy []string) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return nil, CommaSkills(t)
	case []string:
		for _, n := range t {
			legacy = append(legacy, strings.ToLower(cleanText(n)))
		}
		return nil, legacy
	case []any:
		for _, el := range t {
			switch item := el.(type) {
			case string:
				if n := strings.ToLower(cleanText(item)); n != "" {
					legacy = append(legacy, n)
				}
			case map[string]any:
				name := cleanText(stringField(item, "name", "skill", "title"))
				if name == "" {
					continue
				}
				skills = append(skills, domain.Skill{
					Name:     name,
					Category: cleanText(stringField(item, "category")),
					Level:    domain.ParseSkillLevel(stringField(item, "level")),
					Verified: boolField(item, "verified"),
				})
			}
		}
		return skills, legacy
	default:
		return nil, nil
	}
}

// LocationFromAny handles the encodings seen in the wild: a coordinate
// object under varying key names, a [lon, lat] (or [lat, lon]) pair, or a
// bare address string.
func LocationFromAny(v any) domain.Location {
	switch t := v.(type) {
	case nil:
		return domain.Location{}
	case string:
		return domain.Location{Name: cleanText(t)}
	case map[string]any:
		loc := domain.Location{
			Lat:  floatField(t, "lat", "latitude"),
			Lon:  floatField(t, "lon", "lng", "longitude"),
			Name: cleanText(stringField(t, "name", "city", "address", "display_name")),
		}
		if !loc.Valid() && loc.Name == "" {
			if inner, ok := t["coordinates"]; ok {
				loc = LocationFromAny(inner)
			}
		}
		return loc
	case []any:
		if len(t) != 2 {
			return domain.Location{}
		}
		a, aok := toFloat(t[0])
		b, bok := toFloat(t[1])
		if !aok || !bok {
			return domain.Location{}
		}
		// GeoJSON order is [lon, lat]; flip when the first value cannot
		// be a longitude's partner.
		if math.Abs(a) <= 90 && math.Abs(b) > 90 {
			return domain.Location{Lat: a, Lon: b}
		}
		return domain.Location{Lat: b, Lon: a}
	default:
		return domain.Location{}
	}
}

// StripHTML reduces an HTML fragment to clean text. Non-HTML input passes
// through untouched apart from whitespace cleanup.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return cleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return cleanText(s)
	}
	return cleanText(doc.Text())
}

// SynthesizeID builds a stable id for records the source ships without one.
func SynthesizeID(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])[:16]
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func floatField(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := toFloat(m[k]); ok {
			return f
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
