// Package acquisition holds the decision logic of the scraping pipeline:
// entity resolution over raw scraped records, data source scoring, and a
// polite HTTP fetcher for source pages.
package acquisition

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityKind selects the identity rule used for deduplication.
type EntityKind string

const (
	KindLawsuit   EntityKind = "lawsuit"
	KindDefendant EntityKind = "defendant"
)

// ParseEntityKind validates a kind tag coming from a request or flag.
func ParseEntityKind(s string) (EntityKind, error) {
	switch k := EntityKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLawsuit, KindDefendant:
		return k, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q (want lawsuit or defendant)", s)
	}
}

// RawEntity is a loosely-typed scraped record, as decoded from JSON.
type RawEntity map[string]any

// IdentityKey derives the identity of an entity for the given kind.
//
// Lawsuits are identified by the (case_number, court) pair, defendants by their
// lower-cased, trimmed company_name. When a required field is missing or
// blank the key is the empty string, and all such entities share it.
func IdentityKey(e RawEntity, kind EntityKind) string {
	switch kind {
	case KindLawsuit:
		caseNumber, ok1 := FieldString(e, "case_number")
		court, ok2 := FieldString(e, "court")
		if !ok1 || !ok2 {
			return ""
		}
		// Length-prefixed so a "|" inside either field cannot collide.
		return strconv.Itoa(len(caseNumber)) + ":" + caseNumber + "|" + court
	case KindDefendant:
		name, ok := FieldString(e, "company_name")
		if !ok {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(name))
	default:
		return ""
	}
}

// DedupeStats describes what a deduplication pass dropped.
type DedupeStats struct {
	Input      int `json:"input"`
	Kept       int `json:"kept"`
	Dropped    int `json:"dropped"`
	Degenerate int `json:"degenerate"` // inputs whose identity key was empty
}

// Deduplicate removes entities whose identity key was already seen, keeping
// the first occurrence and preserving input order. An unknown kind returns
// the input unchanged.
func Deduplicate(entities []RawEntity, kind EntityKind) []RawEntity {
	kept, _ := DeduplicateWithStats(entities, kind)
	return kept
}

// DeduplicateWithStats is Deduplicate plus counters, so callers can surface
// how many records had no usable identity.
func DeduplicateWithStats(entities []RawEntity, kind EntityKind) ([]RawEntity, DedupeStats) {
	stats := DedupeStats{Input: len(entities)}
	if kind != KindLawsuit && kind != KindDefendant {
		out := append([]RawEntity(nil), entities...)
		stats.Kept = len(out)
		return out, stats
	}

	seen := make(map[string]struct{}, len(entities))
	out := make([]RawEntity, 0, len(entities))
	for _, e := range entities {
		key := IdentityKey(e, kind)
		if key == "" {
			stats.Degenerate++
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}

	stats.Kept = len(out)
	stats.Dropped = stats.Input - stats.Kept
	return out, stats
}
