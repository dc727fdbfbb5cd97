package acquisition

import (
	"reflect"
	"testing"
)

func lawsuit(caseNumber, court, name string) RawEntity {
	return RawEntity{"case_number": caseNumber, "court": court, "name": name}
}

func names(es []RawEntity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i], _ = e["name"].(string)
	}
	return out
}

func TestDeduplicateKeepsFirstOccurrence(t *testing.T) {
	in := []RawEntity{
		lawsuit("1:23-cv-001", "N.D. Cal.", "A"),
		lawsuit("2:24-cv-777", "S.D.N.Y.", "B"),
		lawsuit("1:23-cv-001", "N.D. Cal.", "C"),
	}
	got := Deduplicate(in, KindLawsuit)
	if want := []string{"A", "B"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("names = %v, want %v", names(got), want)
	}
}

func TestDeduplicateLawsuitCourtMatters(t *testing.T) {
	in := []RawEntity{
		lawsuit("100", "Court A", "A"),
		lawsuit("100", "Court B", "B"),
	}
	if got := Deduplicate(in, KindLawsuit); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestDeduplicateSeparatorInFields(t *testing.T) {
	in := []RawEntity{
		lawsuit("a|b", "c", "A"),
		lawsuit("a", "b|c", "B"),
	}
	if got := Deduplicate(in, KindLawsuit); len(got) != 2 {
		t.Errorf("len = %d, want 2 distinct lawsuits", len(got))
	}
	if IdentityKey(in[0], KindLawsuit) == IdentityKey(in[1], KindLawsuit) {
		t.Error("keys collide")
	}
}

func TestDeduplicateNumericCaseNumber(t *testing.T) {
	in := []RawEntity{
		{"case_number": float64(42), "court": "X", "name": "A"},
		{"case_number": "42", "court": "X", "name": "B"},
	}
	if got := Deduplicate(in, KindLawsuit); !reflect.DeepEqual(names(got), []string{"A"}) {
		t.Errorf("names = %v, want [A]", names(got))
	}
}

func TestDeduplicateDefendantNormalizesName(t *testing.T) {
	in := []RawEntity{
		{"company_name": "Acme Corp", "name": "A"},
		{"company_name": "  ACME CORP ", "name": "B"},
		{"company_name": "Globex", "name": "C"},
	}
	got := Deduplicate(in, KindDefendant)
	if want := []string{"A", "C"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("names = %v, want %v", names(got), want)
	}
}

func TestDeduplicateDegenerateKeysCollapse(t *testing.T) {
	in := []RawEntity{
		{"court": "X", "name": "A"},
		{"case_number": "", "court": "Y", "name": "B"},
		{"case_number": "7", "name": "C"},
		lawsuit("8", "Z", "D"),
	}
	got, stats := DeduplicateWithStats(in, KindLawsuit)
	if want := []string{"A", "D"}; !reflect.DeepEqual(names(got), want) {
		t.Errorf("names = %v, want %v", names(got), want)
	}
	if stats.Degenerate != 3 || stats.Dropped != 2 || stats.Kept != 2 || stats.Input != 4 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDeduplicateIdempotent(t *testing.T) {
	in := []RawEntity{
		lawsuit("1", "A", "a"), lawsuit("2", "A", "b"), lawsuit("1", "A", "c"),
		lawsuit("3", "B", "d"), lawsuit("2", "A", "e"),
	}
	once := Deduplicate(in, KindLawsuit)
	twice := Deduplicate(once, KindLawsuit)
	if !reflect.DeepEqual(names(once), names(twice)) {
		t.Errorf("not idempotent: %v vs %v", names(once), names(twice))
	}
}

func TestDeduplicateUnknownKindPassesThrough(t *testing.T) {
	in := []RawEntity{lawsuit("1", "A", "a"), lawsuit("1", "A", "b")}
	if got := Deduplicate(in, EntityKind("settlement")); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	if got := Deduplicate(nil, KindDefendant); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestParseEntityKind(t *testing.T) {
	tests := []struct {
		in      string
		want    EntityKind
		wantErr bool
	}{
		{"lawsuit", KindLawsuit, false},
		{" Defendant ", KindDefendant, false},
		{"claim", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEntityKind(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseEntityKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFieldString(t *testing.T) {
	e := RawEntity{
		"s":      "abc",
		"blank":  "   ",
		"num":    float64(12.5),
		"int":    7,
		"nested": map[string]any{"value": "inner"},
		"null":   nil,
		"list":   []any{"x"},
	}
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"s", "abc", true},
		{"blank", "", false},
		{"num", "12.5", true},
		{"int", "7", true},
		{"nested", "inner", true},
		{"null", "", false},
		{"list", "", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		got, ok := FieldString(e, tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FieldString(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}
