// Package security holds the request-hardening and data-protection helpers:
// PII detection and field encryption, rate limiting, bot scoring, upload
// validation, audit logging and response security headers.
package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PIIFields are field names that always hold personal data.
var PIIFields = []string{
	"name",
	"email",
	"address",
	"phone",
	"social_security_number",
	"date_of_birth",
	"credit_card_number",
	"bank_account_number",
}

var (
	piiFieldSet = toSet(PIIFields)

	// Removed outright by Anonymize.
	dropOnAnonymize = toSet([]string{"credit_card_number", "bank_account_number", "social_security_number"})
	// Replaced by a keyed pseudonym by Anonymize.
	hashOnAnonymize = toSet([]string{"email", "name", "phone", "address"})

	emailPattern = regexp.MustCompile(`[^@\s]+@[^@\s]+\.[^@\s]+`)
	phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
	ssnPattern   = regexp.MustCompile(`\d{3}[-.\s]?\d{2}[-.\s]?\d{4}`)
)

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, s := range items {
		m[s] = true
	}
	return m
}

// ScanPII returns the keys of data that hold PII: first known PII field
// names with a non-empty value, then any field whose value looks like an
// email, phone number or SSN. Keys are reported once, each group in sorted
// order.
func ScanPII(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	found := make([]string, 0)
	seen := make(map[string]bool)
	for _, k := range keys {
		if piiFieldSet[strings.ToLower(k)] && truthy(data[k]) {
			found = append(found, k)
			seen[k] = true
		}
	}
	for _, k := range keys {
		if seen[k] {
			continue
		}
		v := stringify(data[k])
		if emailPattern.MatchString(v) || phonePattern.MatchString(v) || ssnPattern.MatchString(v) {
			found = append(found, k)
			seen[k] = true
		}
	}
	return found
}

// Minimize keeps only the required fields that are present in data.
func Minimize(data map[string]any, required []string) map[string]any {
	out := make(map[string]any, len(required))
	for _, f := range required {
		if v, ok := data[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Anonymizer strips or pseudonymizes PII for analytics. Pseudonyms are an
// HMAC of the value, so the same input always maps to the same token.
type Anonymizer struct {
	secret []byte
}

// NewAnonymizer uses secret as the HMAC key; an empty secret gets a random
// per-process key, which keeps pseudonyms stable only for this process.
func NewAnonymizer(secret []byte) (*Anonymizer, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate anonymizer key: %w", err)
		}
	}
	return &Anonymizer{secret: secret}, nil
}

// Anonymize returns a copy of data with card, bank and SSN fields removed and
// email, name, phone and address replaced by "hashed:<field>:<token>".
func (a *Anonymizer) Anonymize(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	for _, field := range ScanPII(data) {
		lower := strings.ToLower(field)
		switch {
		case dropOnAnonymize[lower]:
			delete(out, field)
		case hashOnAnonymize[lower]:
			out[field] = "hashed:" + field + ":" + a.token(stringify(data[field]))
		}
	}
	return out
}

func (a *Anonymizer) token(value string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))[:16]
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
