package security

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetectBot(t *testing.T) {
	repetitive := make([]string, 20)
	for i := range repetitive {
		repetitive[i] = "/api/v1/sources"
	}
	varied := []string{"/a", "/b", "/c"}

	tests := []struct {
		name    string
		rpm     float64
		pattern []string
		ua      string
		bot     bool
		conf    float64
	}{
		{"human", 5, varied, "Mozilla/5.0", false, 0},
		{"moderate only", 45, varied, "Mozilla/5.0", false, 0.2},
		{"high and repetitive", 90, repetitive, "Mozilla/5.0", true, 0.7},
		{"moderate and repetitive", 45, repetitive, "Mozilla/5.0", true, 0.5},
		{"bot agent", 1, varied, "Googlebot/2.1", true, 0.5},
		{"headless", 1, nil, "HeadlessChrome", true, 0.5},
		{"everything", 100, repetitive, "crawler", true, 1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := DetectBot(tt.rpm, tt.pattern, tt.ua)
			if v.IsBot != tt.bot || v.Confidence != tt.conf {
				t.Errorf("DetectBot = %+v, want bot=%v conf=%v", v, tt.bot, tt.conf)
			}
		})
	}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name string
		size int64
		ct   string
		want error
	}{
		{"receipt.pdf", 1024, "application/pdf", nil},
		{"Photo.JPG", 1024, "image/jpeg", nil},
		{"big.pdf", 11 << 20, "application/pdf", ErrFileTooLarge},
		{"run.exe", 10, "application/x-msdownload", ErrFileTypeNotAllowed},
		{"receipt", 10, "application/pdf", ErrExtensionNotAllowed},
		{"receipt.pdf.exe", 10, "application/pdf", ErrExtensionNotAllowed},
		{"receipt.exe.pdf", 10, "application/pdf", ErrMultipleExtensions},
	}
	for _, tt := range tests {
		if got := ValidateUpload(tt.name, tt.size, tt.ct); !errors.Is(got, tt.want) && got != tt.want {
			t.Errorf("ValidateUpload(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken(48)
	if err != nil {
		t.Fatal(err)
	}
	if len(tok) != 48 {
		t.Errorf("len = %d", len(tok))
	}
	for _, r := range tok {
		if !strings.ContainsRune(tokenAlphabet, r) {
			t.Errorf("unexpected rune %q", r)
		}
	}
	other, _ := GenerateToken(48)
	if other == tok {
		t.Error("tokens repeat")
	}
	if def, _ := GenerateToken(0); len(def) != 32 {
		t.Errorf("default len = %d", len(def))
	}
}

func TestHeaders(t *testing.T) {
	h := Headers(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for k, v := range SecurityHeaders {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

type memAudit struct{ events []AuditEvent }

func (m *memAudit) InsertAudit(ctx context.Context, e AuditEvent) error {
	m.events = append(m.events, e)
	return nil
}

func TestAuditorEncryptsPII(t *testing.T) {
	store := &memAudit{}
	c, _ := NewFieldCipher(testKey())
	a := NewAuditor(store, c, nil)

	err := a.Log(context.Background(), "u1", OpProfileUpdate,
		map[string]any{"email": "jane@example.com", "field": "frequency"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if len(store.events) != 1 {
		t.Fatalf("events = %d", len(store.events))
	}
	e := store.events[0]
	if s, _ := e.Details["email"].(string); !IsEncrypted(s) {
		t.Errorf("email stored in clear: %v", e.Details["email"])
	}
	if e.Details["field"] != "frequency" || e.IPAddress != "10.0.0.1" {
		t.Errorf("event = %+v", e)
	}
}

func TestAuditorSkipsNonSensitive(t *testing.T) {
	store := &memAudit{}
	a := NewAuditor(store, nil, nil)
	if err := a.Log(context.Background(), "u1", "page_view", nil, ""); err != nil {
		t.Fatal(err)
	}
	if len(store.events) != 0 {
		t.Error("non-sensitive operation audited")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"203.0.113.7:51234", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.7", "203.0.113.7"},
		{"", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = tt.remote
		if got := ClientIP(r); got != tt.want {
			t.Errorf("ClientIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}
