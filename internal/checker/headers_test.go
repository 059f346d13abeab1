package checker

import (
	"net/http"
	"reflect"
	"testing"
)

func TestDefaultHeaderSetOrder(t *testing.T) {
	want := HeaderSet{
		"X-XSS-Protection",
		"X-Frame-Options",
		"Content-Security-Policy",
		"X-Content-Type-Options",
		"Referrer-Policy",
		"Feature-Policy",
	}
	if got := DefaultHeaderSet(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected header set: %v", got)
	}
}

func TestDefaultHeaderSetIsCopy(t *testing.T) {
	hs := DefaultHeaderSet()
	hs[0] = "Mutated"

	if DefaultHeaderSet()[0] != "X-XSS-Protection" {
		t.Fatal("expected DefaultHeaderSet to return an independent copy")
	}
}

func TestPresence_OnlyFrameOptions(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-Frame-Options", "DENY")
	headers.Set("Server", "nginx")

	got := DefaultHeaderSet().Presence(headers)
	want := []bool{false, true, false, false, false, false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPresence_AllPresent(t *testing.T) {
	headers := http.Header{}
	for _, name := range DefaultHeaderSet() {
		headers.Set(name, "x")
	}

	for i, present := range DefaultHeaderSet().Presence(headers) {
		if !present {
			t.Errorf("expected header %d to be present", i)
		}
	}
}

func TestPresence_CaseInsensitiveAndEmptyValue(t *testing.T) {
	headers := http.Header{
		"content-security-policy": {"default-src 'self'"},
		"Referrer-Policy":         {""},
	}

	got := DefaultHeaderSet().Presence(headers)
	want := []bool{false, false, true, false, true, false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPresence_ValueIgnored(t *testing.T) {
	headers := http.Header{}
	headers.Set("X-XSS-Protection", "0")

	if got := DefaultHeaderSet().Presence(headers); !got[0] {
		t.Fatal("expected X-XSS-Protection: 0 to count as present")
	}
}
