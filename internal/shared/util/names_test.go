package util

import (
	"strings"
	"testing"
)

func TestUploadName(t *testing.T) {
	long := strings.Repeat("a", 200) + ".pdf"
	tests := []struct {
		in   string
		want string
	}{
		{in: "blood-panel.pdf", want: "blood-panel.pdf"},
		{in: "  scans/xray.png ", want: "xray.png"},
		{in: `C:\reports\lab.pdf`, want: "lab.pdf"},
		{in: "../secret.pdf", want: "secret.pdf"},
		{in: "..", want: "report"},
		{in: "   ", want: "report"},
		{in: "lab\x00\n\"final\".pdf", want: "labfinal.pdf"},
		{in: long, want: strings.Repeat("a", maxUploadNameLen-4) + ".pdf"},
	}
	for _, tt := range tests {
		if got := UploadName(tt.in, "report"); got != tt.want {
			t.Fatalf("UploadName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSessionObjectKey(t *testing.T) {
	id := "../../b3f1c2d4-session"
	got := SessionObjectKey(id, "medicalData")
	if got != SessionObjectKey(id, "medicalData") {
		t.Fatalf("expected stable key, got %s", got)
	}
	if !strings.HasPrefix(got, "sessions/") || !strings.HasSuffix(got, "/medicalData.json") {
		t.Fatalf("unexpected key layout %q", got)
	}
	digest := strings.TrimSuffix(strings.TrimPrefix(got, "sessions/"), "/medicalData.json")
	if len(digest) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(digest))
	}
	for _, ch := range digest {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("digest contains non-hex character: %c", ch)
		}
	}
	if SessionObjectKey("other", "medicalData") == got {
		t.Fatalf("expected distinct keys per session")
	}
}
