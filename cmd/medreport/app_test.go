package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T, reply string) string {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "geminiResponse": reply})
	}))
	t.Cleanup(backend.Close)

	t.Setenv("BACKEND_URL", backend.URL)
	t.Setenv("SESSION_STORE", "local")
	t.Setenv("LOCAL_STORE_DIR", t.TempDir())
	t.Setenv("SESSION_ID", "cli-session")

	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"medreport"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestAnalyzeShowClear(t *testing.T) {
	data, err := os.ReadFile("../../internal/report/testdata/valid_report.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	path := setupEnv(t, "```json\n"+string(data)+"\n```")

	code, out, errOut := runCLI(t, "analyze", path)
	if code != 0 {
		t.Fatalf("analyze exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, `"state": "success"`) {
		t.Fatalf("unexpected analyze output %s", out)
	}
	if !strings.Contains(errOut, "Analyzing report...") {
		t.Fatalf("expected busy notice, got %q", errOut)
	}

	// show runs in a fresh app, so the result must come back from the local slot
	code, out, errOut = runCLI(t, "show", "--tab", "risks", "--risk", "cardio")
	if code != 0 {
		t.Fatalf("show exit %d: %s", code, errOut)
	}
	var shown struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
		View struct {
			Selected struct {
				ID string `json:"id"`
			} `json:"selected"`
		} `json:"view"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode show output: %v", err)
	}
	if shown.User.Name != "Amina Rahman" || shown.View.Selected.ID != "cardio" {
		t.Fatalf("unexpected show output %+v", shown)
	}

	if code, _, errOut = runCLI(t, "clear"); code != 0 {
		t.Fatalf("clear exit %d: %s", code, errOut)
	}
	code, _, errOut = runCLI(t, "show")
	if code == 0 || !strings.Contains(errOut, "no analysis stored") {
		t.Fatalf("expected show to fail after clear, got %d %q", code, errOut)
	}
}

func TestShowFindsAnalysisWithoutStoreSetting(t *testing.T) {
	data, err := os.ReadFile("../../internal/report/testdata/valid_report.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	path := setupEnv(t, string(data))
	t.Setenv("SESSION_STORE", "")

	if code, _, errOut := runCLI(t, "analyze", path); code != 0 {
		t.Fatalf("analyze exit %d: %s", code, errOut)
	}
	code, out, errOut := runCLI(t, "show", "--tab", "organs")
	if code != 0 {
		t.Fatalf("show exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Amina Rahman") {
		t.Fatalf("unexpected show output %s", out)
	}
}

func TestAnalyzeRejected(t *testing.T) {
	path := setupEnv(t, `{"status":false,"msg":"Not a medical report"}`)

	code, _, errOut := runCLI(t, "analyze", path)
	if code == 0 || !strings.Contains(errOut, "Not a medical report") {
		t.Fatalf("expected rejection message, got %d %q", code, errOut)
	}
}

func TestAnalyzeUnsupportedFile(t *testing.T) {
	setupEnv(t, "")
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	code, _, errOut := runCLI(t, "analyze", path)
	if code == 0 || !strings.Contains(errOut, "Please upload a PDF or image file") {
		t.Fatalf("expected unsupported type message, got %d %q", code, errOut)
	}
}

func TestAnalyzeRequiresFile(t *testing.T) {
	setupEnv(t, "")

	code, _, errOut := runCLI(t, "analyze")
	if code == 0 || !strings.Contains(errOut, "Please select a file") {
		t.Fatalf("expected missing file message, got %d %q", code, errOut)
	}
}

func TestShowUnknownTabRendersNothing(t *testing.T) {
	data, err := os.ReadFile("../../internal/report/testdata/valid_report.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	path := setupEnv(t, string(data))
	if code, _, errOut := runCLI(t, "analyze", path); code != 0 {
		t.Fatalf("analyze exit %d: %s", code, errOut)
	}

	code, out, errOut := runCLI(t, "show", "--tab", "billing")
	if code != 0 {
		t.Fatalf("show exit %d: %s", code, errOut)
	}
	var shown map[string]any
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("decode show output: %v", err)
	}
	if shown["view"] != nil {
		t.Fatalf("expected null view, got %v", shown["view"])
	}
}
