package report

import (
	"encoding/json"
	"testing"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		valid       bool
		value       float64
		placeholder bool
		wantErr     bool
	}{
		{name: "integer", in: `42`, valid: true, value: 42},
		{name: "float", in: `4.5`, valid: true, value: 4.5},
		{name: "numeric string", in: `" 7.25 "`, valid: true, value: 7.25},
		{name: "placeholder", in: `"-"`, placeholder: true},
		{name: "null", in: `null`},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			err := json.Unmarshal([]byte(tt.in), &n)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if n.Valid != tt.valid || n.Float() != tt.value || n.IsPlaceholder() != tt.placeholder {
				t.Fatalf("unexpected number %+v", n)
			}
		})
	}
}

func TestNumberMarshalKeepsText(t *testing.T) {
	data, err := json.Marshal([]Number{N(3), {Text: "-"}, {}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[3,"-",null]` {
		t.Fatalf("unexpected encoding %s", data)
	}
}

func TestClampPercent(t *testing.T) {
	cases := map[float64]int{-5: 0, 49.6: 50, 100: 100, 130: 100}
	for in, want := range cases {
		if got := ClampPercent(N(in)); got != want {
			t.Fatalf("ClampPercent(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestOrganHealthPreservesOrder(t *testing.T) {
	in := `{"liver":{"status":"healthy","score":90},"heart":{"status":"slight","score":70},"liver":{"status":"moderate","score":60}}`

	var oh OrganHealth
	if err := json.Unmarshal([]byte(in), &oh); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entries := oh.Entries()
	if len(entries) != 2 || entries[0].Key != "liver" || entries[1].Key != "heart" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if liver, _ := oh.Get("liver"); liver.Status != OrganModerate {
		t.Fatalf("expected later duplicate to win, got %q", liver.Status)
	}

	out, err := json.Marshal(oh)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"liver":{"status":"moderate","score":60,"description":""},"heart":{"status":"slight","score":70,"description":""}}`
	if string(out) != want {
		t.Fatalf("marshal = %s, want %s", out, want)
	}

	if err := json.Unmarshal([]byte(`[1]`), &oh); err == nil {
		t.Fatalf("expected error for array")
	}
}
