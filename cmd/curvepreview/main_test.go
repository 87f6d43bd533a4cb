package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunWritesCurve(t *testing.T) {
	out := filepath.Join(t.TempDir(), "curve.csv")
	if err := run("", "fountain", "alpha_fade", "", "", 5, 1, out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 rows, got:\n%s", data)
	}
	// alpha_fade sets 1 - age, so the curve runs from 1 down to 0.
	if lines[1] != "0,0,1" || lines[5] != "4,1,0" {
		t.Errorf("unexpected curve:\n%s", data)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name             string
		effect, modifier string
		domain           string
		n                int
	}{
		{"no samples", "", "", "age", 0},
		{"unknown effect", "smoke", "x", "", 4},
		{"unknown modifier", "fountain", "x", "", 4},
		{"bad domain", "", "", "noise", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "curve.csv")
			if err := run("", tt.effect, tt.modifier, tt.domain, "self", tt.n, 1, out); err == nil {
				t.Error("expected error")
			}
		})
	}
}
