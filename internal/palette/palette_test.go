package palette

import (
	"errors"
	"strings"
	"testing"
)

func TestPresets(t *testing.T) {
	got := Presets()
	if len(got) != 16 {
		t.Fatalf("expected 16 presets, got %d", len(got))
	}

	seen := make(map[string]bool)
	for _, c := range got {
		if seen[c.ID] {
			t.Errorf("duplicate preset id %q", c.ID)
		}
		seen[c.ID] = true
		if c.ID == CustomID {
			t.Errorf("preset %q uses the custom sentinel id", c.Name)
		}
		if _, err := NormalizeHex(c.Hex); err != nil {
			t.Errorf("preset %q has invalid hex %q: %v", c.Name, c.Hex, err)
		}
	}

	// Mutating the returned copy must not leak into the palette.
	got[0].Name = "changed"
	if c, _ := ByID("1"); c.Name != "Sage Green" {
		t.Errorf("palette mutated through Presets(): %q", c.Name)
	}
}

func TestByIDAndName(t *testing.T) {
	c, ok := ByID("2")
	if !ok || c.Name != "Navy Blue" || c.Hex != "#000080" {
		t.Errorf("ByID(2) = %+v, %v", c, ok)
	}
	if _, ok := ByID("99"); ok {
		t.Error("ByID(99) should not match")
	}

	c, ok = ByName("  navy blue ")
	if !ok || c.ID != "2" {
		t.Errorf("ByName(navy blue) = %+v, %v", c, ok)
	}
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#123456", "#123456", false},
		{"ABCDEF", "#abcdef", false},
		{" #FfFfFf ", "#ffffff", false},
		{"#fff", "", true},
		{"#12345g", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeHex(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidHex) {
				t.Errorf("NormalizeHex(%q) error = %v, want ErrInvalidHex", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeHex(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeHex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCustom(t *testing.T) {
	c, err := Custom("#123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ID != CustomID || c.Name != CustomName || c.Hex != "#123456" {
		t.Errorf("unexpected custom color %+v", c)
	}
	if !strings.Contains(c.Description, "#123456") {
		t.Errorf("description %q should mention the hex value", c.Description)
	}
	if !c.IsCustom() {
		t.Error("IsCustom() = false")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		ref    string
		wantID string
		wantOK bool
	}{
		{"13", "13", true},
		{"Teal Ocean", "13", true},
		{"#e2725b", CustomID, true},
		{"not-a-color", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c, err := Resolve(tt.ref)
		if tt.wantOK != (err == nil) {
			t.Errorf("Resolve(%q) error = %v", tt.ref, err)
			continue
		}
		if tt.wantOK && c.ID != tt.wantID {
			t.Errorf("Resolve(%q).ID = %q, want %q", tt.ref, c.ID, tt.wantID)
		}
	}
}

func TestNearest(t *testing.T) {
	c, err := Nearest("#000081")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "Navy Blue" {
		t.Errorf("Nearest(#000081) = %q, want Navy Blue", c.Name)
	}
	if _, err := Nearest("nope"); err == nil {
		t.Error("expected error for invalid hex")
	}
}
