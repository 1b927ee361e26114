package porter

import (
	"testing"
	"time"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2024-03-15", "2024-03-15", true},
		{"15-03-2024", "2024-03-15", true}, // DD-MM-YYYY
		{"03/15/2024", "2024-03-15", true}, // MM/DD/YYYY
		{"2024/03/15", "2024-03-15", true},
		{"15-03-24", "2024-03-15", true}, // DD-MM-YY
		{" 2024-03-15 ", "2024-03-15", true},
		// 25 cannot be a month, so the MM/DD layout fails and DD/MM applies.
		{"25/12/2024", "2024-12-25", true},
		{"notadate", "", false},
		{"", "", false},
		{"2024-13-45", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseFlexibleDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseFlexibleDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got.Format(time.DateOnly) != tt.want {
				t.Errorf("ParseFlexibleDate(%q) = %s, want %s", tt.input, got.Format(time.DateOnly), tt.want)
			}
		})
	}

	t.Run("ambiguous slash date resolves month-first", func(t *testing.T) {
		got, ok := ParseFlexibleDate("03/04/2024")
		if !ok {
			t.Fatal("Expected 03/04/2024 to parse")
		}
		if got.Format(time.DateOnly) != "2024-03-04" {
			t.Errorf("Got %s, want 2024-03-04 (MM/DD before DD/MM)", got.Format(time.DateOnly))
		}
	})
}
