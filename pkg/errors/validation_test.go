package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"word cloud canvas", 1000, 300, false},
		{"stream canvas", 600, 500, false},
		{"zero width", 0, 300, true},
		{"negative height", 1000, -1, true},
		{"NaN", math.NaN(), 300, true},
		{"infinite", math.Inf(1), 300, true},
		{"too large", MaxCanvasSize + 1, 300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDimensions) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidDimensions)
			}
		})
	}
}

func TestValidateTopN(t *testing.T) {
	for _, n := range []int{1, 5, MaxTopN} {
		if err := ValidateTopN(n); err != nil {
			t.Errorf("ValidateTopN(%d) = %v, want nil", n, err)
		}
	}
	for _, n := range []int{0, -3, MaxTopN + 1} {
		if err := ValidateTopN(n); err == nil {
			t.Errorf("ValidateTopN(%d) = nil, want error", n)
		}
	}
}

func TestValidateSeriesName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Claude", false},
		{"dash and digits", "GPT-4", false},
		{"dots", "LLaMA-3.1", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("x", MaxSeriesName+1), true},
		{"control char", "foo\x01bar", true},
		{"quote", `foo"bar`, true},
		{"markup", "<script>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeriesName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSeriesName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeriesNames(t *testing.T) {
	if err := ValidateSeriesNames([]string{"GPT-4", "Gemini", "Claude"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateSeriesNames(nil); err == nil {
		t.Error("expected error for empty list")
	}
	if err := ValidateSeriesNames([]string{"Claude", "Claude"}); err == nil {
		t.Error("expected error for duplicates")
	}
}

func TestValidateHexColor(t *testing.T) {
	for _, c := range []string{"#e41a1c", "#377eb8", "#fff"} {
		if err := ValidateHexColor(c); err != nil {
			t.Errorf("ValidateHexColor(%q) = %v", c, err)
		}
	}
	for _, c := range []string{"", "red", "#zzzzzz", "e41a1c"} {
		if err := ValidateHexColor(c); err == nil {
			t.Errorf("ValidateHexColor(%q) = nil, want error", c)
		}
	}
}

func TestValidateSessionID(t *testing.T) {
	if err := ValidateSessionID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	for _, id := range []string{"", "not-a-uuid", strings.Repeat("a", 100)} {
		err := ValidateSessionID(id)
		if err == nil {
			t.Errorf("ValidateSessionID(%q) = nil, want error", id)
			continue
		}
		if !Is(err, ErrCodeInvalidSession) {
			t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidSession)
		}
	}
}
