package validate

import (
	"testing"

	"github.com/guarzo/gamematch/internal/apperr"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"simple", "ok@x.com", true},
		{"plus_and_dots", "first.last+games@mail.example.com.br", true},
		{"percent_and_dash", "a%b-c@host-name.io", true},
		{"surrounding_spaces", "  ok@x.com  ", true},
		{"missing_at", "bad", false},
		{"missing_tld", "user@host", false},
		{"short_tld", "user@host.c", false},
		{"digit_tld", "user@host.c0m", false},
		{"empty", "", false},
		{"space_in_local", "us er@x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidEmail(tt.input); got != tt.expected {
				t.Errorf("ValidEmail(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEmail_Sentinel(t *testing.T) {
	if got := Email("bad"); got != InvalidEmail {
		t.Errorf("Email(bad) = %q, want %q", got, InvalidEmail)
	}
	if got := Email(" ok@x.com "); got != "ok@x.com" {
		t.Errorf("Email() = %q, want trimmed address", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"iso", "1990-03-15", "1990-03-15"},
		{"dash_dmy", "15-03-1990", "1990-03-15"},
		{"slash_dmy", "15/03/1990", "1990-03-15"},
		{"unpadded", "5/3/1990", "1990-03-05"},
		{"ambiguous_resolves_dmy", "01-02-2020", "2020-02-01"},
		{"surrounding_spaces", " 1990-03-15 ", "1990-03-15"},
		{"bad_day_and_month", "32/13/2020", InvalidDate},
		{"feb_30", "30/02/2020", InvalidDate},
		{"us_style", "03/15/1990", InvalidDate},
		{"text", "yesterday", InvalidDate},
		{"empty", "", InvalidDate},
		{"sentinel", InvalidDate, InvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.input); got != tt.expected {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeDate_AllFormatsAgree(t *testing.T) {
	inputs := []string{"15-03-1990", "15/03/1990", "1990-03-15"}
	for _, in := range inputs {
		if got := NormalizeDate(in); got != "1990-03-15" {
			t.Errorf("NormalizeDate(%q) = %q, want 1990-03-15", in, got)
		}
	}
}

func TestRequiredText(t *testing.T) {
	got, err := RequiredText("city", "  Niterói ")
	if err != nil {
		t.Fatalf("RequiredText() error = %v", err)
	}
	if got != "Niterói" {
		t.Errorf("RequiredText() = %q, want %q", got, "Niterói")
	}

	_, err = RequiredText("full name", "   ")
	if err == nil {
		t.Fatal("expected error for blank input")
	}
	if apperr.KindOf(err) != apperr.Validation {
		t.Errorf("KindOf() = %v, want validation", apperr.KindOf(err))
	}
}

func TestStrictHelpers(t *testing.T) {
	if _, err := StrictEmail("nope"); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("StrictEmail(nope) error kind = %v", apperr.KindOf(err))
	}
	if got, err := StrictDate("01/02/2000"); err != nil || got != "2000-02-01" {
		t.Errorf("StrictDate() = %q, %v", got, err)
	}
	if _, err := StrictDate("2000-13-01"); err == nil {
		t.Error("expected StrictDate to reject month 13")
	}
}
