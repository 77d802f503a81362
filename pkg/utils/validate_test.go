package utils

import "testing"

func TestValidateUsername(t *testing.T) {
	valid := []string{"ash", "student_42", "A1234567890123456789"}
	for _, u := range valid {
		if err := ValidateUsername(u); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", u, err)
		}
	}

	invalid := map[string]string{
		"ab":                    "too short",
		"thisusernameiswaytoolong": "too long",
		"bad name":              "space",
		"no-dashes":             "dash",
		"_leading":              "leading underscore",
	}
	for u, why := range invalid {
		if err := ValidateUsername(u); err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error (%s)", u, why)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("student1@test.com"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
	if err := ValidateEmail("  padded@test.com  "); err != nil {
		t.Errorf("trimmed email rejected: %v", err)
	}
	for _, e := range []string{"", "nope", "no@tld", "two@@test.com", "sp ace@test.com"} {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("password123"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("short password accepted")
	}
}

func TestNormalizers(t *testing.T) {
	if got := NormalizeUsername("  Student_One "); got != "student_one" {
		t.Errorf("NormalizeUsername = %q, want student_one", got)
	}
	if got := NormalizeEmail(" Alice@Test.COM "); got != "alice@test.com" {
		t.Errorf("NormalizeEmail = %q, want alice@test.com", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateUsername("ab")
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if verr.Field != "username" {
		t.Errorf("field = %q, want username", verr.Field)
	}
	if verr.Error() != verr.Message {
		t.Errorf("Error() = %q, want %q", verr.Error(), verr.Message)
	}
}
