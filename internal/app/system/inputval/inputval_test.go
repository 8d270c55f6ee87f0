package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"a@b.co", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidSiret(t *testing.T) {
	tests := []struct {
		siret string
		want  bool
	}{
		{"12345678901234", true},
		{"00000000000000", true},
		{"1234567890123", false},  // 13 digits
		{"123456789012345", false}, // 15 digits
		{"1234567890123a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.siret, func(t *testing.T) {
			if got := IsValidSiret(tt.siret); got != tt.want {
				t.Errorf("IsValidSiret(%q) = %v, want %v", tt.siret, got, tt.want)
			}
		})
	}
}

func TestOneOf(t *testing.T) {
	allowed := []string{"a", "b"}

	if errs := OneOf(nil, "status", "a", allowed); len(errs) != 0 {
		t.Errorf("expected no error for allowed value, got %v", errs)
	}
	if errs := OneOf(nil, "status", "", allowed); len(errs) != 0 {
		t.Errorf("expected blank value to pass, got %v", errs)
	}
	errs := OneOf(nil, "status", "c", allowed)
	if len(errs) != 1 || errs[0].Field != "status" {
		t.Errorf("expected one status error, got %v", errs)
	}
}
