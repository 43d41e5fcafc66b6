package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ressource 1", "Ressource 1"},
		{"  Ressource   1  ", "Ressource 1"},
		{"UPPERCASE NAME", "UPPERCASE NAME"},
		{"", ""},
		{"\t\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRoleAndStatus(t *testing.T) {
	if got := Role("  ADMIN "); got != "admin" {
		t.Errorf("Role = %q", got)
	}
	if got := Status("Disabled"); got != "disabled" {
		t.Errorf("Status = %q", got)
	}
}

func TestQueryParam(t *testing.T) {
	if got := QueryParam("  Mixed Case  "); got != "Mixed Case" {
		t.Errorf("QueryParam = %q", got)
	}
}

func TestFilterID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"507f1f77bcf86cd799439011", "507f1f77bcf86cd799439011"},
		{"  507f1f77bcf86cd799439011  ", "507f1f77bcf86cd799439011"},
		{"all", ""},
		{"  All  ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FilterID(tt.input); got != tt.want {
				t.Errorf("FilterID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	if Key("  Jeux   Éducatifs ") != Key("jeux educatifs") {
		t.Error("Key should fold case, accents and spacing")
	}
}
