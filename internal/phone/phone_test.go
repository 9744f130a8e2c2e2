package phone

import "testing"

func TestNormalizeGB(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"national format leading zero", "07911123456", "GB", "+447911123456"},
		{"country code without plus", "447911123456", "GB", "+447911123456"},
		{"already e164", "+447911123456", "GB", "+447911123456"},
		{"ten digits starting 4", "4791112345", "GB", "+444791112345"},
		{"spaces and dashes stripped", "07911 123-456", "GB", "+447911123456"},
		{"parentheses stripped", "(0791) 1123456", "GB", "+447911123456"},
		{"uk alias region", "07911123456", "UK", "+447911123456"},
		{"unknown region passthrough", "5551234567", "US", "5551234567"},
		{"unknown region keeps plus", "+15551234567", "US", "+15551234567"},
		{"empty", "", "GB", ""},
		{"whitespace only", "   ", "GB", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input, tt.region); got != tt.want {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
			}
		})
	}
}

func TestDialable(t *testing.T) {
	if Dialable("123") {
		t.Error("short number should not be dialable")
	}
	if !Dialable("+447911123456") {
		t.Error("full number should be dialable")
	}
	if Dialable("") {
		t.Error("empty number should not be dialable")
	}
}

func TestForDial(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"447911123456", "+447911123456"},
		{"+447911123456", "+447911123456"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ForDial(tt.input); got != tt.want {
			t.Errorf("ForDial(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"447911123456.0", "447911123456"},
		{"447911123456.00", "447911123456"},
		{"447911123456", "447911123456"},
		{" 447911123456 ", "447911123456"},
	}
	for _, tt := range tests {
		if got := CoerceCell(tt.input); got != tt.want {
			t.Errorf("CoerceCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
