package attendance

import "testing"

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Honza", "Honza"},
		{"Jiří", "Jiri"},
		{"café", "cafe"},
		{"naïve", "naive"},
		{"Žluťoučký kůň", "Zlutoucky kun"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := removeDiacritics(tt.input)
			if result != tt.expected {
				t.Errorf("removeDiacritics(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jan Novák", "jan novak"},
		{"jan-novak", "jan novak"},
		{"JOHN DOE", "john doe"},
		{" Dvořáková ", "dvorakova"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNameMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   bool
	}{
		{"Jana Dvořáková", "", true},
		{"Jana Dvořáková", "dvorak", true},
		{"Jana Dvořáková", "DVOŘÁK", true},
		{"Jana Dvořáková", "jana dvorakova", true},
		{"Jana Dvořáková", "novak", false},
		{"", "dvorak", false},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.filter, func(t *testing.T) {
			if got := NameMatches(tt.name, tt.filter); got != tt.want {
				t.Errorf("NameMatches(%q, %q) = %v, want %v", tt.name, tt.filter, got, tt.want)
			}
		})
	}
}
