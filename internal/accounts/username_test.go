package accounts

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "JohnSmith", "johnsmith"},
		{"accented pair", "Ángel Núñez", "angelnunez"},
		{"french", "Çédric Müller", "cedricmuller"},
		{"eszett", "Straße", "strase"},
		{"icelandic", "Þórður", "yordur"},
		{"digits preserved", "Agent 007", "agent007"},
		{"unmapped runes pass through", "павел", "павел"},
		{"punctuation passes through", "o'brien", "o'brien"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
