package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := map[string]int{
		"":                        21,
		"3":                       3,
		"-2":                      -2,
		"007":                     7,
		"two":                     21,
		" 4":                      21,
		"4.0":                     21,
		"99999999999999999999999": 21,
	}
	for in, want := range cases {
		if got := AtoiDefault(in, 21); got != want {
			t.Fatalf("AtoiDefault(%q, 21) = %d; want %d", in, got, want)
		}
	}
}
