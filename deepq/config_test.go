package deepq

import "testing"

var correctRounds = []struct{ a, correct int }{
	{0, 0},
	{1, 1},
	{2, 2},
	{3, 4},
	{5, 4},
	{8, 8},
	{10, 8},
	{31, 32},
	{33, 32},
	{80, 64},
	{100, 128},
}

func TestRound(t *testing.T) {
	for _, c := range correctRounds {
		if b := round(c.a); b != c.correct {
			t.Errorf("Expected rounding of %v to be %v. Got %v instead", c.a, c.correct, b)
		}
	}
}

func TestDefaultConf(t *testing.T) {
	if !DefaultConf(4, 84, 84, 18).IsValid() {
		t.Errorf("Expected default conv config to be valid")
	}
	if !DefaultFlatConf(8, 4).IsValid() {
		t.Errorf("Expected default flat config to be valid")
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		conf  Config
		valid bool
	}{
		{"too small for the trunk", DefaultConf(4, 10, 10, 4), false},
		{"no action space", Config{InputSize: 4, BatchSize: 1, FC: 128}, false},
		{"flat without input size", Config{ActionSpace: 2, BatchSize: 1, FC: 128}, false},
		{"minimal flat", Config{InputSize: 1, ActionSpace: 2, BatchSize: 1, FC: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conf.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}
