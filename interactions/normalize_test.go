package interactions

import (
	"fmt"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "warfarin", "warfarin"},
		{"uppercase", "WARFARIN", "warfarin"},
		{"mixed case", "Warfarin", "warfarin"},
		{"surrounding whitespace", "  metformin  ", "metformin"},
		{"internal whitespace collapsed", "fish   oil", "fish oil"},
		{"tabs and newlines", "fish\toil\n", "fish oil"},

		{"trailing mg", "Amoxicillin 500mg", "amoxicillin"},
		{"trailing mg with space", "aspirin 81 mg", "aspirin"},
		{"decimal dose", "warfarin 2.5mg", "warfarin"},
		{"mcg", "levothyroxine 50 mcg", "levothyroxine"},
		{"ml", "amoxicillin 5 ml", "amoxicillin"},
		{"grams", "metformin 1 g", "metformin"},
		{"iu", "fish oil 1000 iu", "fish oil"},
		{"units", "insulin 10 units", "insulin"},
		{"unit singular", "insulin 1 unit", "insulin"},
		{"tablets", "aspirin 2 tablets", "aspirin"},
		{"tablet singular", "aspirin 1 tablet", "aspirin"},
		{"capsules", "amoxicillin 2 capsules", "amoxicillin"},
		{"caps", "amoxicillin 2 caps", "amoxicillin"},

		{"only the trailing clause is stripped", "metformin 500 mg 850 mg", "metformin 500 mg"},
		{"dose without unit stays", "vitamin c 500", "vitamin c 500"},
		{"unit without number stays", "tylenol pm", "tylenol pm"},
		{"dose in the middle stays", "ibuprofen 200 mg tablets", "ibuprofen 200 mg tablets"},

		{"parenthetical removed", "Tylenol (Extra Strength)", "tylenol"},
		{"leading parenthetical", "(oral) ibuprofen", "ibuprofen"},
		{"parenthetical in the middle", "warfarin (coumadin) sodium", "warfarin sodium"},
		{"two parentheticals", "aspirin (bayer) (low dose)", "aspirin"},

		{"dose then parenthetical", "amoxicillin 500 mg (oral)", "amoxicillin 500 mg"},
		{"parenthetical then dose", "tylenol (pm) 500mg", "tylenol"},

		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"parenthetical only", "(empty)", ""},
		{"dose only", "500mg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Normalizing typical corpus names a second time must not change them again,
// otherwise cached keys and freshly computed keys drift apart.
func TestNormalize_StableOnTypicalNames(t *testing.T) {
	inputs := []string{
		"Warfarin",
		"warfarin sodium",
		"Amoxicillin 500mg",
		"Tylenol (Extra Strength)",
		"aspirin 81 mg",
		"fish oil 1000 iu",
		"st. john's wort",
		"amoxicillin/clavulanate",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := Normalize(input)
			twice := Normalize(once)
			if once != twice {
				t.Errorf("Normalize is unstable for %q: first %q, then %q", input, once, twice)
			}
		})
	}
}

func TestFirstWord(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"warfarin", "warfarin"},
		{"warfarin sodium", "warfarin"},
		{"fish oil capsule", "fish"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			if got := firstWord(tt.input); got != tt.expected {
				t.Errorf("firstWord(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func BenchmarkNormalize(b *testing.B) {
	inputs := []string{
		"Warfarin",
		"Amoxicillin 500mg",
		"Tylenol (Extra Strength) 2 tablets",
		"fish   oil 1000 iu",
	}

	b.ResetTimer()
	for b.Loop() {
		for _, in := range inputs {
			Normalize(in)
		}
	}
}
