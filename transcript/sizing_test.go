package transcript

import (
	"testing"

	"github.com/kbukum/focusgroup/profile"
)

func TestSizing_TargetWordsMonotone(t *testing.T) {
	s := SizingFrom(defaultGeneration())
	for _, wpm := range []int{130, 150, 165} {
		for n := 1; n <= 12; n++ {
			prev := 0
			for d := 1; d <= 240; d++ {
				got := s.TargetWords(d, wpm, n)
				if got < prev {
					t.Fatalf("wpm=%d n=%d: target dropped from %d to %d at %d minutes", wpm, n, prev, got, d)
				}
				prev = got
			}
		}
		for d := 5; d <= 120; d += 5 {
			prev := 0
			for n := 1; n <= 20; n++ {
				got := s.TargetWords(d, wpm, n)
				if got < prev {
					t.Fatalf("wpm=%d d=%d: target dropped at %d participants", wpm, d, n)
				}
				prev = got
			}
		}
	}
}

func TestSizing_Caps(t *testing.T) {
	s := SizingFrom(defaultGeneration())
	tests := []struct {
		name      string
		got, want int
	}{
		{"coffee scenario", s.TargetWords(30, 150, 4), 4275},
		{"factor capped", s.TargetWords(10, 100, 20), 1250},
		{"word cap", s.TargetWords(480, 165, 12), 24000},
		{"token budget", s.OutputTokens(1000), 1400},
		{"token cap", s.OutputTokens(24000), 8192},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %d, want %d", tc.got, tc.want)
			}
		})
	}
}

func TestPhaseBudget(t *testing.T) {
	phases := PhaseBudget(1000)
	want := []int{150, 100, 650, 100}
	if len(phases) != len(want) {
		t.Fatalf("got %d phases", len(phases))
	}
	total := 0
	for i, p := range phases {
		if p.Words != want[i] {
			t.Errorf("%s = %d words, want %d", p.Name, p.Words, want[i])
		}
		total += p.Percent
	}
	if total != 100 {
		t.Errorf("percentages sum to %d", total)
	}
}

func TestPersonas(t *testing.T) {
	pool := profile.NamePool{
		Male:     []string{"Amit", "Rajesh"},
		Female:   []string{"Priya", "Sneha"},
		Surnames: []string{"Sharma", "Patel", "Singh"},
	}
	got := Personas(4, GenderMix{}, pool, "30-60")
	wantNames := []string{"Priya Sharma", "Amit Patel", "Sneha Singh", "Rajesh Sharma"}
	wantAges := []int{30, 40, 50, 60}
	for i, p := range got {
		if p.Name != wantNames[i] || p.Age != wantAges[i] {
			t.Errorf("persona %d = %+v", i, p)
		}
		if p.Label != "Participant "+string(rune('1'+i)) {
			t.Errorf("persona %d label = %q", i, p.Label)
		}
	}

	again := Personas(4, GenderMix{}, pool, "30-60")
	for i := range got {
		if got[i] != again[i] {
			t.Fatal("personas are not deterministic")
		}
	}

	if f, m, nb := genderCounts(got); f != 2 || m != 2 || nb != 0 {
		t.Errorf("gender counts = %dF %dM %dNB", f, m, nb)
	}
}

func TestPersonas_Fallbacks(t *testing.T) {
	got := Personas(3, GenderMix{}, profile.NamePool{}, "")
	if got[0].Name != "Participant 1" {
		t.Errorf("empty pool should fall back to labels, got %q", got[0].Name)
	}
	if got[0].Age != 25 || got[2].Age != 45 {
		t.Errorf("default age range not applied: %d..%d", got[0].Age, got[2].Age)
	}

	onlyMale := Personas(2, GenderMix{}, profile.NamePool{Male: []string{"Jean"}, Surnames: []string{"Martin"}}, "40")
	for _, p := range onlyMale {
		if p.Name != "Jean Martin" || p.Gender != "male" {
			t.Errorf("got %+v", p)
		}
	}
}

func TestPersonas_GenderMix(t *testing.T) {
	pool := profile.NamePool{
		Male:     []string{"Amit", "Rajesh"},
		Female:   []string{"Priya", "Sneha"},
		Surnames: []string{"Sharma", "Patel", "Singh"},
	}
	tests := []struct {
		name    string
		count   int
		mix     GenderMix
		genders []string
	}{
		{"all male", 3, GenderMix{Male: 3}, []string{GenderMale, GenderMale, GenderMale}},
		{"uneven", 4, GenderMix{Male: 1, Female: 3}, []string{GenderFemale, GenderMale, GenderFemale, GenderFemale}},
		{"non-binary", 4, GenderMix{Male: 2, Female: 1, NonBinary: 1}, []string{GenderFemale, GenderMale, GenderNonBinary, GenderMale}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Personas(tc.count, tc.mix, pool, "")
			if len(got) != tc.count {
				t.Fatalf("got %d personas", len(got))
			}
			for i, p := range got {
				if p.Gender != tc.genders[i] {
					t.Errorf("persona %d gender = %q, want %q", i, p.Gender, tc.genders[i])
				}
			}
			f, m, nb := genderCounts(got)
			if f != tc.mix.Female || m != tc.mix.Male || nb != tc.mix.NonBinary {
				t.Errorf("counts = %dF %dM %dNB, want %+v", f, m, nb, tc.mix)
			}
		})
	}

	got := Personas(3, GenderMix{Male: 3}, pool, "")
	if got[0].Name != "Amit Sharma" || got[1].Name != "Rajesh Patel" || got[2].Name != "Amit Singh" {
		t.Errorf("male names = %q, %q, %q", got[0].Name, got[1].Name, got[2].Name)
	}
	// Non-binary names come from the end of the combined list.
	nb := Personas(1, GenderMix{NonBinary: 1}, pool, "")
	if nb[0].Name != "Rajesh Sharma" {
		t.Errorf("non-binary name = %q", nb[0].Name)
	}
}

func TestParseAgeRange(t *testing.T) {
	tests := []struct {
		in     string
		lo, hi int
	}{
		{"25-45", 25, 45},
		{"30 to 60", 30, 60},
		{"18–24", 18, 24},
		{"40", 40, 40},
		{"55+", 55, 55},
		{"18-25, 35-50", 18, 50},
		{"35-50; 18-25", 18, 50},
		{"20-30 and 60-70", 20, 70},
		{"", 25, 45},
		{"adults", 25, 45},
		{"45-25", 25, 45},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			lo, hi := parseAgeRange(tc.in)
			if lo != tc.lo || hi != tc.hi {
				t.Errorf("parseAgeRange(%q) = %d-%d, want %d-%d", tc.in, lo, hi, tc.lo, tc.hi)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]Category{
		"B2B sales strategy":         CategoryBusiness,
		"Brand loyalty in groceries": CategoryConsumer,
		"Hospital discharge process": CategoryHealthcare,
		"Mobile banking apps":        CategoryTechnology,
		"coffee habits":              CategoryStandard,
		"Paint colours for bedrooms": CategoryStandard,
	}
	for topic, want := range tests {
		if got := Classify(topic); got != want {
			t.Errorf("Classify(%q) = %s, want %s", topic, got, want)
		}
	}
}
