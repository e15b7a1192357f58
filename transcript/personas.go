package transcript

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/focusgroup/profile"
)

const (
	defaultAgeLow  = 25
	defaultAgeHigh = 45
)

var backgrounds = []string{
	"working professional",
	"university student",
	"small business owner",
	"homemaker",
	"healthcare worker",
	"school educator",
	"freelancer",
	"retired",
	"IT professional",
	"sales executive",
}

// Personas derives count participants from pool. The same inputs always
// yield the same roster. A zero mix alternates female and male; otherwise
// genders are interleaved in the proportions of mix. Ages are spread across
// ageRange ("25-45").
func Personas(count int, mix GenderMix, pool profile.NamePool, ageRange string) []Participant {
	lo, hi := parseAgeRange(ageRange)
	used := make(map[string]int, 3)
	out := make([]Participant, count)
	for i, gender := range genderSequence(count, mix) {
		firsts := firstNames(pool, gender)
		if len(firsts) == 0 && mix.IsZero() {
			if other := otherGender(gender); len(firstNames(pool, other)) > 0 {
				gender, firsts = other, firstNames(pool, other)
			}
		}

		name := fmt.Sprintf("Participant %d", i+1)
		if len(firsts) > 0 && len(pool.Surnames) > 0 {
			k := used[gender]
			if gender == GenderNonBinary {
				k = len(firsts) - 1 - k%len(firsts)
			}
			name = firsts[k%len(firsts)] + " " + pool.Surnames[i%len(pool.Surnames)]
		}
		used[gender]++

		age := lo
		if count > 1 {
			age = lo + (hi-lo)*i/(count-1)
		}
		out[i] = Participant{
			Label:      fmt.Sprintf("Participant %d", i+1),
			Name:       name,
			Gender:     gender,
			Age:        age,
			Background: backgrounds[i%len(backgrounds)],
		}
	}
	return out
}

// genderSequence interleaves the genders of mix, female first.
func genderSequence(count int, mix GenderMix) []string {
	out := make([]string, 0, count+2)
	if mix.IsZero() {
		for i := range count {
			out = append(out, []string{GenderFemale, GenderMale}[i%2])
		}
		return out
	}
	left := []struct {
		gender string
		n      int
	}{{GenderFemale, mix.Female}, {GenderMale, mix.Male}, {GenderNonBinary, mix.NonBinary}}
	for len(out) < count {
		added := false
		for j := range left {
			if left[j].n > 0 {
				out = append(out, left[j].gender)
				left[j].n--
				added = true
			}
		}
		if !added {
			out = append(out, []string{GenderFemale, GenderMale}[len(out)%2])
		}
	}
	return out[:count]
}

// firstNames returns the first names for gender. Non-binary personas draw
// from both lists.
func firstNames(pool profile.NamePool, gender string) []string {
	switch gender {
	case GenderMale:
		return pool.Male
	case GenderFemale:
		return pool.Female
	}
	return append(slices.Clone(pool.Female), pool.Male...)
}

func otherGender(gender string) string {
	if gender == GenderFemale {
		return GenderMale
	}
	return GenderFemale
}

// parseAgeRange reads "25-45", "25 to 45", "40" or a list such as
// "18-25, 35-50", which spans its lowest and highest ages. Anything else
// yields 25-45.
func parseAgeRange(s string) (int, int) {
	s = strings.NewReplacer("to", "-", "–", "-", "and", ",", ";", ",", "/", ",", " ", "").Replace(strings.ToLower(s))
	lo, hi := 0, 0
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		a, b, ok := strings.Cut(part, "-")
		if !ok {
			b = a
		}
		x, err1 := strconv.Atoi(strings.TrimSuffix(a, "+"))
		y, err2 := strconv.Atoi(strings.TrimSuffix(b, "+"))
		if err1 != nil || err2 != nil || x <= 0 || y < x {
			return defaultAgeLow, defaultAgeHigh
		}
		if lo == 0 || x < lo {
			lo = x
		}
		hi = max(hi, y)
	}
	if lo == 0 {
		return defaultAgeLow, defaultAgeHigh
	}
	return lo, hi
}

func genderCounts(roster []Participant) (female, male, nonBinary int) {
	for _, p := range roster {
		switch p.Gender {
		case GenderMale:
			male++
		case GenderNonBinary:
			nonBinary++
		default:
			female++
		}
	}
	return female, male, nonBinary
}
