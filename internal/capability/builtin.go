package capability

import (
	"math/rand"
	"strconv"
	"strings"
)

// Built-in capability names that question definitions may reference.
const (
	ValidatorExactMatch      = "exact-match"
	ValidatorCaseInsensitive = "case-insensitive"
	ValidatorTrimmedMatch    = "trimmed-match"

	GeneratorIntegerSequence = "integer-sequence"
	GeneratorWordScramble    = "word-scramble"
	GeneratorDigitGrid       = "digit-grid"
)

// Default returns a frozen registry holding the built-in capabilities.
func Default() *Registry {
	r := NewRegistry()

	mustRegisterValidator(r, ValidatorExactMatch, exactMatch{})
	mustRegisterValidator(r, ValidatorCaseInsensitive, caseInsensitive{})
	mustRegisterValidator(r, ValidatorTrimmedMatch, trimmedMatch{})

	mustRegisterGenerator(r, GeneratorIntegerSequence, integerSequence{count: 20, ceiling: 1_000_000})
	mustRegisterGenerator(r, GeneratorWordScramble, wordScramble{count: 10})
	mustRegisterGenerator(r, GeneratorDigitGrid, digitGrid{rows: 12, columns: 12})

	r.Freeze()
	return r
}

func mustRegisterValidator(r *Registry, name string, v Validator) {
	if err := r.RegisterValidator(name, v); err != nil {
		panic(err)
	}
}

func mustRegisterGenerator(r *Registry, name string, g Generator) {
	if err := r.RegisterGenerator(name, g); err != nil {
		panic(err)
	}
}

type exactMatch struct{}

func (exactMatch) Validate(answer, expected string) bool {
	return answer == expected
}

type caseInsensitive struct{}

func (caseInsensitive) Validate(answer, expected string) bool {
	return strings.EqualFold(answer, expected)
}

type trimmedMatch struct{}

func (trimmedMatch) Validate(answer, expected string) bool {
	return strings.TrimSpace(answer) == strings.TrimSpace(expected)
}

type integerSequence struct {
	count   int
	ceiling int
}

func (g integerSequence) Generate(seed int64) []string {
	rnd := rand.New(rand.NewSource(seed))
	values := make([]string, 0, g.count)
	for i := 0; i < g.count; i++ {
		values = append(values, strconv.Itoa(rnd.Intn(g.ceiling)))
	}
	return values
}

var scrambleWords = []string{
	"compiler", "registry", "pointer", "channel", "closure",
	"iterator", "mutex", "goroutine", "interface", "variadic",
	"slice", "buffer", "runtime", "package", "binary",
}

type wordScramble struct {
	count int
}

func (g wordScramble) Generate(seed int64) []string {
	rnd := rand.New(rand.NewSource(seed))
	words := make([]string, 0, g.count)
	for i := 0; i < g.count; i++ {
		word := []byte(scrambleWords[rnd.Intn(len(scrambleWords))])
		rnd.Shuffle(len(word), func(a, b int) {
			word[a], word[b] = word[b], word[a]
		})
		words = append(words, string(word))
	}
	return words
}

type digitGrid struct {
	rows    int
	columns int
}

func (g digitGrid) Generate(seed int64) []string {
	rnd := rand.New(rand.NewSource(seed))
	rows := make([]string, 0, g.rows)
	for i := 0; i < g.rows; i++ {
		var row strings.Builder
		for j := 0; j < g.columns; j++ {
			row.WriteByte(byte('0' + rnd.Intn(10)))
		}
		rows = append(rows, row.String())
	}
	return rows
}
