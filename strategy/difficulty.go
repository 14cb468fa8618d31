package strategy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

type Difficulty int

const (
	VeryEasy Difficulty = iota
	Easy
	Medium
	Hard
	Perfect

	numDifficulties
)

var difficultyNames = [numDifficulties]string{
	"very-easy", "easy", "medium", "hard", "perfect",
}

func (d Difficulty) String() string {
	if d < 0 || d >= numDifficulties {
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// DisplayName is the name shown to players, e.g. "Very Easy".
func (d Difficulty) DisplayName() string {
	return cases.Title(language.English).String(strings.ReplaceAll(d.String(), "-", " "))
}

// Difficulties lists every level, easiest first.
func Difficulties() []Difficulty {
	ds := make([]Difficulty, numDifficulties)
	for i := range ds {
		ds[i] = Difficulty(i)
	}
	return ds
}

// ParseDifficulty accepts a level name ("very-easy", "Very Easy",
// "very_easy" are all the same) or its number.
func ParseDifficulty(s string) (Difficulty, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for i, name := range difficultyNames {
		if norm == name {
			return Difficulty(i), nil
		}
	}
	if n, err := strconv.Atoi(norm); err == nil && n >= 0 && n < int(numDifficulties) {
		return Difficulty(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Profile is how hard a computer player tries. Depth is the number of
// plies searched past each candidate move; SelectProbability is the chance
// of taking each ranked move in turn, best first.
type Profile struct {
	Depth             int     `mapstructure:"depth" yaml:"depth"`
	SelectProbability float64 `mapstructure:"select-probability" yaml:"select-probability"`
}

func (p Profile) Validate() error {
	if p.Depth < 0 {
		return fmt.Errorf("depth must not be negative, got %d", p.Depth)
	}
	if p.SelectProbability < 0 || p.SelectProbability > 1 {
		return fmt.Errorf("select probability must be in [0, 1], got %v", p.SelectProbability)
	}
	return nil
}

// Profiles maps every difficulty to a Profile. It is a plain value; callers
// build one and pass it where it is needed.
type Profiles [numDifficulties]Profile

func DefaultProfiles() Profiles {
	return Profiles{
		VeryEasy: {Depth: 0, SelectProbability: 0.0},
		Easy:     {Depth: 3, SelectProbability: 0.7},
		Medium:   {Depth: 6, SelectProbability: 0.8},
		Hard:     {Depth: 9, SelectProbability: 0.95},
		Perfect:  {Depth: 10, SelectProbability: 1.0},
	}
}

func (ps Profiles) Get(d Difficulty) Profile {
	if d < 0 || d >= numDifficulties {
		panic(fmt.Sprintf("no profile for %v", d))
	}
	return ps[d]
}

// WithOverrides returns a copy of ps with the named levels replaced. Keys
// are parsed with ParseDifficulty.
func (ps Profiles) WithOverrides(overrides map[string]Profile) (Profiles, error) {
	out := ps
	for name, p := range overrides {
		d, err := ParseDifficulty(name)
		if err != nil {
			return ps, err
		}
		if err := p.Validate(); err != nil {
			return ps, fmt.Errorf("difficulty %v: %w", d, err)
		}
		out[d] = p
	}
	return out, nil
}
