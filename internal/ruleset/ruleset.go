// Package ruleset handles loading and formatting the rule tables the spam
// engine evaluates: keyword and phrase lists, weights and thresholds.
package ruleset

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// DefaultName is the builtin rule set used when none is selected.
const DefaultName = "default"

// RuleSet is the complete, swappable configuration of the scoring engine.
// It is treated as immutable once loaded.
type RuleSet struct {
	Name        string          `yaml:"name" json:"name"`
	Version     int             `yaml:"version" json:"version"`
	Description string          `yaml:"description" json:"description,omitempty"`
	Keywords    []Term          `yaml:"keywords" json:"keywords"`
	Phrases     []Term          `yaml:"phrases" json:"phrases"`
	Emoji       EmojiRule       `yaml:"emoji" json:"emoji"`
	Caps        CapsRule        `yaml:"caps" json:"caps"`
	Connections ConnectionRules `yaml:"connections" json:"connections"`
	Income      IncomeRule      `yaml:"income" json:"income"`
	Generic     GenericRule     `yaml:"generic" json:"generic"`
}

// Term is a keyword or phrase with its weight. Aliases are alternate
// spellings that count as the same term.
type Term struct {
	Term    string   `yaml:"term" json:"term"`
	Points  int      `yaml:"points" json:"points"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Forms returns the term followed by its aliases.
func (t Term) Forms() []string {
	forms := make([]string, 0, 1+len(t.Aliases))
	forms = append(forms, t.Term)
	return append(forms, t.Aliases...)
}

// Tier awards Points once a count reaches Min.
type Tier struct {
	Min    int `yaml:"min" json:"min"`
	Points int `yaml:"points" json:"points"`
}

// EmojiRule scores the number of emoji in the headline.
type EmojiRule struct {
	Tiers []Tier `yaml:"tiers" json:"tiers"`
}

// CapsRule scores an all-caps headline.
type CapsRule struct {
	MinWordLength int      `yaml:"min_word_length" json:"min_word_length"`
	Points        int      `yaml:"points" json:"points"`
	Acronyms      []string `yaml:"acronyms" json:"acronyms,omitempty"`
}

// ConnectionRules groups the connection-count rules.
type ConnectionRules struct {
	Low      Threshold      `yaml:"low" json:"low"`
	TitleLow TitleThreshold `yaml:"title_low" json:"title_low"`
}

// Threshold awards Points when a count is set and below Below.
type Threshold struct {
	Below  int `yaml:"below" json:"below"`
	Points int `yaml:"points" json:"points"`
}

// TitleThreshold awards Points when the headline claims one of Titles and
// the connection count is set and below Below.
type TitleThreshold struct {
	Below  int      `yaml:"below" json:"below"`
	Points int      `yaml:"points" json:"points"`
	Titles []string `yaml:"titles" json:"titles"`
}

// IncomeRule scores the number of distinct income-claim patterns matched.
type IncomeRule struct {
	Patterns []Pattern `yaml:"patterns" json:"patterns"`
	Tiers    []Tier    `yaml:"tiers" json:"tiers"`
}

// Pattern is a named regular expression, matched against case-folded text.
type Pattern struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

// GenericRule is the weak money/success language signal for the summary.
type GenericRule struct {
	Terms  []string `yaml:"terms" json:"terms"`
	Points int      `yaml:"points" json:"points"`
}

// TierPoints returns the points of the highest tier whose Min is at most n,
// or 0 when n is below every tier.
func TierPoints(tiers []Tier, n int) int {
	points := 0
	best := 0
	for _, t := range tiers {
		if n >= t.Min && t.Min >= best {
			best = t.Min
			points = t.Points
		}
	}
	return points
}

// LoadBuiltin loads a built-in rule set by name.
func LoadBuiltin(name string) (*RuleSet, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("ruleset.LoadBuiltin: unknown rule set %q: %w", name, err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("ruleset.LoadBuiltin: parse %q: %w", name, err)
	}
	return rs, nil
}

// Default loads the default builtin rule set. It panics if the embedded
// file is broken, which the package tests rule out.
func Default() *RuleSet {
	rs, err := LoadBuiltin(DefaultName)
	if err != nil {
		panic(err)
	}
	return rs
}

// Load reads a rule set from a YAML file.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ruleset.Load: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("ruleset.Load: %s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes a YAML rule set. Unknown fields are an error.
func Parse(data []byte) (*RuleSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Resolve loads ref as a file path when it names a YAML file or an existing
// path, and as a builtin name otherwise. An empty ref selects the default.
func Resolve(ref string) (*RuleSet, error) {
	if ref == "" {
		return LoadBuiltin(DefaultName)
	}
	ext := strings.ToLower(filepath.Ext(ref))
	if ext == ".yaml" || ext == ".yml" {
		return Load(ref)
	}
	if _, err := os.Stat(ref); err == nil {
		return Load(ref)
	}
	return LoadBuiltin(ref)
}

// List returns the names of all available built-in rule sets.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	return names, nil
}
