package core

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

type (
	// Component is one (field, sign) pair of a rule.
	Component struct {
		Field Field
		Sign  int
	}

	// Rule maps a journal event to the transactions it produces.
	Rule struct {
		Category   Category
		Event      string
		Components []Component
	}

	// RuleTable is the validated, read-only set of rules. Each event name
	// belongs to exactly one category.
	RuleTable struct {
		rules   []Rule
		byEvent map[string]int
	}
)

type rulesFile struct {
	Categories []struct {
		Name   string `yaml:"name"`
		Events []struct {
			Event  string   `yaml:"event"`
			Fields []string `yaml:"fields"`
			Signs  []int    `yaml:"signs"`
		} `yaml:"events"`
	} `yaml:"categories"`
}

// DefaultRules returns the rule table embedded in the binary.
func DefaultRules() *RuleTable {
	rt, err := LoadRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rule table: %v", err))
	}
	return rt
}

// LoadRules parses and validates a YAML rule table.
func LoadRules(data []byte) (*RuleTable, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rt := &RuleTable{byEvent: make(map[string]int)}
	for _, c := range f.Categories {
		category, err := ParseCategory(c.Name)
		if err != nil {
			return nil, err
		}
		for _, e := range c.Events {
			if e.Event == "" {
				return nil, fmt.Errorf("%w: empty event name in %s", ErrRuleShape, category)
			}
			if len(e.Fields) == 0 || len(e.Fields) != len(e.Signs) {
				return nil, fmt.Errorf("%w: %s has %d fields and %d signs", ErrRuleShape, e.Event, len(e.Fields), len(e.Signs))
			}
			if prev, ok := rt.byEvent[e.Event]; ok {
				return nil, fmt.Errorf("%w: %s in %s and %s", ErrDuplicateEvent, e.Event, rt.rules[prev].Category, category)
			}

			rule := Rule{Category: category, Event: e.Event}
			for i, name := range e.Fields {
				sign := e.Signs[i]
				if sign != 1 && sign != -1 {
					return nil, fmt.Errorf("%w: %s field %s has sign %d", ErrInvalidSign, e.Event, name, sign)
				}
				rule.Components = append(rule.Components, Component{Field: Field(name), Sign: sign})
			}

			rt.byEvent[e.Event] = len(rt.rules)
			rt.rules = append(rt.rules, rule)
		}
	}
	return rt, nil
}

// Lookup returns the rule for an event name.
func (rt *RuleTable) Lookup(event string) (Rule, bool) {
	i, ok := rt.byEvent[event]
	if !ok {
		return Rule{}, false
	}
	return rt.rules[i], true
}

// Rules returns the rules in declaration order.
func (rt *RuleTable) Rules() []Rule {
	out := make([]Rule, len(rt.rules))
	copy(out, rt.rules)
	return out
}

// Events returns the event names of one category in declaration order.
func (rt *RuleTable) Events(c Category) []string {
	var out []string
	for _, r := range rt.rules {
		if r.Category == c {
			out = append(out, r.Event)
		}
	}
	return out
}

// UnknownFields lists fields referenced by rules but missing from the field
// map. The classifier skips them at runtime.
func (rt *RuleTable) UnknownFields() []Field {
	seen := map[Field]struct{}{}
	for _, r := range rt.rules {
		for _, comp := range r.Components {
			if _, ok := comp.Field.JournalKey(); !ok {
				seen[comp.Field] = struct{}{}
			}
		}
	}
	out := make([]Field, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
