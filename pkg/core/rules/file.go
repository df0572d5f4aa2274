package rules

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ascent/pkg/errors"
)

// rulesFile is the on-disk TOML shape. Category names are plain strings so
// unknown names surface as validation errors instead of decode failures.
type rulesFile struct {
	Weights    map[string]float64   `toml:"weights"`
	Compatible map[string][]string  `toml:"compatible"`
	Sizes      map[string]SizeRange `toml:"sizes"`
	Minimums   map[string]int       `toml:"minimums,omitempty"`
}

// LoadFile reads, normalizes and validates a TOML rules file.
func LoadFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRules, err, "read rules file")
	}
	return Parse(data)
}

// Parse decodes TOML rules, normalizes the weights and validates the result.
func Parse(data []byte) (*Rules, error) {
	var f rulesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRules, err, "decode rules")
	}

	r := &Rules{
		Weights:    make(map[Category]float64, len(f.Weights)),
		Compatible: make(map[Category][]Category, len(f.Compatible)),
		Sizes:      make(map[Category]SizeRange, len(f.Sizes)),
		Minimums:   make(map[Category]int, len(f.Minimums)),
	}
	for name, w := range f.Weights {
		c, err := parse(name)
		if err != nil {
			return nil, err
		}
		r.Weights[c] = w
	}
	for name, others := range f.Compatible {
		c, err := parse(name)
		if err != nil {
			return nil, err
		}
		for _, o := range others {
			oc, err := parse(o)
			if err != nil {
				return nil, err
			}
			r.Compatible[c] = append(r.Compatible[c], oc)
		}
	}
	for name, s := range f.Sizes {
		c, err := parse(name)
		if err != nil {
			return nil, err
		}
		r.Sizes[c] = s
	}
	for name, n := range f.Minimums {
		c, err := parse(name)
		if err != nil {
			return nil, err
		}
		r.Minimums[c] = n
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.Normalize()
	return r, nil
}

// Encode writes r as TOML.
func (r *Rules) Encode(w io.Writer) error {
	f := rulesFile{
		Weights:    make(map[string]float64, len(r.Weights)),
		Compatible: make(map[string][]string, len(r.Compatible)),
		Sizes:      make(map[string]SizeRange, len(r.Sizes)),
		Minimums:   make(map[string]int, len(r.Minimums)),
	}
	for c, v := range r.Weights {
		f.Weights[c.String()] = v
	}
	for c, others := range r.Compatible {
		names := make([]string, len(others))
		for i, o := range others {
			names[i] = o.String()
		}
		f.Compatible[c.String()] = names
	}
	for c, s := range r.Sizes {
		f.Sizes[c.String()] = s
	}
	for c, n := range r.Minimums {
		f.Minimums[c.String()] = n
	}
	return toml.NewEncoder(w).Encode(f)
}

func parse(name string) (Category, error) {
	c, err := ParseCategory(name)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidRules, err, "rules file")
	}
	return c, nil
}
