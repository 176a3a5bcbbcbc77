package ledger

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bucket is an inclusive range of days elapsed since an invoice date.
type Bucket struct {
	Key     string `yaml:"key" json:"key"`
	MaxDays *int   `yaml:"max_days" json:"max_days,omitempty"`
	Color   string `yaml:"color" json:"color"`
	Label   string `yaml:"label" json:"label"`
}

// AgingScheme lists buckets from most recent to oldest. The last bucket is
// open-ended.
type AgingScheme struct {
	Buckets []Bucket `yaml:"buckets" json:"buckets"`
}

const (
	SchemeFive = "five"
	SchemeSix  = "six"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func days(n int) *int { return &n }

// FiveBucketScheme is the default weekly scheme.
func FiveBucketScheme() AgingScheme {
	return AgingScheme{Buckets: []Bucket{
		{Key: "green", MaxDays: days(7), Color: "#d4edda", Label: "Hasta 7 días"},
		{Key: "yellow", MaxDays: days(14), Color: "#fff3cd", Label: "8 a 14 días"},
		{Key: "orange", MaxDays: days(21), Color: "#ffe5b4", Label: "15 a 21 días"},
		{Key: "red", MaxDays: days(28), Color: "#f8d7da", Label: "22 a 28 días"},
		{Key: "maroon", Color: "#800020", Label: "Más de 28 días"},
	}}
}

// SixBucketScheme splits the oldest bucket at 90 days.
func SixBucketScheme() AgingScheme {
	return AgingScheme{Buckets: []Bucket{
		{Key: "green", MaxDays: days(7), Color: "#d4edda", Label: "Hasta 7 días"},
		{Key: "yellow", MaxDays: days(14), Color: "#fff3cd", Label: "8 a 14 días"},
		{Key: "orange", MaxDays: days(21), Color: "#ffe5b4", Label: "15 a 21 días"},
		{Key: "red", MaxDays: days(28), Color: "#f8d7da", Label: "22 a 28 días"},
		{Key: "light_red", MaxDays: days(90), Color: "#f4a6a6", Label: "29 a 90 días"},
		{Key: "maroon", Color: "#800020", Label: "Más de 90 días"},
	}}
}

// SchemeByName resolves a built-in scheme.
func SchemeByName(name string) (AgingScheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SchemeFive:
		return FiveBucketScheme(), nil
	case SchemeSix:
		return SixBucketScheme(), nil
	default:
		return AgingScheme{}, fmt.Errorf("ledger: unknown aging scheme %q", name)
	}
}

// LoadScheme decodes a YAML bucket list and validates it.
func LoadScheme(r io.Reader) (AgingScheme, error) {
	var scheme AgingScheme
	if err := yaml.NewDecoder(r).Decode(&scheme); err != nil {
		return AgingScheme{}, fmt.Errorf("ledger: decode aging scheme: %w", err)
	}
	if err := scheme.Validate(); err != nil {
		return AgingScheme{}, err
	}
	return scheme, nil
}

// Validate checks that bounds increase strictly, only the last bucket is open
// and colors are #rrggbb.
func (s AgingScheme) Validate() error {
	if len(s.Buckets) == 0 {
		return errors.New("ledger: aging scheme needs at least one bucket")
	}
	prev := -1
	seen := make(map[string]struct{}, len(s.Buckets))
	for i, b := range s.Buckets {
		if b.Key == "" {
			return fmt.Errorf("ledger: aging bucket %d has no key", i)
		}
		if _, dup := seen[b.Key]; dup {
			return fmt.Errorf("ledger: duplicate aging bucket %q", b.Key)
		}
		seen[b.Key] = struct{}{}
		if b.Color != "" && !hexColor.MatchString(b.Color) {
			return fmt.Errorf("ledger: aging bucket %q color %q is not #rrggbb", b.Key, b.Color)
		}
		last := i == len(s.Buckets)-1
		if b.MaxDays == nil {
			if !last {
				return fmt.Errorf("ledger: aging bucket %q is open-ended but not last", b.Key)
			}
			continue
		}
		if last {
			return fmt.Errorf("ledger: last aging bucket %q must be open-ended", b.Key)
		}
		if *b.MaxDays <= prev {
			return fmt.Errorf("ledger: aging bucket %q bound %d does not increase", b.Key, *b.MaxDays)
		}
		prev = *b.MaxDays
	}
	return nil
}

// BucketFor returns the bucket covering the given days elapsed.
func (s AgingScheme) BucketFor(daysElapsed int) Bucket {
	for _, b := range s.Buckets {
		if b.MaxDays == nil || daysElapsed <= *b.MaxDays {
			return b
		}
	}
	if len(s.Buckets) == 0 {
		return Bucket{}
	}
	return s.Buckets[len(s.Buckets)-1]
}

// Order returns bucket keys from most recent to oldest.
func (s AgingScheme) Order() []string {
	keys := make([]string, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		keys = append(keys, b.Key)
	}
	return keys
}

// Labels maps bucket keys to their display labels.
func (s AgingScheme) Labels() map[string]string {
	labels := make(map[string]string, len(s.Buckets))
	for _, b := range s.Buckets {
		labels[b.Key] = b.Label
	}
	return labels
}
