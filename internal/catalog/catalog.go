// Package catalog holds the fixed, ordered set of grammar topics offered
// as missions on the dashboard.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var topicsYAML []byte

// Subject is the school subject a grammar topic is tied to.
type Subject string

const (
	SubjectGeneral     Subject = "General"
	SubjectScience     Subject = "Science"
	SubjectHistory     Subject = "History"
	SubjectLiterature  Subject = "Literature"
	SubjectMathematics Subject = "Mathematics"
)

var subjectColors = map[Subject]string{
	SubjectGeneral:     "#FACC15",
	SubjectScience:     "#22C55E",
	SubjectHistory:     "#EF4444",
	SubjectLiterature:  "#3B82F6",
	SubjectMathematics: "#A855F7",
}

// Valid reports whether s is one of the known subjects.
func (s Subject) Valid() bool {
	_, ok := subjectColors[s]
	return ok
}

// Color returns the hex display color for the subject.
func (s Subject) Color() string {
	if c, ok := subjectColors[s]; ok {
		return c
	}
	return "#9CA3AF"
}

// Topic is one grammar concept offered as a mission.
type Topic struct {
	ID          string  `yaml:"id" json:"id"`
	Step        int     `yaml:"step" json:"step"`
	Title       string  `yaml:"title" json:"title"`
	Subject     Subject `yaml:"subject" json:"subject"`
	Description string  `yaml:"description" json:"description"`
	Icon        string  `yaml:"icon" json:"icon"`
}

// Catalog is an immutable, step-ordered list of topics.
type Catalog struct {
	topics []Topic
	byID   map[string]int
}

// Parse decodes and validates a YAML topic list.
func Parse(data []byte) (*Catalog, error) {
	var topics []Topic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("decode topics: %w", err)
	}
	if len(topics) == 0 {
		return nil, errors.New("catalog has no topics")
	}

	byID := make(map[string]int, len(topics))
	for _, t := range topics {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("topic %q: missing id", t.Title)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("topic %q: duplicate id", t.ID)
		}
		if t.Step <= 0 {
			return nil, fmt.Errorf("topic %q: step must be positive, got %d", t.ID, t.Step)
		}
		if !t.Subject.Valid() {
			return nil, fmt.Errorf("topic %q: unknown subject %q", t.ID, t.Subject)
		}
		byID[t.ID] = 0
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Step < topics[j].Step
	})
	for i, t := range topics {
		byID[t.ID] = i
	}

	return &Catalog{topics: topics, byID: byID}, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(topicsYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded topics: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// All returns a copy of the topics in presentation order.
func (c *Catalog) All() []Topic {
	out := make([]Topic, len(c.topics))
	copy(out, c.topics)
	return out
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	return len(c.topics)
}

// Lookup finds a topic by id.
func (c *Catalog) Lookup(id string) (Topic, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// Contains reports whether t is an unmodified member of the catalog.
func (c *Catalog) Contains(t Topic) bool {
	got, ok := c.Lookup(t.ID)
	return ok && got == t
}
