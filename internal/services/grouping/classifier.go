// Package grouping partitions rendered roster lines into faction buckets.
package grouping

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultCategories is the priority-ordered faction list used when none is
// configured.
var DefaultCategories = []string{
	"families", "bennys", "angels", "ballas", "randola",
	"policia", "vagos", "marabunta", "the lost",
}

// DefaultOtherCategory is the overflow bucket for lines matching no category.
const DefaultOtherCategory = "outros"

// Bucket is one category and the lines assigned to it, in input order.
type Bucket struct {
	Name  string
	Lines []string
}

// Groups is the result of Classify: one bucket per category in priority
// order, followed by the overflow bucket.
type Groups struct {
	Buckets []Bucket
}

// Total returns the number of lines across all buckets.
func (g Groups) Total() int {
	n := 0
	for _, b := range g.Buckets {
		n += len(b.Lines)
	}
	return n
}

// Get returns the lines of the named bucket.
func (g Groups) Get(name string) []string {
	for _, b := range g.Buckets {
		if b.Name == name {
			return b.Lines
		}
	}
	return nil
}

// NonEmpty returns the buckets holding at least one line, in order.
func (g Groups) NonEmpty() []Bucket {
	out := make([]Bucket, 0, len(g.Buckets))
	for _, b := range g.Buckets {
		if len(b.Lines) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Classifier assigns lines to the first category whose name occurs in the
// line, ignoring case.
type Classifier struct {
	categories []string
	folded     []string
	other      string
}

// New creates a classifier. Blank category names are ignored.
func New(categories []string, other string) *Classifier {
	if other == "" {
		other = DefaultOtherCategory
	}

	fold := cases.Fold()
	c := &Classifier{other: other}
	for _, name := range categories {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c.categories = append(c.categories, name)
		c.folded = append(c.folded, fold.String(name))
	}
	return c
}

// Categories returns the configured category names in priority order.
func (c *Classifier) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Other returns the overflow bucket name.
func (c *Classifier) Other() string {
	return c.other
}

// Classify partitions lines. Every line lands in exactly one bucket.
func (c *Classifier) Classify(lines []string) Groups {
	buckets := make([]Bucket, len(c.categories)+1)
	for i, name := range c.categories {
		buckets[i].Name = name
	}
	otherIdx := len(c.categories)
	buckets[otherIdx].Name = c.other

	fold := cases.Fold()
	for _, line := range lines {
		idx := otherIdx
		folded := fold.String(line)
		for i, category := range c.folded {
			if strings.Contains(folded, category) {
				idx = i
				break
			}
		}
		buckets[idx].Lines = append(buckets[idx].Lines, line)
	}

	return Groups{Buckets: buckets}
}
