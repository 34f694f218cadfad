// Package catalog holds the read-only day → word list mapping served to learners.
// A Catalog is built once at startup and shared by every request; nothing
// mutates it after construction.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WordEntry is one vocabulary item of a day's lesson
type WordEntry struct {
	ID      int    `json:"id"`
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Hindi   string `json:"hindi"`
}

// Day is a course list item
type Day struct {
	Day   int    `json:"day"`
	Label string `json:"label"`
}

// Catalog maps catalog days to their ordered word lists
type Catalog struct {
	words map[int][]WordEntry
	keys  map[int]string
	order []int
}

// New builds a catalog from raw keyed data. Keys must be positive decimal
// integers and must not collide once parsed ("1" and "01" are the same day).
func New(data map[string][]WordEntry) (*Catalog, error) {
	c := &Catalog{
		words: make(map[int][]WordEntry, len(data)),
		keys:  make(map[int]string, len(data)),
		order: make([]int, 0, len(data)),
	}
	for key, entries := range data {
		day, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || day <= 0 {
			return nil, fmt.Errorf("invalid catalog day %q", key)
		}
		if prev, dup := c.keys[day]; dup {
			return nil, fmt.Errorf("catalog day %q duplicates %q", key, prev)
		}
		list := make([]WordEntry, len(entries))
		copy(list, entries)
		c.words[day] = list
		c.keys[day] = key
		c.order = append(c.order, day)
	}
	sort.Ints(c.order)
	return c, nil
}

// Parse decodes a JSON catalog document: {"1": [{id, word, meaning, hindi}, ...], ...}
func Parse(r io.Reader) (*Catalog, error) {
	var data map[string][]WordEntry
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(data)
}

// Load reads a JSON catalog from path
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Days lists every catalog day in ascending numeric order
func (c *Catalog) Days() []Day {
	days := make([]Day, 0, len(c.order))
	for _, day := range c.order {
		days = append(days, Day{Day: day, Label: "Day " + c.keys[day]})
	}
	return days
}

// Words returns a copy of the word list for day. The boolean is false only
// when the day is absent; a present day with no entries returns an empty list.
func (c *Catalog) Words(day int) ([]WordEntry, bool) {
	list, ok := c.words[day]
	if !ok {
		return nil, false
	}
	out := make([]WordEntry, len(list))
	copy(out, list)
	return out, true
}

// WordCount is the completion threshold for day; absent days count as 0.
func (c *Catalog) WordCount(day int) int {
	return len(c.words[day])
}

// Len is the number of days in the catalog
func (c *Catalog) Len() int {
	return len(c.order)
}

// Export returns the catalog in its keyed document form
func (c *Catalog) Export() map[string][]WordEntry {
	out := make(map[string][]WordEntry, len(c.order))
	for _, day := range c.order {
		list, _ := c.Words(day)
		out[c.keys[day]] = list
	}
	return out
}

// WriteJSON encodes the catalog as an indented JSON document
func (c *Catalog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Export())
}
