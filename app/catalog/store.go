package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRecord = errors.New("invalid catalog record")

// Store is the ordered, read-only record collection. Insertion order is
// presentation order and is never re-sorted. A Store is safe for concurrent
// reads since nothing mutates it after NewStore.
type Store struct {
	records []Record
	bySlug  map[string]int
	tags    []string
}

func NewStore(records []Record) (*Store, error) {
	s := &Store{
		records: make([]Record, 0, len(records)),
		bySlug:  make(map[string]int, len(records)),
	}

	seenTags := make(map[string]bool)
	for i, record := range records {
		if strings.TrimSpace(record.Slug) == "" {
			return nil, fmt.Errorf("%w: record %d has an empty slug", ErrInvalidRecord, i)
		}
		if _, ok := s.bySlug[record.Slug]; ok {
			return nil, fmt.Errorf("%w: duplicate slug '%s'", ErrInvalidRecord, record.Slug)
		}

		s.bySlug[record.Slug] = len(s.records)
		s.records = append(s.records, record.clone())

		for _, tag := range record.Tags {
			if tag == FeaturedTag || seenTags[tag] {
				continue
			}
			seenTags[tag] = true
			s.tags = append(s.tags, tag)
		}
	}

	return s, nil
}

// Select returns every record tagged with tag whose featured membership
// equals featured, in insertion order. An unknown tag yields an empty slice.
func (s *Store) Select(tag string, featured bool) []Record {
	out := []Record{}
	for _, record := range s.records {
		if record.HasTag(tag) && record.IsFeatured() == featured {
			out = append(out, record.clone())
		}
	}
	return out
}

func (s *Store) Lookup(slug string) (Record, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return Record{}, false
	}
	return s.records[i].clone(), true
}

func (s *Store) All() []Record {
	out := make([]Record, len(s.records))
	for i, record := range s.records {
		out[i] = record.clone()
	}
	return out
}

func (s *Store) Len() int {
	return len(s.records)
}

// Tags lists the classification tags in first-seen order, without the
// featured marker.
func (s *Store) Tags() []string {
	return cloneStrings(s.tags)
}

// Group builds the featured + related view of a topic. When authoring left
// several featured records on a tag, the first one wins and Validate reports
// the rest.
func (s *Store) Group(tag string) Grouping {
	g := Grouping{Tag: tag, Related: s.Select(tag, false)}
	if featured := s.Select(tag, true); len(featured) > 0 {
		g.Featured = &featured[0]
	}
	return g
}

// Validate reports every tag carrying more than one featured record.
func (s *Store) Validate() []Warning {
	var warnings []Warning
	for _, tag := range s.tags {
		featured := s.Select(tag, true)
		if len(featured) <= 1 {
			continue
		}
		w := Warning{Tag: tag}
		for _, record := range featured {
			w.Slugs = append(w.Slugs, record.Slug)
		}
		warnings = append(warnings, w)
	}
	return warnings
}
