package seenstore

import "sort"

// SeenSet holds the normalized listing URLs that already triggered a
// notification. It only ever grows.
type SeenSet map[string]struct{}

// New creates a set from the given URLs
func New(urls ...string) SeenSet {
	s := make(SeenSet, len(urls))
	s.Add(urls...)
	return s
}

// Contains reports whether url is in the set
func (s SeenSet) Contains(url string) bool {
	_, ok := s[url]
	return ok
}

// Add inserts the given URLs
func (s SeenSet) Add(urls ...string) {
	for _, u := range urls {
		s[u] = struct{}{}
	}
}

// Len returns the set size
func (s SeenSet) Len() int {
	return len(s)
}

// Sorted returns the URLs in lexicographic order, the order used for
// persistence so state files are reproducible.
func (s SeenSet) Sorted() []string {
	urls := make([]string, 0, len(s))
	for u := range s {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}

// Store persists the seen-set across runs
type Store interface {
	// Load returns the persisted set. Missing or corrupt state yields an
	// empty set, never an error, so a damaged file cannot block a run.
	Load() SeenSet

	// Commit replaces the persisted set with the given one
	Commit(set SeenSet) error
}
