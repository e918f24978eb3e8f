package crawl

import "sync"

// VisitedURLStore remembers which directory URLs were already dispatched.
type VisitedURLStore struct {
	urls map[string]bool
	mu   sync.Mutex
}

func NewVisitedURLStore() *VisitedURLStore {
	return &VisitedURLStore{
		urls: make(map[string]bool),
	}
}

// MarkIfNotVisited returns true the first time url is seen.
func (s *VisitedURLStore) MarkIfNotVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.urls[url] {
		return false
	}
	s.urls[url] = true
	return true
}

func (s *VisitedURLStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}
