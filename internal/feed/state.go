// Package feed holds the in-memory feed of one session: the article list,
// the liked set, the pagination flags and the components that mutate them.
package feed

import (
	"errors"
	"slices"
	"sync"

	"newsfeed/internal/domain"
)

// ErrUnknownArticle is returned for ids that never appeared in the feed
var ErrUnknownArticle = errors.New("article is not part of the feed")

// State is the feed of one session.
// Items are append-only in server order, HasMore only moves true to false,
// and liked ids are always a subset of ids seen in Items.
type State struct {
	mu      sync.RWMutex
	items   []domain.Article
	seen    map[domain.ID]struct{}
	liked   map[domain.ID]struct{}
	loading bool
	hasMore bool
}

// Snapshot is a read-only copy of State for rendering
type Snapshot struct {
	Items     []domain.Article
	LikedIDs  map[domain.ID]bool
	IsLoading bool
	HasMore   bool
}

// NewState returns an empty feed that still expects a first page
func NewState() *State {
	return &State{
		seen:    make(map[domain.ID]struct{}),
		liked:   make(map[domain.ID]struct{}),
		hasMore: true,
	}
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// At returns the article at position i
func (s *State) At(i int) (domain.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return domain.Article{}, false
	}
	return s.items[i], true
}

// Items returns a copy of the loaded articles
func (s *State) Items() []domain.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *State) IsLiked(id domain.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.liked[id]
	return ok
}

// LikedIDs returns the liked ids in feed order
func (s *State) LikedIDs() []domain.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]domain.ID, 0, len(s.liked))
	for _, a := range s.items {
		if _, ok := s.liked[a.ID]; ok && !slices.Contains(ids, a.ID) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func (s *State) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *State) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMore
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	liked := make(map[domain.ID]bool, len(s.liked))
	for id := range s.liked {
		liked[id] = true
	}
	return Snapshot{
		Items:     slices.Clone(s.items),
		LikedIDs:  liked,
		IsLoading: s.loading,
		HasMore:   s.hasMore,
	}
}

// SetLiked forces the liked membership of a known article
func (s *State) SetLiked(id domain.ID, liked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; !ok {
		return ErrUnknownArticle
	}
	if liked {
		s.liked[id] = struct{}{}
	} else {
		delete(s.liked, id)
	}
	return nil
}

// toggleLiked flips membership and returns the new value
func (s *State) toggleLiked(id domain.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; !ok {
		return false, ErrUnknownArticle
	}
	if _, ok := s.liked[id]; ok {
		delete(s.liked, id)
		return false, nil
	}
	s.liked[id] = struct{}{}
	return true, nil
}

// beginLoad claims the single fetch slot. It fails while a fetch is
// outstanding or once the feed is exhausted.
func (s *State) beginLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading || !s.hasMore {
		return false
	}
	s.loading = true
	return true
}

// completeLoad stores a fetched page and releases the fetch slot
func (s *State) completeLoad(page []domain.Article, appendItems bool, pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if appendItems {
		s.items = append(s.items, page...)
	} else {
		s.items = slices.Clone(page)
	}
	for _, a := range page {
		s.seen[a.ID] = struct{}{}
		if a.IsLiked {
			s.liked[a.ID] = struct{}{}
		}
	}
	if len(page) != pageSize {
		s.hasMore = false
	}
	s.loading = false
}

// failLoad stops pagination for the rest of the session and releases the fetch slot
func (s *State) failLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasMore = false
	s.loading = false
}
