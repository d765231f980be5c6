package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/vacationhub/internal/domain/like"
)

type pair struct {
	userID     int64
	vacationID int64
}

// LikesStore mirrors the likes table: the (user, vacation) pair is unique and
// rows disappear when either side is removed.
type LikesStore struct {
	mu        sync.RWMutex
	users     map[int64]struct{}
	vacations map[int64]struct{}
	items     map[pair]struct{}
}

func NewLikesStore() *LikesStore {
	return &LikesStore{
		users:     make(map[int64]struct{}),
		vacations: make(map[int64]struct{}),
		items:     make(map[pair]struct{}),
	}
}

func (s *LikesStore) AddUser(id int64) {
	s.mu.Lock()
	s.users[id] = struct{}{}
	s.mu.Unlock()
}

func (s *LikesStore) AddVacation(id int64) {
	s.mu.Lock()
	s.vacations[id] = struct{}{}
	s.mu.Unlock()
}

// RemoveUser drops the user and cascades to its likes.
func (s *LikesStore) RemoveUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	for p := range s.items {
		if p.userID == id {
			delete(s.items, p)
		}
	}
}

// RemoveVacation drops the vacation and cascades to its likes.
func (s *LikesStore) RemoveVacation(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.vacations, id)
	for p := range s.items {
		if p.vacationID == id {
			delete(s.items, p)
		}
	}
}

func (s *LikesStore) Like(_ context.Context, userID, vacationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, okUser := s.users[userID]
	_, okVacation := s.vacations[vacationID]
	if !okUser || !okVacation {
		return like.ErrNotFound
	}

	p := pair{userID: userID, vacationID: vacationID}
	if _, exists := s.items[p]; exists {
		return like.ErrAlreadyLiked
	}

	s.items[p] = struct{}{}
	return nil
}

func (s *LikesStore) Unlike(_ context.Context, userID, vacationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := pair{userID: userID, vacationID: vacationID}
	if _, exists := s.items[p]; !exists {
		return like.ErrNotFound
	}

	delete(s.items, p)
	return nil
}

func (s *LikesStore) CountFor(_ context.Context, vacationID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for p := range s.items {
		if p.vacationID == vacationID {
			n++
		}
	}
	return n, nil
}

func (s *LikesStore) LikedVacationIDs(_ context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0)
	for p := range s.items {
		if p.userID == userID {
			ids = append(ids, p.vacationID)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Len reports the number of stored likes.
func (s *LikesStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
