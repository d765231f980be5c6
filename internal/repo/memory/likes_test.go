package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/geocoder89/vacationhub/internal/domain/like"
)

func seeded(users, vacations []int64) *LikesStore {
	s := NewLikesStore()
	for _, id := range users {
		s.AddUser(id)
	}
	for _, id := range vacations {
		s.AddVacation(id)
	}
	return s
}

func TestConcurrentLikeOfSamePair(t *testing.T) {
	s := seeded([]int64{1}, []int64{10})
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Like(ctx, 1, 10)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, like.ErrAlreadyLiked):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if ok != 1 || dup != n-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d/%d", n-1, ok, dup)
	}
	if s.Len() != 1 {
		t.Fatalf("expected exactly one stored like, got %d", s.Len())
	}
}

func TestLikeUnlikeRelike(t *testing.T) {
	s := seeded([]int64{1}, []int64{10})
	ctx := context.Background()

	if err := s.Like(ctx, 1, 10); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := s.Like(ctx, 1, 10); !errors.Is(err, like.ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
	if err := s.Unlike(ctx, 1, 10); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if err := s.Unlike(ctx, 1, 10); !errors.Is(err, like.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second unlike, got %v", err)
	}
	if err := s.Like(ctx, 1, 10); err != nil {
		t.Fatalf("re-like: %v", err)
	}
}

func TestLikeUnknownVacation(t *testing.T) {
	s := seeded([]int64{1}, nil)

	if err := s.Like(context.Background(), 1, 99); !errors.Is(err, like.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountFor(t *testing.T) {
	s := seeded([]int64{1, 2, 3}, []int64{10})
	ctx := context.Background()

	if n, _ := s.CountFor(ctx, 10); n != 0 {
		t.Fatalf("expected 0 likes, got %d", n)
	}

	for _, u := range []int64{1, 2, 3} {
		if err := s.Like(ctx, u, 10); err != nil {
			t.Fatalf("like by %d: %v", u, err)
		}
	}
	if n, _ := s.CountFor(ctx, 10); n != 3 {
		t.Fatalf("expected 3 likes, got %d", n)
	}

	_ = s.Unlike(ctx, 2, 10)
	if n, _ := s.CountFor(ctx, 10); n != 2 {
		t.Fatalf("expected 2 likes, got %d", n)
	}
}

func TestRemoveUserCascades(t *testing.T) {
	s := seeded([]int64{1, 2}, []int64{10, 11})
	ctx := context.Background()

	_ = s.Like(ctx, 1, 10)
	_ = s.Like(ctx, 1, 11)
	_ = s.Like(ctx, 2, 10)

	s.RemoveUser(1)

	ids, _ := s.LikedVacationIDs(ctx, 1)
	if len(ids) != 0 {
		t.Fatalf("expected no likes for removed user, got %v", ids)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 remaining like, got %d", s.Len())
	}

	s.RemoveVacation(10)
	if s.Len() != 0 {
		t.Fatalf("expected vacation removal to cascade, got %d", s.Len())
	}
}
