package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDBCountsErrorsByClass(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	_ = p.ObserveDB("likes.insert", func() error { return nil })
	err := p.ObserveDB("likes.insert", func() error { return &pgconn.PgError{Code: "23505"} })
	if err == nil {
		t.Fatalf("expected error to be returned unchanged")
	}
	_ = p.ObserveDB("likes.insert", func() error { return &pgconn.PgError{Code: "23503"} })

	if got := testutil.ToFloat64(p.DBErrors.WithLabelValues("likes.insert", "unique_violation")); got != 1 {
		t.Fatalf("unique_violation = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.DBErrors.WithLabelValues("likes.insert", "foreign_key_violation")); got != 1 {
		t.Fatalf("foreign_key_violation = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(p.DBLatency); got != 2 {
		t.Fatalf("latency series = %d, want ok and error", got)
	}
}

func TestClassifyDBErr(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&pgconn.PgError{Code: "23514"}, "check_violation"},
		{&pgconn.PgError{Code: "42P01"}, "pg_42P01"},
		{fmt.Errorf("get vacation: %w", pgx.ErrNoRows), "no_rows"},
		{context.DeadlineExceeded, "timeout"},
		{context.Canceled, "canceled"},
		{errors.New("boom"), "unknown"},
	}

	for _, tc := range cases {
		if got := classifyDBErr(tc.err); got != tc.want {
			t.Fatalf("classifyDBErr(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestNilPromIsSafe(t *testing.T) {
	var p *Prom
	p.IncLike("like", "ok")
	p.IncAuthFailure("missing_token")
	p.IncCacheLookup("countries", "hit")
	p.IncImageUpload("ok")

	called := false
	if err := p.ObserveDB("users.list", func() error { called = true; return nil }); err != nil || !called {
		t.Fatalf("nil prom should still run the op")
	}
}

func TestDomainCounters(t *testing.T) {
	p := NewProm(prometheus.NewRegistry())

	p.IncLike("like", "already_liked")
	p.IncCacheLookup("countries", "miss")
	p.IncCacheLookup("countries", "miss")
	p.IncImageUpload("unsupported_type")

	if got := testutil.ToFloat64(p.LikeOps.WithLabelValues("like", "already_liked")); got != 1 {
		t.Fatalf("like counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.CacheLookups.WithLabelValues("countries", "miss")); got != 2 {
		t.Fatalf("cache misses = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.ImageUploads.WithLabelValues("unsupported_type")); got != 1 {
		t.Fatalf("image uploads = %v, want 1", got)
	}
}
