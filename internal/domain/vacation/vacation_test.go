package vacation

import (
	"errors"
	"testing"
	"time"
)

func price(v float64) *float64 { return &v }

func TestRequestValidate(t *testing.T) {
	today := time.Date(2026, 6, 15, 13, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		req      Request
		creating bool
		wantErr  error
	}{
		{
			name:     "valid create",
			req:      Request{CountryID: 1, Description: "Beach", Start: "2026-07-01", End: "2026-07-10", Price: price(1200)},
			creating: true,
		},
		{
			name:     "start today is allowed",
			req:      Request{CountryID: 1, Description: "Beach", Start: "2026-06-15", End: "2026-06-15", Price: price(0)},
			creating: true,
		},
		{
			name:     "past start on create",
			req:      Request{CountryID: 1, Description: "Beach", Start: "2020-01-01", End: "2020-01-05", Price: price(100)},
			creating: true,
			wantErr:  ErrStartInPast,
		},
		{
			name:     "past start on update",
			req:      Request{CountryID: 1, Description: "Beach", Start: "2020-01-01", End: "2020-01-05", Price: price(100)},
			creating: false,
		},
		{
			name:    "end before start",
			req:     Request{CountryID: 1, Description: "Beach", Start: "2026-07-10", End: "2026-07-01", Price: price(100)},
			wantErr: ErrEndBeforeStart,
		},
		{
			name:    "bad date format",
			req:     Request{CountryID: 1, Description: "Beach", Start: "01/07/2026", End: "2026-07-10", Price: price(100)},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "price too high",
			req:     Request{CountryID: 1, Description: "Beach", Start: "2026-07-01", End: "2026-07-10", Price: price(10000.01)},
			wantErr: ErrPriceOutOfRange,
		},
		{
			name:    "negative price",
			req:     Request{CountryID: 1, Description: "Beach", Start: "2026-07-01", End: "2026-07-10", Price: price(-1)},
			wantErr: ErrPriceOutOfRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := tc.req.Validate(today, tc.creating)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if in.Start.Format(DateLayout) != tc.req.Start {
				t.Fatalf("start mismatch: %s", in.Start.Format(DateLayout))
			}
		})
	}
}

func TestToResponseFormatsDates(t *testing.T) {
	v := Vacation{
		ID:    3,
		Start: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC),
	}

	resp := v.ToResponse(true)
	if resp.Start != "2026-07-01" || resp.End != "2026-07-09" {
		t.Fatalf("unexpected dates: %s %s", resp.Start, resp.End)
	}
	if !resp.Liked || resp.LikesCount != 0 {
		t.Fatalf("unexpected like state: %+v", resp)
	}
}
