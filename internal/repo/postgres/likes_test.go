package postgres

import (
	"context"
	"testing"

	"github.com/geocoder89/vacationhub/internal/domain/like"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func TestLikesRepo_Like(t *testing.T) {
	cases := []struct {
		name    string
		dbErr   error
		wantErr error
		result  string
	}{
		{name: "inserted", result: "ok"},
		{name: "duplicate pair", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: like.ErrAlreadyLiked, result: "already_liked"},
		{name: "missing vacation", dbErr: &pgconn.PgError{Code: "23503"}, wantErr: like.ErrNotFound, result: "not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			prom := observability.NewProm(prometheus.NewRegistry())
			repo := NewLikesRepo(mock, prom)

			exp := mock.ExpectExec("INSERT INTO likes").WithArgs(int64(4), int64(9))
			if tc.dbErr != nil {
				exp.WillReturnError(tc.dbErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := repo.Like(context.Background(), 4, 9)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, float64(1), testutil.ToFloat64(prom.LikeOps.WithLabelValues("like", tc.result)))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLikesRepo_Unlike(t *testing.T) {
	mock := newMock(t)
	repo := NewLikesRepo(mock, nil)

	mock.ExpectExec("DELETE FROM likes").WithArgs(int64(4), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM likes").WithArgs(int64(4), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Unlike(context.Background(), 4, 9))
	assert.ErrorIs(t, repo.Unlike(context.Background(), 4, 9), like.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikesRepo_CountFor(t *testing.T) {
	mock := newMock(t)
	repo := NewLikesRepo(mock, nil)

	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := repo.CountFor(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = repo.CountFor(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikesRepo_LikedVacationIDs(t *testing.T) {
	mock := newMock(t)
	repo := NewLikesRepo(mock, nil)

	mock.ExpectQuery("SELECT vacation_id FROM likes").WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"vacation_id"}).AddRow(int64(2)).AddRow(int64(7)))
	mock.ExpectQuery("SELECT vacation_id FROM likes").WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"vacation_id"}))

	ids, err := repo.LikedVacationIDs(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 7}, ids)

	ids, err = repo.LikedVacationIDs(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}
