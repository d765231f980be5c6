package postgres

import (
	"context"

	"github.com/geocoder89/vacationhub/internal/domain/like"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
)

// LikesRepo is the only writer of the likes table. Duplicate detection is left
// to the (user_id, vacation_id) primary key so concurrent likes of the same
// pair yield one row and one like.ErrAlreadyLiked.
type LikesRepo struct {
	metered
	db DB
}

func NewLikesRepo(db DB, prom *observability.Prom) *LikesRepo {
	return &LikesRepo{metered: metered{prom: prom}, db: db}
}

func (r *LikesRepo) Like(ctx context.Context, userID, vacationID int64) error {
	err := r.observe("likes.insert", func() error {
		_, e := r.db.Exec(ctx,
			`INSERT INTO likes (user_id, vacation_id) VALUES ($1, $2)`,
			userID, vacationID,
		)
		return e
	})

	switch {
	case err == nil:
		r.prom.IncLike("like", "ok")
		return nil
	case IsUniqueViolation(err):
		r.prom.IncLike("like", "already_liked")
		return like.ErrAlreadyLiked
	case IsForeignKeyViolation(err):
		r.prom.IncLike("like", "not_found")
		return like.ErrNotFound
	default:
		r.prom.IncLike("like", "error")
		return err
	}
}

func (r *LikesRepo) Unlike(ctx context.Context, userID, vacationID int64) error {
	var tag pgconn.CommandTag

	err := r.observe("likes.delete", func() error {
		var e error
		tag, e = r.db.Exec(ctx,
			`DELETE FROM likes WHERE user_id = $1 AND vacation_id = $2`,
			userID, vacationID,
		)
		return e
	})
	if err != nil {
		r.prom.IncLike("unlike", "error")
		return err
	}

	if tag.RowsAffected() == 0 {
		r.prom.IncLike("unlike", "not_found")
		return like.ErrNotFound
	}

	r.prom.IncLike("unlike", "ok")
	return nil
}

func (r *LikesRepo) CountFor(ctx context.Context, vacationID int64) (int64, error) {
	var n int64

	err := r.observe("likes.count", func() error {
		return r.db.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE vacation_id = $1`, vacationID).Scan(&n)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *LikesRepo) LikedVacationIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := make([]int64, 0)

	err := r.observe("likes.liked_ids", func() error {
		rows, err := r.db.Query(ctx, `SELECT vacation_id FROM likes WHERE user_id = $1 ORDER BY vacation_id ASC`, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
