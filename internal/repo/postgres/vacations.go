package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/vacationhub/internal/domain/vacation"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/jackc/pgx/v5"
)

type VacationsRepo struct {
	metered
	db DB
}

func NewVacationsRepo(db DB, prom *observability.Prom) *VacationsRepo {
	return &VacationsRepo{metered: metered{prom: prom}, db: db}
}

func translateVacationErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return vacation.ErrNotFound
	case IsForeignKeyViolation(err):
		return vacation.ErrCountryNotFound
	default:
		return err
	}
}

// likes_count is aggregated over a LEFT JOIN so vacations without likes report 0.
const vacationSelect = `
	SELECT v.vacation_id,
		v.country_id,
		c.country_name,
		v.vacation_description,
		v.vacation_start,
		v.vacation_end,
		v.price::float8,
		v.picture_file_name,
		COUNT(l.user_id) AS likes_count
	FROM vacations v
	JOIN countries c ON c.country_id = v.country_id
	LEFT JOIN likes l ON l.vacation_id = v.vacation_id`

const vacationGroup = ` GROUP BY v.vacation_id, c.country_name`

func scanVacation(row pgx.Row) (vacation.Vacation, error) {
	var v vacation.Vacation
	err := row.Scan(
		&v.ID,
		&v.CountryID,
		&v.CountryName,
		&v.Description,
		&v.Start,
		&v.End,
		&v.Price,
		&v.PictureFileName,
		&v.LikesCount,
	)
	return v, err
}

// List returns every vacation ordered by start date.
func (r *VacationsRepo) List(ctx context.Context) ([]vacation.Vacation, error) {
	out := make([]vacation.Vacation, 0)

	err := r.observe("vacations.list", func() error {
		rows, err := r.db.Query(ctx, vacationSelect+vacationGroup+` ORDER BY v.vacation_start ASC, v.vacation_id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scanVacation(rows)
			if err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *VacationsRepo) GetByID(ctx context.Context, id int64) (vacation.Vacation, error) {
	var v vacation.Vacation

	err := r.observe("vacations.get_by_id", func() error {
		var e error
		v, e = scanVacation(r.db.QueryRow(ctx, vacationSelect+` WHERE v.vacation_id = $1`+vacationGroup, id))
		return e
	})
	if err != nil {
		return vacation.Vacation{}, translateVacationErr(err)
	}
	return v, nil
}

func (r *VacationsRepo) Create(ctx context.Context, in vacation.Input) (vacation.Vacation, error) {
	v := vacation.Vacation{
		CountryID:       in.CountryID,
		Description:     in.Description,
		Start:           in.Start,
		End:             in.End,
		Price:           in.Price,
		PictureFileName: in.PictureFileName,
	}

	err := r.observe("vacations.create", func() error {
		return r.db.QueryRow(ctx,
			`INSERT INTO vacations (country_id, vacation_description, vacation_start, vacation_end, price, picture_file_name)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING vacation_id`,
			in.CountryID, in.Description, in.Start, in.End, in.Price, in.PictureFileName,
		).Scan(&v.ID)
	})
	if err != nil {
		return vacation.Vacation{}, translateVacationErr(err)
	}

	return v, nil
}

func (r *VacationsRepo) Update(ctx context.Context, id int64, in vacation.Input) (vacation.Vacation, error) {
	var v vacation.Vacation

	err := r.observe("vacations.update", func() error {
		return r.db.QueryRow(ctx,
			`UPDATE vacations
				SET country_id = $2,
					vacation_description = $3,
					vacation_start = $4,
					vacation_end = $5,
					price = $6,
					picture_file_name = $7
			WHERE vacation_id = $1
			RETURNING vacation_id, country_id,
				(SELECT country_name FROM countries WHERE country_id = $2),
				vacation_description, vacation_start, vacation_end,
				price::float8, picture_file_name,
				(SELECT COUNT(*) FROM likes WHERE likes.vacation_id = $1)`,
			id, in.CountryID, in.Description, in.Start, in.End, in.Price, in.PictureFileName,
		).Scan(&v.ID, &v.CountryID, &v.CountryName, &v.Description, &v.Start, &v.End, &v.Price, &v.PictureFileName, &v.LikesCount)
	})
	if err != nil {
		return vacation.Vacation{}, translateVacationErr(err)
	}

	return v, nil
}

// Delete removes the vacation and its likes, returning the picture file name
// so the caller can clean up the stored image.
func (r *VacationsRepo) Delete(ctx context.Context, id int64) (string, error) {
	var picture string

	err := r.observe("vacations.delete", func() error {
		return r.db.QueryRow(ctx,
			`DELETE FROM vacations WHERE vacation_id = $1 RETURNING picture_file_name`, id,
		).Scan(&picture)
	})
	if err != nil {
		return "", translateVacationErr(err)
	}

	return picture, nil
}
