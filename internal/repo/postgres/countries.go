package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/vacationhub/internal/domain/country"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type CountriesRepo struct {
	metered
	db DB
}

func NewCountriesRepo(db DB, prom *observability.Prom) *CountriesRepo {
	return &CountriesRepo{metered: metered{prom: prom}, db: db}
}

func translateCountryErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return country.ErrNotFound
	case IsUniqueViolation(err):
		return country.ErrNameExists
	case IsForeignKeyViolation(err):
		return country.ErrInUse
	default:
		return err
	}
}

func (r *CountriesRepo) List(ctx context.Context) ([]country.Country, error) {
	out := make([]country.Country, 0)

	err := r.observe("countries.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT country_id, country_name FROM countries ORDER BY country_name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c country.Country
			if err := rows.Scan(&c.ID, &c.Name); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CountriesRepo) GetByID(ctx context.Context, id int64) (country.Country, error) {
	var c country.Country

	err := r.observe("countries.get_by_id", func() error {
		return r.db.QueryRow(ctx, `SELECT country_id, country_name FROM countries WHERE country_id = $1`, id).Scan(&c.ID, &c.Name)
	})
	if err != nil {
		return country.Country{}, translateCountryErr(err)
	}
	return c, nil
}

func (r *CountriesRepo) Create(ctx context.Context, name string) (country.Country, error) {
	c := country.Country{Name: name}

	err := r.observe("countries.create", func() error {
		return r.db.QueryRow(ctx, `INSERT INTO countries (country_name) VALUES ($1) RETURNING country_id`, name).Scan(&c.ID)
	})
	if err != nil {
		return country.Country{}, translateCountryErr(err)
	}
	return c, nil
}

func (r *CountriesRepo) Update(ctx context.Context, id int64, name string) (country.Country, error) {
	var c country.Country

	err := r.observe("countries.update", func() error {
		return r.db.QueryRow(ctx,
			`UPDATE countries SET country_name = $2 WHERE country_id = $1 RETURNING country_id, country_name`,
			id, name,
		).Scan(&c.ID, &c.Name)
	})
	if err != nil {
		return country.Country{}, translateCountryErr(err)
	}
	return c, nil
}

// Delete fails with country.ErrInUse while vacations still reference the country.
func (r *CountriesRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("countries.delete", func() error {
		var e error
		tag, e = r.db.Exec(ctx, `DELETE FROM countries WHERE country_id = $1`, id)
		return e
	})
	if err != nil {
		return translateCountryErr(err)
	}

	if tag.RowsAffected() == 0 {
		return country.ErrNotFound
	}
	return nil
}
