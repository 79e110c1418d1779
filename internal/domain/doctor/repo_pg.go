package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const doctorCols = `id, name, specialization, qualification, age, experience,
	languages_spoken, hospital, city, morning_slots, afternoon_slots, evening_slots,
	profile_image, bio, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.Qualification, &d.Age, &d.Experience,
		&d.LanguagesSpoken, &d.Hospital, &d.City, &d.MorningSlots, &d.AfternoonSlots, &d.EveningSlots,
		&d.ProfileImage, &d.Bio, &d.CreatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, name, specialization, qualification, age, experience,
			languages_spoken, hospital, city, morning_slots, afternoon_slots, evening_slots,
			profile_image, bio)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		d.ID, d.Name, d.Specialization, d.Qualification, d.Age, d.Experience,
		d.LanguagesSpoken, d.Hospital, d.City, d.MorningSlots, d.AfternoonSlots, d.EveningSlots,
		d.ProfileImage, d.Bio)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repoPG) List(ctx context.Context, filter Filter, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + doctorCols + ` FROM doctors WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM doctors WHERE 1=1`
	var args []interface{}
	idx := 1

	if q := strings.TrimSpace(filter.Query); q != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR specialization ILIKE $%d OR city ILIKE $%d)`, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+q+"%")
		idx++
	}
	if len(filter.Specializations) > 0 {
		clause := fmt.Sprintf(` AND specialization = ANY($%d)`, idx)
		query += clause
		countQuery += clause
		args = append(args, filter.Specializations)
		idx++
	}
	if len(filter.Cities) > 0 {
		clause := fmt.Sprintf(` AND city = ANY($%d)`, idx)
		query += clause
		countQuery += clause
		args = append(args, filter.Cities)
		idx++
	}
	if len(filter.Hospitals) > 0 {
		clause := fmt.Sprintf(` AND hospital = ANY($%d)`, idx)
		query += clause
		countQuery += clause
		args = append(args, filter.Hospitals)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Facets(ctx context.Context) (*Facets, error) {
	specs, err := r.distinct(ctx, `SELECT DISTINCT specialization FROM doctors ORDER BY specialization`)
	if err != nil {
		return nil, err
	}
	cities, err := r.distinct(ctx, `SELECT DISTINCT city FROM doctors ORDER BY city`)
	if err != nil {
		return nil, err
	}
	hospitals, err := r.distinct(ctx, `SELECT DISTINCT hospital FROM doctors ORDER BY hospital`)
	if err != nil {
		return nil, err
	}
	return &Facets{Specializations: specs, Cities: cities, Hospitals: hospitals}, nil
}

func (r *repoPG) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
