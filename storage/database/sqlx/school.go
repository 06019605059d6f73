package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/eduverse/lms/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sql.DB) school.Repository {
	return &schoolRepository{db: sqlx.NewDb(db, "postgres")}
}

// schoolRow maps the school table; departments are stored as JSONB.
type schoolRow struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	Code         string          `db:"code"`
	Address      null.String     `db:"address"`
	Departments  json.RawMessage `db:"departments"`
	TeacherCount int             `db:"teacher_count"`
	StudentCount int             `db:"student_count"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r schoolRow) school() (school.School, error) {
	sch := school.School{
		ID:           r.ID,
		Name:         r.Name,
		Code:         r.Code,
		Address:      r.Address.String,
		TeacherCount: r.TeacherCount,
		StudentCount: r.StudentCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if len(r.Departments) > 0 {
		if err := json.Unmarshal(r.Departments, &sch.Departments); err != nil {
			return school.School{}, errors.Wrap(err, "decoding departments")
		}
	}
	return sch, nil
}

func rowOfSchool(sch school.School) (schoolRow, error) {
	deps, err := json.Marshal(sch.Departments)
	if err != nil {
		return schoolRow{}, errors.Wrap(err, "encoding departments")
	}
	if sch.Departments == nil {
		deps = []byte("[]")
	}
	return schoolRow{
		ID:           sch.ID,
		Name:         sch.Name,
		Code:         sch.Code,
		Address:      null.NewString(sch.Address, sch.Address != ""),
		Departments:  deps,
		TeacherCount: sch.TeacherCount,
		StudentCount: sch.StudentCount,
		CreatedAt:    sch.CreatedAt,
		UpdatedAt:    sch.UpdatedAt,
	}, nil
}

func (repo *schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	row, err := rowOfSchool(sch)
	if err != nil {
		return school.School{}, err
	}
	q := `
		INSERT INTO school (id, name, code, address, departments, teacher_count, student_count, created_at, updated_at)
		VALUES (:id, :name, :code, :address, :departments, :teacher_count, :student_count, :created_at, :updated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return school.School{}, errors.Wrap(err, "creating school")
	}
	return sch, nil
}

func (repo *schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	var rows []schoolRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM school ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	schools := make([]school.School, 0, len(rows))
	for _, row := range rows {
		sch, err := row.school()
		if err != nil {
			return nil, err
		}
		schools = append(schools, sch)
	}
	return schools, nil
}

func (repo *schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	var row schoolRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM school WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "getting school by id")
	}
	return row.school()
}

func (repo *schoolRepository) GetSchoolByCode(ctx context.Context, code string) (school.School, error) {
	var row schoolRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM school WHERE code = $1`, code); err != nil {
		if err == sql.ErrNoRows {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "getting school by code")
	}
	return row.school()
}

func (repo *schoolRepository) UpdateSchool(ctx context.Context, sch school.School) (school.School, error) {
	row, err := rowOfSchool(sch)
	if err != nil {
		return school.School{}, err
	}
	q := `
		UPDATE school
		SET name = :name, address = :address, departments = :departments,
		    teacher_count = :teacher_count, student_count = :student_count, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return school.School{}, errors.Wrap(err, "updating school")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.School{}, school.ErrNotFound
	}
	return sch, nil
}

func (repo *schoolRepository) DeleteSchoolsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM school WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting schools")
	}
	return nil
}
