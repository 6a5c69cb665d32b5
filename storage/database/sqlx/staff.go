package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil)

func NewStaffRepository(db *sql.DB) staff.Repository {
	return &staffRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *staffRepository) CreateTeacher(t staff.Teacher) (staff.Teacher, error) {
	q := `
		INSERT INTO teacher (user_id, name, phone, email, cpf, birthday, registration, discipline)
		VALUES (:user_id, :name, :phone, :email, :cpf, :birthday, :registration, :discipline)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, t)
	if err != nil {
		return staff.Teacher{}, errors.Wrap(err, "creating teacher")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&t.ID); err != nil {
			return staff.Teacher{}, errors.Wrap(err, "creating teacher")
		}
	}
	return t, rows.Err()
}

func (repo *staffRepository) GetTeacherByID(id int) (staff.Teacher, error) {
	var t staff.Teacher
	err := repo.db.Get(&t, `SELECT * FROM teacher WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return staff.Teacher{}, staff.ErrTeacherNotFound
	}
	return t, errors.Wrap(err, "getting teacher")
}

func (repo *staffRepository) GetTeacherByUserID(userID int) (staff.Teacher, error) {
	var t staff.Teacher
	err := repo.db.Get(&t, `SELECT * FROM teacher WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return staff.Teacher{}, staff.ErrTeacherNotFound
	}
	return t, errors.Wrap(err, "getting teacher")
}

func (repo *staffRepository) GetTeacherByRegistration(registration string) (staff.Teacher, error) {
	var t staff.Teacher
	err := repo.db.Get(&t, `SELECT * FROM teacher WHERE registration = $1`, registration)
	if err == sql.ErrNoRows {
		return staff.Teacher{}, staff.ErrTeacherNotFound
	}
	return t, errors.Wrap(err, "getting teacher")
}

func (repo *staffRepository) FilterTeachers(filter staff.QueryFilter) ([]staff.Teacher, error) {
	q := `SELECT * FROM teacher WHERE 1=1`
	var args []interface{}
	if filter.Discipline != "" {
		args = append(args, filter.Discipline)
		q += fmt.Sprintf(" AND discipline = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += fmt.Sprintf(" AND (name ILIKE $%[1]d OR cpf ILIKE $%[1]d OR email ILIKE $%[1]d OR registration ILIKE $%[1]d)", len(args))
	}
	q += " ORDER BY id"

	teachers := make([]staff.Teacher, 0)
	err := repo.db.Select(&teachers, q, args...)
	return teachers, errors.Wrap(err, "filtering teachers")
}

func (repo *staffRepository) UpdateTeacher(t staff.Teacher) (staff.Teacher, error) {
	q := `
		UPDATE teacher
		SET name = :name, phone = :phone, email = :email, cpf = :cpf, birthday = :birthday,
		    registration = :registration, discipline = :discipline
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, t)
	if err != nil {
		return staff.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return staff.Teacher{}, staff.ErrTeacherNotFound
	}
	return t, nil
}

func (repo *staffRepository) DeleteTeachersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM teacher WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting teachers")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting teachers")
}
