package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/roster"
)

type rosterRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*rosterRepository)(nil)

func NewRosterRepository(db *sql.DB) roster.Repository {
	return &rosterRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *rosterRepository) CreateStudent(st roster.Student) (roster.Student, error) {
	q := `
		INSERT INTO student (user_id, name, phone, email, cpf, birthday, class_code, enrollment_month,
		                     academic_year, guardian_id, absences, presences, active, comment)
		VALUES (:user_id, :name, :phone, :email, :cpf, :birthday, :class_code, :enrollment_month,
		        :academic_year, :guardian_id, :absences, :presences, :active, :comment)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, st)
	if err != nil {
		return roster.Student{}, errors.Wrap(err, "creating student")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&st.ID); err != nil {
			return roster.Student{}, errors.Wrap(err, "creating student")
		}
	}
	return st, rows.Err()
}

func (repo *rosterRepository) GetStudentByID(id int) (roster.Student, error) {
	var st roster.Student
	err := repo.db.Get(&st, `SELECT * FROM student WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return roster.Student{}, roster.ErrStudentNotFound
	}
	return st, errors.Wrap(err, "getting student")
}

func (repo *rosterRepository) GetStudentByUserID(userID int) (roster.Student, error) {
	var st roster.Student
	err := repo.db.Get(&st, `SELECT * FROM student WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return roster.Student{}, roster.ErrStudentNotFound
	}
	return st, errors.Wrap(err, "getting student")
}

func (repo *rosterRepository) FilterStudents(filter roster.StudentQueryFilter) ([]roster.Student, error) {
	q := `SELECT * FROM student WHERE 1=1`
	var args []interface{}
	if filter.ClassCode != "" {
		args = append(args, filter.ClassCode)
		q += fmt.Sprintf(" AND class_code = $%d", len(args))
	}
	if filter.GuardianID != 0 {
		args = append(args, filter.GuardianID)
		q += fmt.Sprintf(" AND guardian_id = $%d", len(args))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		q += fmt.Sprintf(" AND active = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += fmt.Sprintf(" AND (name ILIKE $%[1]d OR cpf ILIKE $%[1]d OR email ILIKE $%[1]d)", len(args))
	}
	q += " ORDER BY id"

	students := make([]roster.Student, 0)
	err := repo.db.Select(&students, q, args...)
	return students, errors.Wrap(err, "filtering students")
}

func (repo *rosterRepository) StudentsByClassCodes(codes []string) ([]roster.Student, error) {
	if len(codes) == 0 {
		return []roster.Student{}, nil
	}
	q, args, err := sqlx.In(`SELECT * FROM student WHERE class_code IN (?) ORDER BY id`, codes)
	if err != nil {
		return nil, errors.Wrap(err, "listing students by turma")
	}
	students := make([]roster.Student, 0)
	err = repo.db.Select(&students, repo.db.Rebind(q), args...)
	return students, errors.Wrap(err, "listing students by turma")
}

func (repo *rosterRepository) UpdateStudent(st roster.Student) (roster.Student, error) {
	q := `
		UPDATE student
		SET name = :name, phone = :phone, email = :email, cpf = :cpf, birthday = :birthday,
		    class_code = :class_code, enrollment_month = :enrollment_month, academic_year = :academic_year,
		    guardian_id = :guardian_id, absences = :absences, presences = :presences,
		    active = :active, comment = :comment
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, st)
	if err != nil {
		return roster.Student{}, errors.Wrap(err, "updating student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return roster.Student{}, roster.ErrStudentNotFound
	}
	return st, nil
}

func (repo *rosterRepository) DeleteStudentsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting students")
}

func (repo *rosterRepository) CreateGuardian(g roster.Guardian) (roster.Guardian, error) {
	q := `
		INSERT INTO guardian (user_id, name, phone, email, cpf, birthday, address)
		VALUES (:user_id, :name, :phone, :email, :cpf, :birthday, :address)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, g)
	if err != nil {
		return roster.Guardian{}, errors.Wrap(err, "creating guardian")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&g.ID); err != nil {
			return roster.Guardian{}, errors.Wrap(err, "creating guardian")
		}
	}
	return g, rows.Err()
}

func (repo *rosterRepository) GetGuardianByID(id int) (roster.Guardian, error) {
	var g roster.Guardian
	err := repo.db.Get(&g, `SELECT * FROM guardian WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return roster.Guardian{}, roster.ErrGuardianNotFound
	}
	return g, errors.Wrap(err, "getting guardian")
}

func (repo *rosterRepository) GetGuardianByUserID(userID int) (roster.Guardian, error) {
	var g roster.Guardian
	err := repo.db.Get(&g, `SELECT * FROM guardian WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return roster.Guardian{}, roster.ErrGuardianNotFound
	}
	return g, errors.Wrap(err, "getting guardian")
}

func (repo *rosterRepository) FilterGuardians(filter roster.GuardianQueryFilter) ([]roster.Guardian, error) {
	q := `SELECT * FROM guardian WHERE 1=1`
	var args []interface{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += fmt.Sprintf(" AND (name ILIKE $%[1]d OR cpf ILIKE $%[1]d OR email ILIKE $%[1]d)", len(args))
	}
	q += " ORDER BY id"

	guardians := make([]roster.Guardian, 0)
	err := repo.db.Select(&guardians, q, args...)
	return guardians, errors.Wrap(err, "filtering guardians")
}

func (repo *rosterRepository) UpdateGuardian(g roster.Guardian) (roster.Guardian, error) {
	q := `
		UPDATE guardian
		SET name = :name, phone = :phone, email = :email, cpf = :cpf,
		    birthday = :birthday, address = :address
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, g)
	if err != nil {
		return roster.Guardian{}, errors.Wrap(err, "updating guardian")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return roster.Guardian{}, roster.ErrGuardianNotFound
	}
	return g, nil
}

func (repo *rosterRepository) DeleteGuardiansByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM guardian WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting guardians")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting guardians")
}
