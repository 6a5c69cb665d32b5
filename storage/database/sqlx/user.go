package sqlxrepos

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sql.DB) user.Repository {
	return &userRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *userRepository) CheckUniqueness(cpf, email string, excludedUsers ...user.User) error {
	args := []interface{}{cpf, email}
	q := `SELECT cpf, email FROM "user" WHERE (cpf = $1 OR email = $2)`
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for i, usr := range excludedUsers {
			ids = append(ids, fmt.Sprintf("$%d", i+3))
			args = append(args, usr.ID)
		}
		q += fmt.Sprintf(" AND id NOT IN (%s)", strings.Join(ids, ","))
	}

	rows, err := repo.db.Query(q, args...)
	if err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var foundCPF, foundEmail string
		if err = rows.Scan(&foundCPF, &foundEmail); err != nil {
			return errors.Wrap(err, "checking uniqueness")
		}
		if foundCPF == cpf {
			return user.ErrCPFExists
		}
		if foundEmail == email {
			return user.ErrEmailExists
		}
	}
	return rows.Err()
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	q := `
		INSERT INTO "user" (name, cpf, email, role, is_active, password_hash, created_at, updated_at, last_login)
		VALUES (:name, :cpf, :email, :role, :is_active, :password_hash, :created_at, :updated_at, :last_login)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&usr.ID); err != nil {
			return user.User{}, errors.Wrap(err, "creating user")
		}
	}
	return usr, rows.Err()
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT * FROM "user" WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user")
}

func (repo *userRepository) GetUserByCPF(cpf string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT * FROM "user" WHERE cpf = $1`, cpf)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user")
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(&usr, `SELECT * FROM "user" WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user")
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	q := `SELECT * FROM "user" WHERE 1=1`
	var args []interface{}
	if filter.Role != "" {
		args = append(args, filter.Role)
		q += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		q += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		q += fmt.Sprintf(" AND (name ILIKE $%[1]d OR cpf ILIKE $%[1]d OR email ILIKE $%[1]d)", len(args))
	}
	q += " ORDER BY id"

	users := make([]user.User, 0)
	err := repo.db.Select(&users, q, args...)
	return users, errors.Wrap(err, "filtering users")
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	orig, err := repo.GetUserByID(usr.ID)
	if err != nil {
		return user.User{}, err
	}

	// only save set fields
	if usr.Role == "" {
		usr.Role = orig.Role
	}
	if usr.PasswordHash == nil {
		usr.PasswordHash = orig.PasswordHash
	}
	if usr.Name == "" {
		usr.Name = orig.Name
	}
	if usr.CPF == "" {
		usr.CPF = orig.CPF
	}
	if usr.Email == "" {
		usr.Email = orig.Email
	}
	if usr.LastLogin.IsZero() {
		usr.LastLogin = orig.LastLogin
	}
	usr.IsActive = orig.IsActive
	if isActive != nil {
		usr.IsActive = *isActive
	}
	usr.CreatedAt = orig.CreatedAt

	q := `
		UPDATE "user"
		SET name = :name, cpf = :cpf, email = :email, role = :role, is_active = :is_active,
		    password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`
	if _, err = repo.db.NamedExec(q, usr); err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting users")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting users")
}

func (repo *userRepository) CreatePasswordResetToken(tok user.PasswordResetToken) (user.PasswordResetToken, error) {
	q := `INSERT INTO password_reset_token (token, user_id, created_at) VALUES (:token, :user_id, :created_at)`
	_, err := repo.db.NamedExec(q, tok)
	return tok, errors.Wrap(err, "creating reset token")
}

func (repo *userRepository) GetPasswordResetToken(token string) (user.PasswordResetToken, error) {
	var tok user.PasswordResetToken
	err := repo.db.Get(&tok, `SELECT * FROM password_reset_token WHERE token = $1`, token)
	if err == sql.ErrNoRows {
		return user.PasswordResetToken{}, user.ErrNotFound
	}
	return tok, errors.Wrap(err, "getting reset token")
}

func (repo *userRepository) DeletePasswordResetTokens(userID int) error {
	_, err := repo.db.Exec(`DELETE FROM password_reset_token WHERE user_id = $1`, userID)
	return errors.Wrap(err, "deleting reset tokens")
}
