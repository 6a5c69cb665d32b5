package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/library"
)

type libraryRepository struct {
	db *sqlx.DB
}

var _ library.Repository = (*libraryRepository)(nil)

func NewLibraryRepository(db *sql.DB) library.Repository {
	return &libraryRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *libraryRepository) CreateBook(b library.Book) (library.Book, error) {
	q := `
		INSERT INTO book (title, author, isbn, publication_date, available_copies)
		VALUES (:title, :author, :isbn, :publication_date, :available_copies)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, b)
	if err != nil {
		return library.Book{}, errors.Wrap(err, "creating book")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&b.ID); err != nil {
			return library.Book{}, errors.Wrap(err, "creating book")
		}
	}
	return b, rows.Err()
}

func (repo *libraryRepository) GetBookByID(id int) (library.Book, error) {
	var b library.Book
	err := repo.db.Get(&b, `SELECT * FROM book WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return library.Book{}, library.ErrBookNotFound
	}
	return b, errors.Wrap(err, "getting book")
}

func (repo *libraryRepository) FilterBooks(search string) ([]library.Book, error) {
	q := `SELECT * FROM book WHERE 1=1`
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		q += fmt.Sprintf(" AND (title ILIKE $%[1]d OR author ILIKE $%[1]d OR isbn ILIKE $%[1]d)", len(args))
	}
	q += " ORDER BY id"

	books := make([]library.Book, 0)
	err := repo.db.Select(&books, q, args...)
	return books, errors.Wrap(err, "filtering books")
}

func (repo *libraryRepository) UpdateBook(b library.Book) (library.Book, error) {
	q := `
		UPDATE book
		SET title = :title, author = :author, isbn = :isbn,
		    publication_date = :publication_date, available_copies = :available_copies
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, b)
	if err != nil {
		return library.Book{}, errors.Wrap(err, "updating book")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return library.Book{}, library.ErrBookNotFound
	}
	return b, nil
}

func (repo *libraryRepository) DeleteBooksByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM book WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting books")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting books")
}

func (repo *libraryRepository) CreateLoan(l library.Loan) (library.Loan, error) {
	q := `
		INSERT INTO loan (student_id, type, book_id, computer, loan_date, returned, return_date)
		VALUES (:student_id, :type, :book_id, :computer, :loan_date, :returned, :return_date)
		RETURNING id`
	rows, err := repo.db.NamedQuery(q, l)
	if err != nil {
		return library.Loan{}, errors.Wrap(err, "creating loan")
	}
	defer func() { _ = rows.Close() }()
	if rows.Next() {
		if err = rows.Scan(&l.ID); err != nil {
			return library.Loan{}, errors.Wrap(err, "creating loan")
		}
	}
	return l, rows.Err()
}

func (repo *libraryRepository) GetLoanByID(id int) (library.Loan, error) {
	var l library.Loan
	err := repo.db.Get(&l, `SELECT * FROM loan WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return library.Loan{}, library.ErrLoanNotFound
	}
	return l, errors.Wrap(err, "getting loan")
}

func (repo *libraryRepository) FilterLoans(filter library.LoanQueryFilter) ([]library.Loan, error) {
	if filter.StudentIDs != nil && len(filter.StudentIDs) == 0 {
		return []library.Loan{}, nil
	}

	q := `SELECT * FROM loan WHERE 1=1`
	var args []interface{}
	if filter.StudentID != 0 {
		q += " AND student_id = ?"
		args = append(args, filter.StudentID)
	}
	if filter.StudentIDs != nil {
		q += " AND student_id IN (?)"
		args = append(args, filter.StudentIDs)
	}
	if filter.Returned != nil {
		q += " AND returned = ?"
		args = append(args, *filter.Returned)
	}
	q += " ORDER BY id"

	q, expanded, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "filtering loans")
	}
	loans := make([]library.Loan, 0)
	err = repo.db.Select(&loans, repo.db.Rebind(q), expanded...)
	return loans, errors.Wrap(err, "filtering loans")
}

func (repo *libraryRepository) UpdateLoan(l library.Loan) (library.Loan, error) {
	q := `
		UPDATE loan
		SET student_id = :student_id, type = :type, book_id = :book_id, computer = :computer,
		    loan_date = :loan_date, returned = :returned, return_date = :return_date
		WHERE id = :id`
	res, err := repo.db.NamedExec(q, l)
	if err != nil {
		return library.Loan{}, errors.Wrap(err, "updating loan")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return library.Loan{}, library.ErrLoanNotFound
	}
	return l, nil
}

func (repo *libraryRepository) DeleteLoansByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM loan WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting loans")
	}
	_, err = repo.db.Exec(repo.db.Rebind(q), args...)
	return errors.Wrap(err, "deleting loans")
}
