package library

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/escoladigital/secretaria/core"
	"github.com/escoladigital/secretaria/core/roster"
)

var (
	ErrBookNotFound = errors.New("livro not found")
	ErrLoanNotFound = errors.New("empréstimo not found")

	errNoCopies       = "Não há exemplares disponíveis deste livro."
	errBookRequired   = "Informe o livro para empréstimos do tipo livro."
	errComputerNeeded = "Informe o identificador do computador."
)

type (
	Repository interface {
		CreateBook(b Book) (Book, error)
		GetBookByID(id int) (Book, error)
		FilterBooks(search string) ([]Book, error)
		UpdateBook(b Book) (Book, error)
		DeleteBooksByID(ids ...int) error

		CreateLoan(l Loan) (Loan, error)
		GetLoanByID(id int) (Loan, error)
		FilterLoans(filter LoanQueryFilter) ([]Loan, error)
		UpdateLoan(l Loan) (Loan, error)
		DeleteLoansByID(ids ...int) error
	}

	Service struct {
		repo      Repository
		rosterSvc *roster.Service
	}
)

func NewService(repo Repository, rosterSvc *roster.Service) *Service {
	return &Service{repo: repo, rosterSvc: rosterSvc}
}

func (svc *Service) CreateBook(nb NewBook) (Book, error) {
	b := Book{
		Title:           nb.Title,
		Author:          nb.Author,
		ISBN:            nb.ISBN,
		PublicationDate: nb.PublicationDate,
		AvailableCopies: nb.AvailableCopies,
	}
	return svc.repo.CreateBook(b)
}

func (svc *Service) GetBook(id int) (Book, error) {
	return svc.repo.GetBookByID(id)
}

func (svc *Service) FilterBooks(search string) ([]Book, error) {
	return svc.repo.FilterBooks(core.CleanString(search))
}

func (svc *Service) UpdateBook(id int, ub UpdateBook) (Book, error) {
	b, err := svc.repo.GetBookByID(id)
	if err != nil {
		return Book{}, err
	}
	if err = ub.Validate(b); err != nil {
		return Book{}, err
	}
	b.Title = ub.Title
	b.Author = ub.Author
	b.ISBN = ub.ISBN
	b.PublicationDate = ub.PublicationDate
	if ub.AvailableCopies != nil {
		b.AvailableCopies = *ub.AvailableCopies
	}
	return svc.repo.UpdateBook(b)
}

func (svc *Service) DeleteBooks(ids ...int) error {
	return svc.repo.DeleteBooksByID(ids...)
}

// CreateLoan records a checkout. Book loans take one copy off the shelf;
// computer loans track the equipment tag only.
func (svc *Service) CreateLoan(nl NewLoan) (Loan, error) {
	if _, err := svc.rosterSvc.GetStudent(nl.StudentID); err != nil {
		return Loan{}, core.NewValidationError(err, core.FieldError{Field: "aluno", Error: roster.ErrStudentNotFound.Error()})
	}

	l := Loan{
		StudentID: nl.StudentID,
		Type:      nl.Type,
		BookID:    nl.BookID,
		Computer:  nl.Computer,
		LoanDate:  nl.LoanDate,
	}
	if l.LoanDate.IsZero() {
		l.LoanDate = core.Today()
	}

	switch l.Type {
	case LoanTypeBook:
		if !l.BookID.Valid {
			return Loan{}, core.NewValidationError(errors.New(errBookRequired), core.FieldError{Field: "livro", Error: errBookRequired})
		}
		b, err := svc.repo.GetBookByID(int(l.BookID.Int64))
		if err != nil {
			return Loan{}, core.NewValidationError(err, core.FieldError{Field: "livro", Error: ErrBookNotFound.Error()})
		}
		if b.AvailableCopies <= 0 {
			return Loan{}, core.NewValidationError(errors.New(errNoCopies), core.FieldError{Field: "livro", Error: errNoCopies})
		}
		b.AvailableCopies--
		if _, err = svc.repo.UpdateBook(b); err != nil {
			return Loan{}, err
		}
	case LoanTypeComputer:
		if l.Computer == "" {
			return Loan{}, core.NewValidationError(errors.New(errComputerNeeded), core.FieldError{Field: "computador", Error: errComputerNeeded})
		}
		l.BookID = null.Int64{}
	}

	l, err := svc.repo.CreateLoan(l)
	if err != nil {
		return Loan{}, err
	}
	return svc.withNames(l)
}

func (svc *Service) GetLoan(id int) (Loan, error) {
	l, err := svc.repo.GetLoanByID(id)
	if err != nil {
		return Loan{}, err
	}
	return svc.withNames(l)
}

func (svc *Service) FilterLoans(filter LoanQueryFilter) ([]Loan, error) {
	loans, err := svc.repo.FilterLoans(filter)
	if err != nil {
		return nil, err
	}
	for i, l := range loans {
		named, err := svc.withNames(l)
		if err != nil {
			return nil, err
		}
		loans[i] = named
	}
	return loans, nil
}

func (svc *Service) UpdateLoan(id int, ul UpdateLoan) (Loan, error) {
	l, err := svc.repo.GetLoanByID(id)
	if err != nil {
		return Loan{}, err
	}
	if err = ul.Validate(); err != nil {
		return Loan{}, err
	}
	if ul.LoanDate != nil {
		l.LoanDate = *ul.LoanDate
	}
	if ul.Computer != nil && l.Type == LoanTypeComputer {
		l.Computer = *ul.Computer
	}
	l, err = svc.repo.UpdateLoan(l)
	if err != nil {
		return Loan{}, err
	}
	return svc.withNames(l)
}

// PendingLoans lists checkouts not yet returned, within the same scoping
// rules as FilterLoans.
func (svc *Service) PendingLoans(filter LoanQueryFilter) ([]Loan, error) {
	returned := false
	filter.Returned = &returned
	return svc.FilterLoans(filter)
}

// Return marks the loan returned today and restocks book loans. Returning
// an already returned loan is a no-op.
func (svc *Service) Return(id int) (Loan, error) {
	l, err := svc.repo.GetLoanByID(id)
	if err != nil {
		return Loan{}, err
	}
	if l.Returned {
		return svc.withNames(l)
	}
	l.Returned = true
	l.ReturnDate = null.TimeFrom(time.Now().UTC())

	if l.Type == LoanTypeBook && l.BookID.Valid {
		b, err := svc.repo.GetBookByID(int(l.BookID.Int64))
		if err == nil {
			b.AvailableCopies++
			if _, err = svc.repo.UpdateBook(b); err != nil {
				return Loan{}, err
			}
		} else if err != ErrBookNotFound {
			return Loan{}, err
		}
	}

	l, err = svc.repo.UpdateLoan(l)
	if err != nil {
		return Loan{}, err
	}
	return svc.withNames(l)
}

func (svc *Service) DeleteLoans(ids ...int) error {
	return svc.repo.DeleteLoansByID(ids...)
}

func (svc *Service) withNames(l Loan) (Loan, error) {
	st, err := svc.rosterSvc.GetStudent(l.StudentID)
	if err == nil {
		l.StudentName = st.Name
	} else if err != roster.ErrStudentNotFound {
		return Loan{}, err
	}
	if l.BookID.Valid {
		b, err := svc.repo.GetBookByID(int(l.BookID.Int64))
		if err == nil {
			l.BookTitle = b.Title
		} else if err != ErrBookNotFound {
			return Loan{}, err
		}
	}
	return l, nil
}
