package library

import (
	"github.com/volatiletech/null/v8"

	"github.com/escoladigital/secretaria/core"
)

// Loan kinds; a livro loan holds a book, a computador loan holds the
// equipment tag instead.
const (
	LoanTypeBook     = "livro"
	LoanTypeComputer = "computador"
)

var LoanTypes = []string{LoanTypeBook, LoanTypeComputer}

type Book struct {
	ID              int       `db:"id" json:"id"`
	Title           string    `db:"title" json:"titulo"`
	Author          string    `db:"author" json:"autor"`
	ISBN            string    `db:"isbn" json:"isbn"`
	PublicationDate core.Date `db:"publication_date" json:"data_publicacao"`
	AvailableCopies int       `db:"available_copies" json:"exemplares_disponiveis"`
}

type NewBook struct {
	Title           string    `json:"titulo" validate:"required"`
	Author          string    `json:"autor" validate:"required"`
	ISBN            string    `json:"isbn"`
	PublicationDate core.Date `json:"data_publicacao"`
	AvailableCopies int       `json:"exemplares_disponiveis" validate:"min=0"`
}

func (nb *NewBook) Validate() error {
	nb.Title = core.CleanString(nb.Title)
	nb.Author = core.CleanString(nb.Author)
	nb.ISBN = core.CleanString(nb.ISBN)
	return core.Validate.Struct(nb)
}

type UpdateBook struct {
	Title           string    `json:"titulo"`
	Author          string    `json:"autor"`
	ISBN            string    `json:"isbn"`
	PublicationDate core.Date `json:"data_publicacao"`
	AvailableCopies *int      `json:"exemplares_disponiveis" validate:"omitempty,min=0"`
}

func (ub *UpdateBook) Validate(orig Book) error {
	ub.Title = core.CleanString(ub.Title)
	ub.Author = core.CleanString(ub.Author)
	ub.ISBN = core.CleanString(ub.ISBN)
	if ub.Title == "" {
		ub.Title = orig.Title
	}
	if ub.Author == "" {
		ub.Author = orig.Author
	}
	if ub.ISBN == "" {
		ub.ISBN = orig.ISBN
	}
	if ub.PublicationDate.IsZero() {
		ub.PublicationDate = orig.PublicationDate
	}
	return core.Validate.Struct(ub)
}

type Loan struct {
	ID          int       `db:"id" json:"id"`
	StudentID   int       `db:"student_id" json:"aluno"`
	StudentName string    `db:"-" json:"aluno_nome,omitempty"`
	Type        string    `db:"type" json:"tipo"`
	BookID      null.Int64  `db:"book_id" json:"livro"`
	BookTitle   string    `db:"-" json:"livro_titulo,omitempty"`
	Computer    string    `db:"computer" json:"computador,omitempty"`
	LoanDate    core.Date `db:"loan_date" json:"data_emprestimo"`
	Returned    bool      `db:"returned" json:"devolvido"`
	ReturnDate  null.Time `db:"return_date" json:"data_devolucao"`
}

type NewLoan struct {
	StudentID int       `json:"aluno" validate:"required"`
	Type      string    `json:"tipo" validate:"required,emprestimotipo"`
	BookID    null.Int64  `json:"livro"`
	Computer  string    `json:"computador"`
	LoanDate  core.Date `json:"data_emprestimo"`
}

func (nl *NewLoan) Validate() error {
	nl.Computer = core.CleanString(nl.Computer)
	return core.Validate.Struct(nl)
}

// UpdateLoan carries the fields an open loan may be corrected with. The item
// on loan (livro/computador) and the stock it moved are fixed at creation;
// a wrong item means returning and re-lending.
type UpdateLoan struct {
	LoanDate *core.Date `json:"data_emprestimo"`
	Computer *string    `json:"computador"`
}

func (ul *UpdateLoan) Validate() error {
	if ul.Computer != nil {
		*ul.Computer = core.CleanString(*ul.Computer)
	}
	return core.Validate.Struct(ul)
}

type LoanQueryFilter struct {
	StudentID int   `query:"aluno"`
	Returned  *bool `query:"devolvido"`
	// StudentIDs scopes the list to a caller's own students; nil means
	// unrestricted, an empty non-nil slice yields no rows.
	StudentIDs []int `query:"-"`
}
