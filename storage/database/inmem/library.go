package inmemdb

import (
	"sort"

	"github.com/escoladigital/secretaria/core/library"
)

type libraryRepository struct {
	books *table[library.Book]
	loans *table[library.Loan]
}

var _ library.Repository = (*libraryRepository)(nil)

func NewLibraryRepository(db *DB) library.Repository {
	return &libraryRepository{books: db.books, loans: db.loans}
}

func (repo *libraryRepository) CreateBook(b library.Book) (library.Book, error) {
	repo.books.mutex.Lock()
	defer repo.books.mutex.Unlock()

	repo.books.seq++
	b.ID = repo.books.seq
	repo.books.rows[b.ID] = &b
	return b, nil
}

func (repo *libraryRepository) GetBookByID(id int) (library.Book, error) {
	repo.books.mutex.RLock()
	defer repo.books.mutex.RUnlock()

	if b, ok := repo.books.rows[id]; ok {
		return *b, nil
	}
	return library.Book{}, library.ErrBookNotFound
}

func (repo *libraryRepository) FilterBooks(search string) ([]library.Book, error) {
	repo.books.mutex.RLock()
	defer repo.books.mutex.RUnlock()

	books := make([]library.Book, 0)
	for _, b := range repo.books.all() {
		if search != "" && !matchesSearch(search, b.Title, b.Author, b.ISBN) {
			continue
		}
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (repo *libraryRepository) UpdateBook(b library.Book) (library.Book, error) {
	repo.books.mutex.Lock()
	defer repo.books.mutex.Unlock()

	if _, ok := repo.books.rows[b.ID]; !ok {
		return library.Book{}, library.ErrBookNotFound
	}
	repo.books.rows[b.ID] = &b
	return b, nil
}

func (repo *libraryRepository) DeleteBooksByID(ids ...int) error {
	repo.books.mutex.Lock()
	defer repo.books.mutex.Unlock()
	for _, id := range ids {
		delete(repo.books.rows, id)
	}
	return nil
}

func (repo *libraryRepository) CreateLoan(l library.Loan) (library.Loan, error) {
	repo.loans.mutex.Lock()
	defer repo.loans.mutex.Unlock()

	repo.loans.seq++
	l.ID = repo.loans.seq
	repo.loans.rows[l.ID] = &l
	return l, nil
}

func (repo *libraryRepository) GetLoanByID(id int) (library.Loan, error) {
	repo.loans.mutex.RLock()
	defer repo.loans.mutex.RUnlock()

	if l, ok := repo.loans.rows[id]; ok {
		return *l, nil
	}
	return library.Loan{}, library.ErrLoanNotFound
}

func (repo *libraryRepository) FilterLoans(filter library.LoanQueryFilter) ([]library.Loan, error) {
	repo.loans.mutex.RLock()
	defer repo.loans.mutex.RUnlock()

	var allowed map[int]struct{}
	if filter.StudentIDs != nil {
		allowed = make(map[int]struct{}, len(filter.StudentIDs))
		for _, id := range filter.StudentIDs {
			allowed[id] = struct{}{}
		}
	}

	loans := make([]library.Loan, 0)
	for _, l := range repo.loans.all() {
		if filter.StudentID != 0 && l.StudentID != filter.StudentID {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[l.StudentID]; !ok {
				continue
			}
		}
		if filter.Returned != nil && l.Returned != *filter.Returned {
			continue
		}
		loans = append(loans, l)
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

func (repo *libraryRepository) UpdateLoan(l library.Loan) (library.Loan, error) {
	repo.loans.mutex.Lock()
	defer repo.loans.mutex.Unlock()

	if _, ok := repo.loans.rows[l.ID]; !ok {
		return library.Loan{}, library.ErrLoanNotFound
	}
	repo.loans.rows[l.ID] = &l
	return l, nil
}

func (repo *libraryRepository) DeleteLoansByID(ids ...int) error {
	repo.loans.mutex.Lock()
	defer repo.loans.mutex.Unlock()
	for _, id := range ids {
		delete(repo.loans.rows, id)
	}
	return nil
}
