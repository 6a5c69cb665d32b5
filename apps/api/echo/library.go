package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/escoladigital/secretaria/core/authz"
	"github.com/escoladigital/secretaria/core/library"
)

func (s *server) registerLibraryAPI(g *echo.Group, jwt echo.MiddlewareFunc) {
	bg := g.Group("/livros", jwt)
	bg.GET("", s.queryBooks, can(authz.ActionView, authz.ResourceBook))
	bg.POST("", s.createBook, can(authz.ActionCreate, authz.ResourceBook))
	bg.DELETE("", s.destroyBooks, can(authz.ActionDelete, authz.ResourceBook))
	bg.GET("/:id", s.retrieveBook, can(authz.ActionView, authz.ResourceBook))
	bg.PUT("/:id", s.updateBook, can(authz.ActionUpdate, authz.ResourceBook))
	bg.DELETE("/:id", s.destroyBook, can(authz.ActionDelete, authz.ResourceBook))

	lg := g.Group("/emprestimos", jwt)
	lg.GET("", s.queryLoans, can(authz.ActionView, authz.ResourceLoan))
	lg.POST("", s.createLoan, can(authz.ActionCreate, authz.ResourceLoan))
	lg.GET("/pendentes", s.queryPendingLoans, can(authz.ActionView, authz.ResourceLoan))
	lg.GET("/:id", s.retrieveLoan, can(authz.ActionView, authz.ResourceLoan))
	lg.PUT("/:id", s.updateLoan, can(authz.ActionUpdate, authz.ResourceLoan))
	lg.DELETE("/:id", s.destroyLoan, can(authz.ActionDelete, authz.ResourceLoan))
	lg.POST("/:id/devolver", s.returnLoan, can(authz.ActionUpdate, authz.ResourceLoan))
}

// Books

func (s *server) queryBooks(ctx echo.Context) error {
	books, err := s.deps.LibrarySvc.FilterBooks(ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "querying books")
	}
	return ctx.JSON(http.StatusOK, books)
}

func (s *server) createBook(ctx echo.Context) error {
	var data library.NewBook
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBook")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	book, err := s.deps.LibrarySvc.CreateBook(data)
	if err != nil {
		return errors.Wrap(err, "creating book")
	}
	return ctx.JSON(http.StatusCreated, book)
}

func (s *server) retrieveBook(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	book, err := s.deps.LibrarySvc.GetBook(id)
	if err != nil {
		if errors.Cause(err) == library.ErrBookNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting book")
	}
	return ctx.JSON(http.StatusOK, book)
}

func (s *server) updateBook(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data library.UpdateBook
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBook")
	}

	book, err := s.deps.LibrarySvc.UpdateBook(id, data)
	if err != nil {
		if errors.Cause(err) == library.ErrBookNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating book")
	}
	return ctx.JSON(http.StatusOK, book)
}

func (s *server) destroyBook(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.LibrarySvc.DeleteBooks(id); err != nil {
		return errors.Wrap(err, "deleting book")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) destroyBooks(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := s.deps.LibrarySvc.DeleteBooks(query.IDs...); err != nil {
		return errors.Wrap(err, "deleting books")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Loans

func (s *server) queryLoans(ctx echo.Context) error {
	filter := new(library.LoanQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []library.Loan{})
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	filter.StudentIDs = scope

	loans, err := s.deps.LibrarySvc.FilterLoans(*filter)
	if err != nil {
		return errors.Wrap(err, "querying loans")
	}
	return ctx.JSON(http.StatusOK, loans)
}

func (s *server) queryPendingLoans(ctx echo.Context) error {
	filter := new(library.LoanQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []library.Loan{})
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	filter.StudentIDs = scope

	loans, err := s.deps.LibrarySvc.PendingLoans(*filter)
	if err != nil {
		return errors.Wrap(err, "querying pending loans")
	}
	return ctx.JSON(http.StatusOK, loans)
}

func (s *server) createLoan(ctx echo.Context) error {
	var data library.NewLoan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLoan")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	loan, err := s.deps.LibrarySvc.CreateLoan(data)
	if err != nil {
		return errors.Wrap(err, "creating loan")
	}
	return ctx.JSON(http.StatusCreated, loan)
}

func (s *server) retrieveLoan(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	loan, err := s.deps.LibrarySvc.GetLoan(id)
	if err != nil {
		if errors.Cause(err) == library.ErrLoanNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting loan")
	}

	scope, err := s.scopedStudentIDs(ctx)
	if err != nil {
		return err
	}
	if !idInScope(loan.StudentID, scope) {
		return errHTTPNotFound
	}
	return ctx.JSON(http.StatusOK, loan)
}

func (s *server) updateLoan(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	var data library.UpdateLoan
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLoan")
	}

	loan, err := s.deps.LibrarySvc.UpdateLoan(id, data)
	if err != nil {
		if errors.Cause(err) == library.ErrLoanNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating loan")
	}
	return ctx.JSON(http.StatusOK, loan)
}

func (s *server) returnLoan(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}

	loan, err := s.deps.LibrarySvc.Return(id)
	if err != nil {
		if errors.Cause(err) == library.ErrLoanNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "returning loan")
	}
	return ctx.JSON(http.StatusOK, loan)
}

func (s *server) destroyLoan(ctx echo.Context) error {
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.LibrarySvc.DeleteLoans(id); err != nil {
		return errors.Wrap(err, "deleting loan")
	}
	return ctx.NoContent(http.StatusNoContent)
}
