package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// BooksController serves the /book endpoints. Each handler runs exactly
// one CRUD operation in the session installed by SessionMiddleware.
type BooksController struct {
	baseURL string
}

// NewBooksController creates the controller. An empty baseURL makes
// the "url" field follow the scheme and host of each request.
func NewBooksController(baseURL string) *BooksController {
	useJSONFieldNames()
	return &BooksController{baseURL: baseURL}
}

func (bc *BooksController) urlBase(c *gin.Context) string {
	if bc.baseURL != "" {
		return bc.baseURL
	}
	return requestBaseURL(c)
}

// CreateBook creates a book from the request body.
// POST /book/
func (bc *BooksController) CreateBook(c *gin.Context) {
	var in entities.BookIn
	if !bindJSON(c, &in) {
		return
	}
	sess, ok := GetSession(c)
	if !ok {
		respondInternalError(c, errors.New("no session in context"), "create book")
		return
	}

	book, err := books.Create(sess, in)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, book.Out(bc.urlBase(c), false))
}

// GetBook returns a single book.
// GET /book/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sess, ok := GetSession(c)
	if !ok {
		respondInternalError(c, errors.New("no session in context"), "read book")
		return
	}

	book, err := books.Read(sess, id)
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "read book")
		return
	}

	c.JSON(http.StatusOK, book.Out(bc.urlBase(c), true))
}

// UpdateBook replaces title, description and pages.
// PUT /book/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in entities.BookIn
	if !bindJSON(c, &in) {
		return
	}
	sess, ok := GetSession(c)
	if !ok {
		respondInternalError(c, errors.New("no session in context"), "update book")
		return
	}

	book, err := books.Update(sess, id, in)
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, book.Out(bc.urlBase(c), true))
}

// DeleteBook removes a book permanently.
// DELETE /book/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	sess, ok := GetSession(c)
	if !ok {
		respondInternalError(c, errors.New("no session in context"), "delete book")
		return
	}

	deleted, err := books.Delete(sess, id)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}
	if !deleted {
		respondNotFound(c, "book")
		return
	}

	respondNoContent(c)
}
