package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookworm/internal/catalog/service"
	"github.com/aussiebroadwan/bookworm/pkg/authsdk"
	"github.com/aussiebroadwan/bookworm/pkg/httpx"
)

const notFoundBook = "book not found"

type BooksHandler struct {
	CatalogService *service.CatalogService
	MaxUploadBytes int64
}

// HandleAdd uploads a book.
//
//	@Summary	Add book
//	@Tags		Books
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	CookieAuth
//	@Param		title		formData	string	true	"Title"
//	@Param		author		formData	string	true	"Author"
//	@Param		genre		formData	string	true	"Genre name"
//	@Param		description	formData	string	false	"Description"
//	@Param		cover		formData	file	true	"Cover image"
//	@Param		pdf			formData	file	true	"Book PDF"
//	@Success	201			{object}	authsdk.AddBookResponse
//	@Failure	400			{object}	authsdk.ValidationErrorResponse
//	@Failure	401			{object}	authsdk.ErrorResponse
//	@Failure	403			{object}	authsdk.ErrorResponse
//	@Failure	413			{object}	authsdk.ErrorResponse
//	@Router		/add-book [post].
func (h *BooksHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	form, err := parseUploadForm(w, r, h.MaxUploadBytes)
	if err != nil {
		writeFormError(w, err)
		return
	}
	defer form.Close()

	cover, err := form.file("cover")
	if err != nil {
		writeFormError(w, err)
		return
	}
	pdf, err := form.file("pdf")
	if err != nil {
		writeFormError(w, err)
		return
	}

	b, err := h.CatalogService.AddBook(r.Context(), service.BookInput{
		Title:       form.value("title"),
		Author:      form.value("author"),
		Genre:       form.value("genre"),
		Description: form.value("description"),
		Cover:       cover,
		PDF:         pdf,
	})
	if err != nil {
		writeError(w, r, err, "", "")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.AddBookResponse{
		Message:    "Book added successfully",
		InsertedID: b.ID,
		Book:       toBook(b),
	})
}

// HandleList lists books, newest first.
//
//	@Summary	List books
//	@Tags		Books
//	@Produce	json
//	@Param		genre	query		string	false	"Only books of this genre"
//	@Success	200		{object}	authsdk.BooksResponse
//	@Router		/books [get].
func (h *BooksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.CatalogService.ListBooks(r.Context(), r.URL.Query().Get("genre"))
	if err != nil {
		writeError(w, r, err, "", "")
		return
	}

	out := authsdk.BooksResponse{Books: make([]authsdk.Book, 0, len(books))}
	for _, b := range books {
		out.Books = append(out.Books, toBook(b))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet returns a single book.
//
//	@Summary	Get book
//	@Tags		Books
//	@Produce	json
//	@Param		id	path		string	true	"Book id"
//	@Success	200	{object}	authsdk.BookResponse
//	@Failure	404	{object}	authsdk.ErrorResponse
//	@Router		/books/{id} [get].
func (h *BooksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	b, err := h.CatalogService.GetBook(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, "", notFoundBook)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.BookResponse{Book: toBook(b)})
}
