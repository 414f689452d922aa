package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookworm/internal/catalog/domain"
	"github.com/aussiebroadwan/bookworm/internal/catalog/media"
	"github.com/aussiebroadwan/bookworm/internal/catalog/store"
	"github.com/aussiebroadwan/bookworm/pkg/slogx"
)

// CatalogService manages genres and books. Callers are expected to have
// checked the admin role for every mutating call.
type CatalogService struct {
	Store store.Store
	Media media.Uploader
}

type GenreInput struct {
	Name string `json:"genre" validate:"required,max=64"`
	Icon string `json:"icon" validate:"max=2048"`
}

type BookInput struct {
	Title       string        `json:"title" validate:"required,max=200"`
	Author      string        `json:"author" validate:"required,max=200"`
	Genre       string        `json:"genre" validate:"required,max=64"`
	Description string        `json:"description" validate:"max=10000"`
	Cover       *media.Object `json:"cover" validate:"required"`
	PDF         *media.Object `json:"pdf" validate:"required"`
}

func (in *GenreInput) normalise() {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
}

func (s *CatalogService) AddGenre(ctx context.Context, in GenreInput) (domain.Genre, error) {
	in.normalise()
	if err := validateStruct(in); err != nil {
		return domain.Genre{}, err
	}

	g := domain.Genre{Name: in.Name, Icon: in.Icon, CreatedAt: time.Now().UTC()}
	id, err := s.Store.Genres().CreateGenre(ctx, g)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Genre{}, ErrConflict
		}
		return domain.Genre{}, fmt.Errorf("create genre: %w", err)
	}
	g.ID = id

	slogx.FromContext(ctx).Info("genre added", slog.String("genre_id", id), slog.String("genre", g.Name))
	return g, nil
}

func (s *CatalogService) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.Store.Genres().ListGenres(ctx)
}

// UpdateGenre renames a genre and replaces its icon. The result says
// whether anything actually changed.
func (s *CatalogService) UpdateGenre(ctx context.Context, id string, in GenreInput) (domain.Genre, domain.UpdateResult, error) {
	in.normalise()
	if err := validateStruct(in); err != nil {
		return domain.Genre{}, domain.UpdateResult{}, err
	}

	genres := s.Store.Genres()
	res, err := genres.UpdateGenre(ctx, id, in.Name, in.Icon)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Genre{}, domain.UpdateResult{}, ErrNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Genre{}, domain.UpdateResult{}, ErrConflict
	case err != nil:
		return domain.Genre{}, domain.UpdateResult{}, fmt.Errorf("update genre: %w", err)
	}

	g, err := genres.GetGenreByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Genre{}, domain.UpdateResult{}, ErrNotFound
		}
		return domain.Genre{}, domain.UpdateResult{}, err
	}
	return g, res, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, id string) error {
	if err := s.Store.Genres().DeleteGenre(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete genre: %w", err)
	}
	slogx.FromContext(ctx).Info("genre deleted", slog.String("genre_id", id))
	return nil
}

// AddBook uploads the cover and PDF and stores the book with empty rating
// and shelf counters.
func (s *CatalogService) AddBook(ctx context.Context, in BookInput) (domain.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return domain.Book{}, err
	}

	cover := *in.Cover
	cover.Folder = media.FolderBookCover
	// Check the PDF before uploading anything so a bad file leaves no cover behind.
	pdf := *in.PDF
	pdf.Folder = media.FolderBookPDF
	if err := media.Validate(pdf); err != nil {
		return domain.Book{}, uploadError("pdf", err)
	}

	coverURL, err := s.Media.Upload(ctx, cover)
	if err != nil {
		return domain.Book{}, uploadError("cover", err)
	}
	pdfURL, err := s.Media.Upload(ctx, pdf)
	if err != nil {
		return domain.Book{}, uploadError("pdf", err)
	}

	b := domain.Book{
		Title:       in.Title,
		Author:      in.Author,
		Genre:       in.Genre,
		Description: in.Description,
		Cover:       coverURL,
		PDF:         pdfURL,
		CreatedAt:   time.Now().UTC(),
	}
	b.ID, err = s.Store.Books().CreateBook(ctx, b)
	if err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}

	slogx.FromContext(ctx).Info("book added", slog.String("book_id", b.ID))
	return b, nil
}

func (s *CatalogService) ListBooks(ctx context.Context, genre string) ([]domain.Book, error) {
	return s.Store.Books().ListBooks(ctx, strings.TrimSpace(genre))
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (domain.Book, error) {
	b, err := s.Store.Books().GetBookByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Book{}, ErrNotFound
	}
	return b, err
}
