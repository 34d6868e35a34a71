// Package http provides http transport for books
package http

import (
	stdhttp "net/http"
	"time"

	"pricebook/internal/core/catalog"
	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/services/api/books/domain"
	booksdom "pricebook/internal/services/books/domain"
)

// Ports are the worker ports the handlers call
type Ports struct {
	Reader booksdom.ReaderPort
	Writer booksdom.WriterPort
}

// Register mounts books endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}

	httpkit.PostJSON[domain.UploadInput](r, "/upload", h.upload)
	httpkit.PostJSON[domain.ListInput](r, "/list", h.list)
	httpkit.PostJSON[domain.GetInput](r, "/get", h.get)
}

type handlers struct{ p Ports }

// swagger:route POST /books/upload Books booksUpload
// @Summary Store a price book snapshot
// @Tags Books
// @Accept json
// @Produce json
// @Param payload body domain.UploadInput true "Snapshot"
// @Success 200 {object} domain.BookOut "ok"
// @Router /books/upload [post]
func (h *handlers) upload(r *stdhttp.Request, in domain.UploadInput) (any, error) {
	recs := make([]catalog.ProductRecord, 0, len(in.Records))
	for _, x := range in.Records {
		recs = append(recs, catalog.ProductRecord{
			Manufacturer: x.Manufacturer,
			Family:       x.Family,
			Model:        x.Model,
			SKU:          x.SKU,
			Finish:       x.Finish,
			Size:         x.Size,
			BasePrice:    x.BasePrice,
			Options:      x.Options,
			RuleText:     x.RuleText,
			Meta:         x.Meta,
		})
	}
	b, err := h.p.Writer.Create(r.Context(), booksdom.CreateInput{
		ID:      in.ID,
		Name:    in.Name,
		Records: recs,
	})
	if err != nil {
		return nil, err
	}
	return toBookOut(b), nil
}

// swagger:route POST /books/list Books booksList
// @Summary List stored snapshots, newest first
// @Tags Books
// @Accept json
// @Produce json
// @Param payload body domain.ListInput true "Query"
// @Success 200 {array} domain.BookOut "ok"
// @Router /books/list [post]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	books, err := h.p.Reader.List(r.Context(), in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.BookOut, 0, len(books))
	for _, b := range books {
		out = append(out, toBookOut(b))
	}
	return out, nil
}

// swagger:route POST /books/get Books booksGet
// @Summary Fetch one snapshot's header
// @Tags Books
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Query"
// @Success 200 {object} domain.BookOut "ok"
// @Router /books/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetInput) (any, error) {
	b, err := h.p.Reader.Get(r.Context(), in.BookID)
	if err != nil {
		return nil, err
	}
	return toBookOut(b), nil
}

func toBookOut(b booksdom.Book) domain.BookOut {
	return domain.BookOut{
		ID:        b.ID,
		Name:      b.Name,
		Records:   b.Records,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
