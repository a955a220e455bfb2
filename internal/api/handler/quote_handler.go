package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/msk-clinic/clinic-portal/internal/api/metrics"
	"github.com/msk-clinic/clinic-portal/internal/core/document"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

// QuoteHandler handles HTTP requests for quotes and their printable estimate.
type QuoteHandler struct {
	service ports.QuoteService
}

func NewQuoteHandler(service ports.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Create handles POST /v1/quotes.
//
// @Summary      Create a quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createQuoteRequest  true  "Quote details"
// @Success      201   {object}  quoteResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/quotes [post]
func (h *QuoteHandler) Create(c echo.Context) error {
	var req createQuoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	q, err := h.service.Create(c.Request().Context(), toCreateQuoteInput(req))
	if err != nil {
		return err
	}

	resp := toQuoteResponse(q)
	c.Response().Header().Set(echo.HeaderLocation, resp.Links.Self)
	return c.JSON(http.StatusCreated, resp)
}

// Get handles GET /v1/quotes/:id.
//
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Quote id"
// @Success      200  {object}  quoteResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/quotes/{id} [get]
func (h *QuoteHandler) Get(c echo.Context) error {
	id, err := quoteID(c)
	if err != nil {
		return err
	}

	q, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toQuoteResponse(q))
}

// Document handles GET /v1/quotes/:id/document. The estimate is returned as
// a standalone HTML page; ?download=1 asks the browser to save it.
//
// @Summary      Printable estimate
// @Tags         quotes
// @Produce      html
// @Security     BearerAuth
// @Param        id        path   int   true   "Quote id"
// @Param        download  query  bool  false  "Serve as attachment"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/quotes/{id}/document [get]
func (h *QuoteHandler) Document(c echo.Context) error {
	id, err := quoteID(c)
	if err != nil {
		return err
	}

	out, err := h.service.RenderDocument(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrQuoteNotFound) {
			metrics.DocumentsRenderedTotal.WithLabelValues("http", renderResult(err)).Inc()
		}
		return err
	}
	metrics.DocumentsRenderedTotal.WithLabelValues("http", "ok").Inc()

	disposition := "inline"
	if download, _ := strconv.ParseBool(c.QueryParam("download")); download {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("%s; filename=%q", disposition, document.DocumentNumber(id)+".html"))

	return c.HTML(http.StatusOK, out)
}

// Archive handles POST /v1/quotes/:id/document/archive.
//
// @Summary      Archive the printable estimate
// @Tags         quotes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Quote id"
// @Success      201  {object}  archiveResponse
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/quotes/{id}/document/archive [post]
func (h *QuoteHandler) Archive(c echo.Context) error {
	id, err := quoteID(c)
	if err != nil {
		return err
	}

	doc, err := h.service.ArchiveDocument(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrQuoteNotFound) {
			metrics.DocumentsRenderedTotal.WithLabelValues("archive", renderResult(err)).Inc()
		}
		return err
	}
	metrics.DocumentsRenderedTotal.WithLabelValues("archive", "ok").Inc()

	return c.JSON(http.StatusCreated, archiveResponse{Key: doc.Key, Number: doc.Number, Size: doc.Size})
}

func quoteID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid quote id")
	}
	return id, nil
}

func renderResult(err error) string {
	if errors.Is(err, document.ErrMissingRequiredField) {
		return "missing_field"
	}
	return "error"
}
