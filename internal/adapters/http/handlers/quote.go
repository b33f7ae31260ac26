package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// ExportFilename is the attachment name of exported quote files.
const ExportFilename = "quotes.json"

// importFormField is the multipart field carrying an import file.
const importFormField = "file"

// SyncRunner triggers a sync cycle on demand.
type SyncRunner interface {
	RunOnce(ctx context.Context) (domain.SyncReport, error)
}

// SyncReporter exposes the most recent sync outcome.
type SyncReporter interface {
	LastReport() domain.SyncReport
}

// QuoteHandler serves the JSON API under /api/v1.
type QuoteHandler struct {
	service *app.QuoteService
	runner  SyncRunner
	status  SyncReporter
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService, runner SyncRunner, status SyncReporter) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		runner:  runner,
		status:  status,
	}
}

// ListQuotes handles GET /api/v1/quotes.
// Returns a page of quotes, optionally filtered by ?category=.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var query dto.ListQuotesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	page, err := dto.Paginate(dto.NewQuoteResponses(h.service.Quotes(c.Request.Context(), query.Category)), query.PaginationRequest)
	if err != nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, page)
}

// AddQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.AddQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	result, err := h.service.AddQuote(c.Request.Context(), middleware.GetSessionID(c), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AddQuoteResponse{
		Quote:   dto.NewQuoteResponse(result.Quote),
		Display: dto.NewDisplayResponse(result.Display),
	})
}

// RandomQuote handles GET /api/v1/quotes/random.
// An empty match is a 200 with empty set, not an error.
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	var query dto.CategoryQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	display := h.service.PickAndShow(c.Request.Context(), middleware.GetSessionID(c), query.Category)

	c.JSON(http.StatusOK, dto.NewDisplayResponse(display))
}

// LastViewed handles GET /api/v1/quotes/last-viewed.
func (h *QuoteHandler) LastViewed(c *gin.Context) {
	quote, err := h.service.LastViewed(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// Export handles GET /api/v1/quotes/export.
func (h *QuoteHandler) Export(c *gin.Context) {
	writeExport(c, h.service)
}

// Import handles POST /api/v1/quotes/import. The body is either the raw
// JSON document or a multipart form with a "file" field.
func (h *QuoteHandler) Import(c *gin.Context) {
	contents, err := readImport(c)
	if err != nil {
		dto.HandleBindError(c, err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), contents)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewImportResponse(result))
}

// Categories handles GET /api/v1/categories.
func (h *QuoteHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: h.service.Categories(c.Request.Context())})
}

// GetFilter handles GET /api/v1/filter.
func (h *QuoteHandler) GetFilter(c *gin.Context) {
	category, err := h.service.Filter(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FilterResponse{Category: category})
}

// SetFilter handles PUT /api/v1/filter.
func (h *QuoteHandler) SetFilter(c *gin.Context) {
	var req dto.FilterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	category, err := h.service.SetFilter(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FilterResponse{Category: category})
}

// Sync handles POST /api/v1/sync. A cycle that fails still answers 200;
// the failure is in the report. A cycle already running is a 409.
func (h *QuoteHandler) Sync(c *gin.Context) {
	report, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSyncStatusResponse(report))
}

// SyncStatus handles GET /api/v1/sync/status.
func (h *QuoteHandler) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSyncStatusResponse(h.status.LastReport()))
}

// RegisterQuoteRoutes registers the API routes on the given group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.RandomQuote)
	quotes.GET("/last-viewed", h.LastViewed)
	quotes.GET("/export", h.Export)
	quotes.POST("/import", h.Import)

	rg.GET("/categories", h.Categories)
	rg.GET("/filter", h.GetFilter)
	rg.PUT("/filter", h.SetFilter)

	rg.POST("/sync", h.Sync)
	rg.GET("/sync/status", h.SyncStatus)
}

func writeExport(c *gin.Context, service *app.QuoteService) {
	data, err := service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// readImport returns the uploaded file, or the raw body when the request is
// not multipart.
func readImport(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile(importFormField)
	if errors.Is(err, http.ErrNotMultipart) {
		return io.ReadAll(c.Request.Body)
	}

	if err != nil {
		return nil, err
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return io.ReadAll(f)
}
