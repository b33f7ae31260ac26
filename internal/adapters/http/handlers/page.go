package handlers

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-generator/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-generator/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-generator/internal/app"
	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

const pageTemplate = "page.html"

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// pageView is the data the page template renders.
type pageView struct {
	Display    dto.DisplayResponse
	Categories []string
	Filter     string
	Count      int
	Sync       dto.SyncStatusResponse
	Notice     string
	Error      string
}

// PageHandler serves the server-rendered HTML page. Forms post back to the
// page and the response is the re-rendered page with a notice.
type PageHandler struct {
	service *app.QuoteService
	status  SyncReporter
}

// NewPageHandler creates a page handler.
func NewPageHandler(service *app.QuoteService, status SyncReporter) *PageHandler {
	return &PageHandler{service: service, status: status}
}

// Index handles GET /. A ?category= parameter persists the filter and shows
// a random quote from it; otherwise the session's last viewed quote is
// restored.
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.GetSessionID(c)

	category, filtering := c.GetQuery("category")
	if filtering {
		filter, err := h.service.SetFilter(ctx, category)
		if err != nil {
			h.render(c, http.StatusServiceUnavailable, app.Display{}, "", pageError(err))
			return
		}

		h.render(c, http.StatusOK, h.service.PickAndShow(ctx, sessionID, filter), "", "")

		return
	}

	var display app.Display
	if last, err := h.service.LastViewed(ctx, sessionID); err == nil {
		display.Quote = last
	} else {
		display.Empty = true
	}

	h.render(c, http.StatusOK, display, "", "")
}

// Show handles POST /quotes/show ("Show New Quote").
func (h *PageHandler) Show(c *gin.Context) {
	display := h.service.PickAndShow(c.Request.Context(), middleware.GetSessionID(c), c.PostForm("category"))

	h.render(c, http.StatusOK, display, "", "")
}

// Add handles POST /quotes from the add-quote form.
func (h *PageHandler) Add(c *gin.Context) {
	var req dto.AddQuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, app.Display{Empty: true}, "", "Malformed form submission.")
		return
	}

	result, err := h.service.AddQuote(c.Request.Context(), middleware.GetSessionID(c), req.Text, req.Category)
	if err != nil {
		h.render(c, statusOf(err), app.Display{Empty: true}, "", pageError(err))
		return
	}

	h.render(c, http.StatusOK, result.Display, "Quote added successfully!", "")
}

// Import handles POST /quotes/import from the file input.
func (h *PageHandler) Import(c *gin.Context) {
	contents, err := readImport(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, app.Display{Empty: true}, "", "Choose a JSON file to import.")
		return
	}

	ctx := c.Request.Context()

	result, err := h.service.Import(ctx, contents)
	if err != nil {
		h.render(c, statusOf(err), app.Display{Empty: true}, "", pageError(err))
		return
	}

	notice := "Quotes imported successfully!"
	if result.Skipped > 0 {
		notice = "Quotes imported successfully! Some entries were not valid quotes and were skipped."
	}

	h.render(c, http.StatusOK, h.service.ShowUnderFilter(ctx, middleware.GetSessionID(c)), notice, "")
}

// Export handles GET /quotes/export.
func (h *PageHandler) Export(c *gin.Context) {
	writeExport(c, h.service)
}

// RegisterPageRoutes installs the templates and the page routes, behind
// the given middleware.
func (h *PageHandler) RegisterPageRoutes(engine *gin.Engine, middlewares ...gin.HandlerFunc) {
	engine.SetHTMLTemplate(Templates())

	page := engine.Group("", middlewares...)
	page.GET("/", h.Index)
	page.POST("/quotes", h.Add)
	page.POST("/quotes/show", h.Show)
	page.POST("/quotes/import", h.Import)
	page.GET("/quotes/export", h.Export)
}

func (h *PageHandler) render(c *gin.Context, status int, display app.Display, notice, errMsg string) {
	ctx := c.Request.Context()

	view := pageView{
		Display: dto.NewDisplayResponse(display),
		Sync:    dto.NewSyncStatusResponse(h.status.LastReport()),
		Notice:  notice,
		Error:   errMsg,
	}

	state, err := h.service.PageState(ctx, middleware.GetSessionID(c))
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "reading page state", slog.Any("error", err))

		state.Categories = h.service.Categories(ctx)
		state.Filter = domain.AllCategories
	}

	view.Categories = state.Categories
	view.Filter = state.Filter
	view.Count = state.Count

	c.HTML(status, pageTemplate, view)
}

// pageError is the notice shown for a failed form action.
func pageError(err error) string {
	switch {
	case domain.IsValidation(err):
		return domain.ValidationMessage(err)
	case domain.IsUnavailable(err):
		return "Storage is temporarily unavailable. Please try again."
	default:
		return "Something went wrong."
	}
}

func statusOf(err error) int {
	status, _ := dto.MapDomainError(err)
	return status
}
