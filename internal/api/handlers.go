package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/axellelanca/shortlinks/internal/clock"
	apperrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/reqlog"
	"github.com/axellelanca/shortlinks/internal/services"
	"github.com/gin-gonic/gin"
)

// Handler holds the dependencies shared by every route.
type Handler struct {
	linkService *services.LinkService
	requests    *reqlog.Logger
	clock       clock.Clock
	baseURL     string
	log         *slog.Logger
}

// NewHandler creates the route handlers. baseURL prefixes every full short URL.
func NewHandler(linkService *services.LinkService, requests *reqlog.Logger, clk clock.Clock, baseURL string, log *slog.Logger) *Handler {
	return &Handler{
		linkService: linkService,
		requests:    requests,
		clock:       clk,
		baseURL:     strings.TrimRight(baseURL, "/"),
		log:         log,
	}
}

// SetupRoutes configures all Gin API routes on router.
func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", HealthCheckHandler)

	api := router.Group("/api/v1")
	{
		api.POST("/links", h.CreateShortLink)
		api.GET("/links", h.ListLinks)
		api.GET("/links/:shortcode/stats", h.GetLinkStats)
		api.PATCH("/links/:shortcode", h.UpdateLink)
		api.GET("/logs", h.GetLogs)
		api.DELETE("/logs", h.ClearLogs)
	}

	// Redirection Route - e.g. localhost:8080/abc123
	router.GET("/:shortcode", h.Redirect)
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// LinkInput is one link to shorten. Validity is in minutes.
type LinkInput struct {
	LongURL   string `json:"long_url"`
	Validity  *int   `json:"validity,omitempty"`
	Shortcode string `json:"shortcode,omitempty"`
}

func (in LinkInput) toRequest() services.ShortenRequest {
	req := services.ShortenRequest{
		LongURL:         in.LongURL,
		CustomShortcode: in.Shortcode,
	}
	if in.Validity != nil {
		req.Validity = strconv.Itoa(*in.Validity)
	}
	return req
}

// CreateLinkRequest supports both single and batch formats:
// Single: {"long_url": "https://example.com", "validity": 10, "shortcode": "abc123"}
// Batch: {"links": [{"long_url": "https://example.com"}, {"long_url": "https://go.dev"}]}
type CreateLinkRequest struct {
	LinkInput
	Links []LinkInput `json:"links,omitempty"`
}

// LinkResponse is the public view of a link.
type LinkResponse struct {
	Shortcode    string    `json:"shortcode"`
	LongURL      string    `json:"long_url"`
	FullShortURL string    `json:"full_short_url"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiryDate   time.Time `json:"expiry_date"`
	Expired      bool      `json:"expired"`
	TotalClicks  int       `json:"total_clicks"`
}

// LinkStatsResponse adds the click history to a LinkResponse.
type LinkStatsResponse struct {
	LinkResponse
	Clicks []models.ClickEvent `json:"clicks"`
}

// UpdateLinkRequest is the body of PATCH /api/v1/links/:shortcode.
type UpdateLinkRequest struct {
	LongURL  string `json:"long_url,omitempty"`
	Validity *int   `json:"validity,omitempty"`
}

func (h *Handler) toResponse(link *models.LinkRecord) LinkResponse {
	return LinkResponse{
		Shortcode:    link.Shortcode,
		LongURL:      link.LongURL,
		FullShortURL: h.baseURL + "/" + link.Shortcode,
		CreatedAt:    link.CreatedAt,
		ExpiryDate:   link.ExpiryDate,
		Expired:      link.IsExpired(h.clock.Now()),
		TotalClicks:  link.TotalClicks,
	}
}

// CreateShortLink handles the creation of one or several shortened URLs.
// A batch is validated as a whole, so invalid input stores nothing. A failure
// while inserting leaves the links created before it in place.
func (h *Handler) CreateShortLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if len(req.Links) == 0 {
		link, err := h.linkService.Shorten(c.Request.Context(), req.toRequest())
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, h.toResponse(link))
		return
	}

	inputs := req.Links
	if req.LongURL != "" {
		inputs = append([]LinkInput{req.LinkInput}, inputs...)
	}
	reqs := make([]services.ShortenRequest, len(inputs))
	for i, in := range inputs {
		reqs[i] = in.toRequest()
	}

	links, err := h.linkService.ShortenBatch(c.Request.Context(), reqs)
	if err != nil {
		h.writeError(c, err)
		return
	}

	results := make([]LinkResponse, len(links))
	for i, link := range links {
		results[i] = h.toResponse(link)
	}
	c.JSON(http.StatusCreated, gin.H{"results": results, "total": len(results)})
}

// Redirect resolves the short code and answers with a 302 to the long URL.
func (h *Handler) Redirect(c *gin.Context) {
	target, err := h.linkService.Resolve(c.Request.Context(), c.Param("shortcode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// ListLinks returns every stored link for the statistics view.
func (h *Handler) ListLinks(c *gin.Context) {
	links := h.linkService.ListStats(c.Request.Context())

	results := make([]LinkStatsResponse, len(links))
	for i := range links {
		results[i] = LinkStatsResponse{
			LinkResponse: h.toResponse(&links[i]),
			Clicks:       links[i].Clicks,
		}
	}
	c.JSON(http.StatusOK, gin.H{"links": results, "total": len(results)})
}

// GetLinkStats handles the retrieval of statistics for a specific link
func (h *Handler) GetLinkStats(c *gin.Context) {
	link, err := h.linkService.GetLinkStats(c.Request.Context(), c.Param("shortcode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, LinkStatsResponse{
		LinkResponse: h.toResponse(link),
		Clicks:       link.Clicks,
	})
}

// UpdateLink changes the destination or restarts the validity window of a link.
func (h *Handler) UpdateLink(c *gin.Context) {
	var body UpdateLinkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	req := services.UpdateRequest{LongURL: body.LongURL}
	if body.Validity != nil {
		req.Validity = strconv.Itoa(*body.Validity)
	}

	link, err := h.linkService.UpdateLink(c.Request.Context(), c.Param("shortcode"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(link))
}

// GetLogs returns the request log for diagnostics.
func (h *Handler) GetLogs(c *gin.Context) {
	entries := h.requests.GetAll()
	c.JSON(http.StatusOK, gin.H{"logs": entries, "total": len(entries)})
}

// ClearLogs empties the request log.
func (h *Handler) ClearLogs(c *gin.Context) {
	h.requests.Clear()
	c.Status(http.StatusNoContent)
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if errors.Is(err, apperrors.ErrShortcodeExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid short URL: the requested link was not found."})
	case errors.Is(err, apperrors.ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Link expired: this link is no longer valid."})
	case errors.Is(err, apperrors.ErrShortcodeGenerationFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to generate unique short code. Please try again later."})
	default:
		h.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
