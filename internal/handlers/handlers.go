package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/meridianlogistics/insight-service/internal/authz"
	"github.com/meridianlogistics/insight-service/internal/clearance"
	"github.com/meridianlogistics/insight-service/internal/metrics"
	"github.com/meridianlogistics/insight-service/internal/models"
	"github.com/meridianlogistics/insight-service/internal/notify"
	"github.com/meridianlogistics/insight-service/internal/report"
	"github.com/meridianlogistics/insight-service/internal/stats"
	"github.com/meridianlogistics/insight-service/internal/validation"
)

// PreferenceStore loads notification preferences for channel resolution
type PreferenceStore interface {
	Preference(ctx context.Context, userID string) (*models.PreferenceRow, error)
}

// Handler wires the report layer to the HTTP surface. The caller's role
// arrives in the X-User-Role header, set by the upstream gateway after
// authentication; this service only decides visibility.
type Handler struct {
	reports   *report.Service
	prefs     PreferenceStore
	metrics   *metrics.Collector
	stats     *stats.Collector
	validator *validation.Validator
	logger    *zap.Logger
}

// New creates the HTTP handler set
func New(reports *report.Service, prefs PreferenceStore, m *metrics.Collector, collector *stats.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		reports:   reports,
		prefs:     prefs,
		metrics:   m,
		stats:     collector,
		validator: validation.New(),
		logger:    logger,
	}
}

// Register attaches all routes to the router
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	api.Use(h.requireRole())
	{
		api.GET("/reports", h.ListReports)
		api.GET("/reports/ar-aging", h.reportAccess("ar-aging"), h.ARAging)
		api.GET("/reports/revenue-by-customer", h.reportAccess("revenue-by-customer"), h.RevenueByCustomer)
		api.GET("/reports/expiring-documents", h.reportAccess("expiring-documents"), h.ExpiringDocuments)
		api.GET("/reports/weekly-trend", h.reportAccess("weekly-trend"), h.WeeklyTrend)

		api.POST("/notifications/resolve", h.ResolveNotification)
		api.POST("/clearance/assess", h.AssessClearance)
		api.GET("/stats/cache", h.CacheStats)

		api.POST("/validate/invoice", h.ValidateInvoice)
		api.POST("/validate/job-order", h.ValidateJobOrder)
	}
}

// requireRole rejects requests without a recognized role header
func (h *Handler) requireRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader("X-User-Role")
		if !authz.IsValidRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unknown or missing role"})
			return
		}
		c.Set("role", authz.Role(role))
		c.Next()
	}
}

// reportAccess gates an endpoint on the report catalogue
func (h *Handler) reportAccess(reportID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.MustGet("role").(authz.Role)
		if !authz.CanAccessReport(role, reportID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "report not visible for role"})
			return
		}
		c.Next()
	}
}

// Health reports service liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC()})
}

// ListReports returns the catalogue entries visible to the caller's role
func (h *Handler) ListReports(c *gin.Context) {
	role := c.MustGet("role").(authz.Role)
	visible := authz.VisibleReports(role)
	if visible == nil {
		visible = []authz.Report{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": visible})
}

// ARAging serves the receivables aging report
func (h *Handler) ARAging(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "as_of must be YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	result, err := h.reports.ARAging(c.Request.Context(), asOf)
	if err != nil {
		h.logger.Error("Failed to build AR aging report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	h.metrics.RecordReport("ar-aging")
	c.JSON(http.StatusOK, result)
}

// RevenueByCustomer serves the per-customer revenue rollup for a period
func (h *Handler) RevenueByCustomer(c *gin.Context) {
	from, to, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	result, err := h.reports.RevenueByCustomer(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to build revenue report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	h.metrics.RecordReport("revenue-by-customer")
	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "customers": result})
}

// ExpiringDocuments serves the expiry urgency report
func (h *Handler) ExpiringDocuments(c *gin.Context) {
	result, err := h.reports.ExpiringDocuments(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("Failed to build expiring documents report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	h.metrics.RecordReport("expiring-documents")
	c.JSON(http.StatusOK, gin.H{"documents": result})
}

// WeeklyTrend serves the week-over-week KPI trend report
func (h *Handler) WeeklyTrend(c *gin.Context) {
	result, err := h.reports.WeeklyTrend(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("Failed to build weekly trend report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	h.metrics.RecordReport("weekly-trend")
	c.JSON(http.StatusOK, gin.H{"metrics": result})
}

// ResolveRequest is the input for notification channel resolution
type ResolveRequest struct {
	UserID   string          `json:"user_id" binding:"required"`
	Template notify.Template `json:"template" binding:"required"`
}

// ResolveNotification resolves which channels a notification for the user
// would go out on, which were skipped and why, and the delivery timing.
func (h *Handler) ResolveNotification(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	row, err := h.prefs.Preference(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preference not found"})
		return
	}

	pref := models.MapPreference(*row)
	eligible := notify.EligibleChannels(req.Template, pref, row.Email, row.Phone)
	skipped := notify.SkippedChannels(req.Template, pref, row.Email, row.Phone)
	if eligible == nil {
		eligible = []notify.Channel{}
	}
	if skipped == nil {
		skipped = []notify.SkippedChannel{}
	}

	c.JSON(http.StatusOK, gin.H{
		"channels": eligible,
		"skipped":  skipped,
		"timing":   notify.ResolveTiming(pref, time.Now()),
	})
}

// AssessRequest is the input for a route clearance assessment
type AssessRequest struct {
	Cargo clearance.Cargo      `json:"cargo"`
	Route []clearance.Waypoint `json:"route"`
}

// AssessClearance judges whether a cargo can pass every waypoint of a route
// once safety margins are applied.
func (h *Handler) AssessClearance(c *gin.Context) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Cargo.HeightM < 0 || req.Cargo.WidthM < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cargo dimensions must be non-negative"})
		return
	}

	c.JSON(http.StatusOK, clearance.AssessRoute(req.Cargo, req.Route))
}

// ValidateInvoice checks an invoice write shape before the caller persists
// it upstream. Invalid input is a 200 with Valid=false, not an error.
func (h *Handler) ValidateInvoice(c *gin.Context) {
	var input validation.InvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, h.validator.Check(input))
}

// ValidateJobOrder checks a job order write shape
func (h *Handler) ValidateJobOrder(c *gin.Context) {
	var input validation.JobOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	c.JSON(http.StatusOK, h.validator.Check(input))
}

// CacheStats exposes the report cache hit rate for observability
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hits":     h.stats.Hits(),
		"misses":   h.stats.Misses(),
		"hit_rate": h.stats.HitRate(),
		"slow_ops": len(h.stats.SlowOperations()),
	})
}

func (h *Handler) parsePeriod(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return from, to, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return from, to, false
		}
		to = parsed
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return from, to, false
	}
	return from, to, true
}
