package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	menuapp "github.com/menulink/backend/internal/application/menu"
	"github.com/menulink/backend/internal/domain/menu"
	"github.com/menulink/backend/internal/domain/registry"
	"github.com/menulink/backend/internal/infrastructure/tenantclient"
	"github.com/menulink/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// MenuHandler serves the public menu endpoints. Every route is keyed by
// the tenant slug from the shared link or QR code.
type MenuHandler struct {
	BaseHandler
	service *menuapp.Service
	logger  *zap.Logger
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(service *menuapp.Service, logger *zap.Logger) *MenuHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the menu endpoints
func (h *MenuHandler) RegisterRoutes(rg *gin.RouterGroup) {
	menus := rg.Group("/menu")
	{
		menus.GET("/:slug", h.GetMenu)
		menus.GET("/:slug/profile", h.GetProfile)
		menus.GET("/:slug/categories", h.GetCategories)
		menus.GET("/:slug/items", h.GetItems)
	}
}

// GetMenu returns the full menu view for a tenant slug
func (h *MenuHandler) GetMenu(c *gin.Context) {
	record, snap, q, ok := h.load(c)
	if !ok {
		return
	}
	h.Success(c, toMenuResponse(record, snap, q))
}

// GetProfile returns only the restaurant profile for a tenant slug
func (h *MenuHandler) GetProfile(c *gin.Context) {
	record, snap, q, ok := h.load(c)
	if !ok {
		return
	}
	profile := toProfileResponse(snap.Profile, displayLanguage(snap, q))
	if profile == nil {
		h.NotFound(c, "Tenant has not published a profile")
		return
	}
	h.Success(c, gin.H{
		"tenant":  toTenantResponse(record),
		"profile": profile,
	})
}

// GetCategories returns only the menu sections for a tenant slug
func (h *MenuHandler) GetCategories(c *gin.Context) {
	record, snap, q, ok := h.load(c)
	if !ok {
		return
	}
	h.Success(c, gin.H{
		"tenant":     toTenantResponse(record),
		"categories": toCategoryResponses(snap.Categories, displayLanguage(snap, q)),
		"partial":    snap.Partial(),
	})
}

// GetItems returns only the menu items for a tenant slug, priced in the
// viewer's display currency
func (h *MenuHandler) GetItems(c *gin.Context) {
	record, snap, q, ok := h.load(c)
	if !ok {
		return
	}
	ctx := snap.CurrencyContext()
	display := displayCurrency(ctx, q)
	h.Success(c, gin.H{
		"tenant":   toTenantResponse(record),
		"items":    toMenuItemResponses(snap.Items, displayLanguage(snap, q), display, ctx),
		"currency": display,
		"partial":  snap.Partial(),
	})
}

// load runs the slug pipeline and writes the error response itself when
// the pipeline fails. Callers bail out when ok is false.
func (h *MenuHandler) load(c *gin.Context) (*registry.TenantRecord, *menu.Snapshot, MenuQuery, bool) {
	var req dto.SlugRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Slug is required")
		return nil, nil, MenuQuery{}, false
	}

	var q MenuQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return nil, nil, MenuQuery{}, false
	}

	snap, record, err := h.service.Menu(c.Request.Context(), req.Slug)
	if err != nil {
		h.handleMenuError(c, req.Slug, err)
		return nil, nil, MenuQuery{}, false
	}

	if snap.Partial() {
		h.logger.Warn("serving partial menu",
			zap.String("slug", req.Slug),
			zap.String("tenant_id", record.ID.String()),
			zap.Int("failed_reads", len(snap.Failures)))
	}
	return record, snap, q, true
}

func (h *MenuHandler) handleMenuError(c *gin.Context, slug string, err error) {
	switch {
	case errors.Is(err, registry.ErrTenantNotFound):
		h.ErrorWithCode(c, dto.ErrCodeTenantNotFound, "No restaurant matches this link")
	case errors.Is(err, registry.ErrInvalidTenantConfig):
		h.ErrorWithCode(c, dto.ErrCodeInvalidTenantConfig, "Restaurant backend is misconfigured")
	case errors.Is(err, tenantclient.ErrClientClosed):
		h.ErrorWithCode(c, dto.ErrCodeTenantUnavailable, "Restaurant backend is unavailable")
	default:
		h.logger.Error("menu pipeline failed",
			zap.String("slug", slug),
			zap.Error(err))
		h.HandleError(c, err)
	}
}
