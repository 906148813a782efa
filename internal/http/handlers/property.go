package handlers

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OwaisIslam/living-real/internal/http/response"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"github.com/OwaisIslam/living-real/internal/services"
)

type PropertyHandler struct {
	log             *logger.Logger
	propertyService services.PropertyService
	checkoutService services.CheckoutService
}

func NewPropertyHandler(log *logger.Logger, propertyService services.PropertyService, checkoutService services.CheckoutService) *PropertyHandler {
	return &PropertyHandler{
		log:             log.With("handler", "PropertyHandler"),
		propertyService: propertyService,
		checkoutService: checkoutService,
	}
}

// GET /api/properties
func (ph *PropertyHandler) ListProperties(c *gin.Context) {
	props, err := ph.propertyService.ListAll(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"properties": props})
}

// GET /api/properties/:id
func (ph *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	prop, err := ph.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"property": prop})
}

// POST /api/properties
func (ph *PropertyHandler) CreateProperty(c *gin.Context) {
	var req services.PropertyInput
	if !bindStrict(c, &req) {
		return
	}
	prop, err := ph.propertyService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"property": prop})
}

// PATCH /api/properties/:id
func (ph *PropertyHandler) UpdateProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch services.PropertyPatch
	if !bindStrict(c, &patch) {
		return
	}
	prop, err := ph.propertyService.Update(c.Request.Context(), id, patch)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"property": prop})
}

// DELETE /api/properties/:id
func (ph *PropertyHandler) DeleteProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	prop, err := ph.propertyService.Delete(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"property": prop})
}

// POST /api/properties/:id/occupants
// body: { "tenant_id": "..." }
func (ph *PropertyHandler) AddOccupant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	prop, err := ph.propertyService.AddOccupant(c.Request.Context(), id, req.TenantID)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, gin.H{"property": prop})
}

// POST /api/properties/:id/checkout
func (ph *PropertyHandler) Checkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sess, err := ph.checkoutService.CreateCheckoutSession(c.Request.Context(), requestOrigin(c), id)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, sess)
}

// requestOrigin prefers the Origin header and falls back to the Referer's
// scheme and host.
func requestOrigin(c *gin.Context) string {
	if origin := strings.TrimSpace(c.GetHeader("Origin")); origin != "" && origin != "null" {
		return origin
	}
	if ref := strings.TrimSpace(c.GetHeader("Referer")); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}
	return ""
}
