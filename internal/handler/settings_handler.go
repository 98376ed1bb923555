package handler

import (
	"net/http"

	"adminbase/internal/middleware"
	"adminbase/internal/service"
	"adminbase/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settings service.SettingsService
	email    service.EmailService
}

// NewSettingsHandler sets up the routing dependencies for settings endpoints
func NewSettingsHandler(settings service.SettingsService, email service.EmailService) *SettingsHandler {
	return &SettingsHandler{settings: settings, email: email}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings", h.GetPublicSettings)

	admin := router.Group("/admin", middleware.RequireAuth())
	{
		admin.GET("/settings", h.GetAllSettings)
		admin.PUT("/settings", h.UpdateSettings)
		admin.POST("/test-email", h.SendTestEmail)
	}
}

// GetPublicSettings handles the unauthenticated GET /settings
// @Summary      Get public settings
// @Description  Returns only settings flagged public, as a plain key-value map
// @Tags         settings
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]string}
// @Failure      500  {object}  response.Response
// @Router       /settings [get]
func (h *SettingsHandler) GetPublicSettings(c *gin.Context) {
	values, err := h.settings.GetPublic(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch settings"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, values))
}

// GetAllSettings handles GET /admin/settings
// @Summary      Get all settings
// @Description  Returns every settings row including private ones
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.AppSetting}
// @Failure      403  {object}  response.Response
// @Router       /admin/settings [get]
func (h *SettingsHandler) GetAllSettings(c *gin.Context) {
	settings, err := h.settings.GetAll(c.Request.Context(), actorID(c))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// UpdateSettings handles PUT /admin/settings
// @Summary      Update settings
// @Description  Applies each key/value pair independently; the response reports per-key success and failure
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      map[string]string  true  "Key/value pairs"
// @Success      200      {object}  response.Response{data=service.SettingsUpdateResult}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /admin/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}
	if len(values) == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No settings provided"))
		return
	}

	result, err := h.settings.Update(c.Request.Context(), actorID(c), values)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

type testEmailRequest struct {
	Recipient string `json:"recipient" binding:"required,email"`
}

// SendTestEmail handles POST /admin/test-email
// @Summary      Send a test e-mail
// @Description  Sends the plain configuration-test message to verify the e-mail integration
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      testEmailRequest  true  "Recipient"
// @Success      200      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /admin/test-email [post]
func (h *SettingsHandler) SendTestEmail(c *gin.Context) {
	var req testEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	id, err := h.email.SendTest(c.Request.Context(), actorID(c), req.Recipient)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]string{"message_id": id}))
}
