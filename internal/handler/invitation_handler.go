package handler

import (
	"net/http"

	"adminbase/internal/middleware"
	"adminbase/internal/service"
	"adminbase/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitations service.InvitationService
}

// NewInvitationHandler sets up the routing dependencies for invitation endpoints
func NewInvitationHandler(invitations service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *InvitationHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public signup-page routes
	router.GET("/invitations/verify", h.Verify)
	router.POST("/invitations/accept", h.Accept)

	// Admin routes; the active-admin check runs inside the service
	admin := router.Group("/admin", middleware.RequireAuth())
	{
		admin.POST("/invitations", h.Create)
		admin.POST("/invitations/:id/cancel", h.Cancel)
	}
}

// Create handles POST /admin/invitations
// @Summary      Invite a user
// @Description  Creates a pending user row and sends the invitation e-mail. The row is removed again if the send fails.
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInvitationRequest  true  "Invitation Payload"
// @Success      201      {object}  response.Response{data=service.InvitationResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /admin/invitations [post]
func (h *InvitationHandler) Create(c *gin.Context) {
	var req service.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	inv, err := h.invitations.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, inv))
}

// Verify handles GET /invitations/verify for the signup page
// @Summary      Verify an invitation
// @Description  Checks that the invitation token and e-mail match a pending, unexpired invitation. The returned role is for display only.
// @Tags         invitations
// @Produce      json
// @Param        token  query     string  true  "Invitation token"
// @Param        email  query     string  true  "Invited e-mail address"
// @Success      200    {object}  response.Response{data=service.VerifyInvitationResponse}
// @Failure      400    {object}  response.Response
// @Router       /invitations/verify [get]
func (h *InvitationHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	email := c.Query("email")
	if token == "" || email == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "token and email are required"))
		return
	}

	res, err := h.invitations.Verify(c.Request.Context(), token, email)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Accept handles POST /invitations/accept to complete signup
// @Summary      Accept an invitation
// @Description  Creates the account, attaches it to the invited row, and activates it
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AcceptInvitationRequest  true  "Accept Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Router       /invitations/accept [post]
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req service.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user, err := h.invitations.Accept(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// Cancel handles POST /admin/invitations/:id/cancel
// @Summary      Cancel an invitation
// @Description  Transitions a pending invitation to cancelled; its signup link stops working
// @Tags         invitations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invitation ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/invitations/{id}/cancel [post]
func (h *InvitationHandler) Cancel(c *gin.Context) {
	if err := h.invitations.Cancel(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invitation cancelled"))
}
