package handler

import (
	"net/http"

	"adminbase/internal/middleware"
	"adminbase/internal/service"
	"adminbase/pkg/pagination"
	"adminbase/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminUserHandler struct {
	users service.UserAdminService
}

// NewAdminUserHandler sets up the routing dependencies for user administration endpoints
func NewAdminUserHandler(users service.UserAdminService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AdminUserHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.RequireAuth())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PATCH("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
}

// ListUsers handles GET /admin/users and extracts pagination controls
// @Summary      List users
// @Description  Retrieves a paginated list of user rows, invited and active alike
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      403    {object}  response.Response
// @Router       /admin/users [get]
func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)

	users, total, err := h.users.List(c.Request.Context(), actorID(c), p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// GetUser handles target fetch resolution via GET /admin/users/:id
// @Summary      Get user by ID
// @Description  Fetch a single user row by its UUID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User row ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /admin/users/{id} [get]
func (h *AdminUserHandler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUser handles target mutative changes via PATCH /admin/users/:id
// @Summary      Update user
// @Description  Updates role, status, or notes on a user row; the applied diff is audited
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "User row ID"
// @Param        payload  body      service.UpdateUserRequest  true  "Update User Payload"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /admin/users/{id} [patch]
func (h *AdminUserHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	user, err := h.users.Update(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser handles permanent removal via DELETE /admin/users/:id
// @Summary      Delete user
// @Description  Permanently deletes a user. Rows with a linked account take their dependent rows with them; invite-only rows are removed directly.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User row ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/users/{id} [delete]
func (h *AdminUserHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "User permanently deleted"))
}
