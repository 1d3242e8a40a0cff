package handler

import (
	"net/http"

	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/internal/service"
	"hrsuite/pkg/pagination"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

// NewUserHandler sets up the routing dependencies for User endpoints
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/users")
	{
		users.GET("", middleware.RequireAccess(permission.ModuleSettings, permission.ActionRead), h.ListUsers)
		users.GET("/:id", middleware.RequireAccess(permission.ModuleSettings, permission.ActionRead), h.GetUserByID)
		users.PUT("/:id/role", middleware.RequireAccess(permission.ModuleSettings, permission.ActionWrite), h.UpdateUserRole)
	}
}

// ListUsers handles GET /api/users
// @Summary      List users
// @Description  Account profiles with their role, optionally filtered by role
// @Tags         users
// @Produce      json
// @Param        role   query     string  false  "master, admin, hr or employee"
// @Param        page   query     int     false  "Page"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.PageResponse{data=[]service.UserResponse}
// @Failure      403    {object}  response.Response
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)
	users, total, err := h.userService.ListUsers(c.Request.Context(), c.Query("role"), p.Page, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, users, total, p.Page, p.Limit))
}

// GetUserByID handles GET /api/users/:id
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User UUID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUserRole handles PUT /api/users/:id/role
// @Summary      Change a user's role
// @Description  The new role applies the next time the user's session is resolved
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "User UUID"
// @Param        payload  body      service.UpdateRoleRequest  true  "New role"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, err := h.userService.UpdateUserRole(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
