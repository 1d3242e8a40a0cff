package handler

import (
	"net/http"

	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/internal/service"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

type LeaveHandler struct {
	leaveService service.LeaveService
}

func NewLeaveHandler(leaveService service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	leave := router.Group("/api/leave-requests")
	{
		leave.GET("", middleware.RequireAccess(permission.ModuleLeave, permission.ActionRead), h.ListLeaveRequests)
		leave.POST("", middleware.RequireAccess(permission.ModuleLeave, permission.ActionWrite), h.CreateLeaveRequest)
		leave.PUT("/:id/approve", middleware.RequireAccess(permission.ModuleLeave, permission.ActionApprove), h.ApproveLeaveRequest)
		leave.PUT("/:id/reject", middleware.RequireAccess(permission.ModuleLeave, permission.ActionApprove), h.RejectLeaveRequest)
	}
}

// ListLeaveRequests godoc
// @Summary      List leave requests
// @Description  Employees only see their own requests
// @Tags         leave
// @Produce      json
// @Param        employee_id  query     string  false  "Employee code"
// @Param        status       query     string  false  "pending, approved or rejected"
// @Param        page         query     int     false  "Page"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  response.PageResponse{data=[]model.LeaveRequest}
// @Router       /api/leave-requests [get]
func (h *LeaveHandler) ListLeaveRequests(c *gin.Context) {
	filter, p := listFilter(c)
	reqs, total, err := h.leaveService.List(c.Request.Context(), middleware.Actor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, reqs, total, p.Page, p.Limit))
}

// CreateLeaveRequest godoc
// @Summary      Request leave
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateLeaveRequest  true  "Leave request"
// @Success      201      {object}  response.Response{data=model.LeaveRequest}
// @Failure      400      {object}  response.Response
// @Router       /api/leave-requests [post]
func (h *LeaveHandler) CreateLeaveRequest(c *gin.Context) {
	var req service.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	leave, err := h.leaveService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, leave))
}

// ApproveLeaveRequest godoc
// @Summary      Approve a leave request
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true   "Leave request UUID"
// @Param        payload  body      service.DecisionRequest  false  "Comments"
// @Success      200      {object}  response.Response{data=model.LeaveRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/leave-requests/{id}/approve [put]
func (h *LeaveHandler) ApproveLeaveRequest(c *gin.Context) {
	req := bindDecision(c)
	leave, err := h.leaveService.Approve(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// RejectLeaveRequest godoc
// @Summary      Reject a leave request
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true   "Leave request UUID"
// @Param        payload  body      service.DecisionRequest  false  "Comments"
// @Success      200      {object}  response.Response{data=model.LeaveRequest}
// @Failure      409      {object}  response.Response
// @Router       /api/leave-requests/{id}/reject [put]
func (h *LeaveHandler) RejectLeaveRequest(c *gin.Context) {
	req := bindDecision(c)
	leave, err := h.leaveService.Reject(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// bindDecision reads an optional decision body
func bindDecision(c *gin.Context) service.DecisionRequest {
	var req service.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body, comments are optional
		req.Comments = ""
	}
	return req
}
