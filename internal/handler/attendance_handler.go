package handler

import (
	"net/http"

	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/internal/repository"
	"hrsuite/internal/service"
	"hrsuite/pkg/pagination"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

func (h *AttendanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	attendance := router.Group("/api/attendance")
	{
		attendance.GET("", middleware.RequireAccess(permission.ModuleAttendance, permission.ActionRead), h.ListAttendance)
		attendance.POST("", middleware.RequireAccess(permission.ModuleAttendance, permission.ActionWrite), h.RecordAttendance)
		attendance.PUT("/:id", middleware.RequireAccess(permission.ModuleAttendance, permission.ActionWrite), h.UpdateAttendance)
	}
}

// listFilter reads the shared employee_id/status/page/limit query
func listFilter(c *gin.Context) (repository.ListFilter, pagination.Params) {
	p := pagination.Parse(c)
	return repository.ListFilter{
		EmployeeID: c.Query("employee_id"),
		Status:     c.Query("status"),
		Page:       p.Page,
		Limit:      p.Limit,
	}, p
}

// ListAttendance godoc
// @Summary      List attendance records
// @Description  Employees only see their own records
// @Tags         attendance
// @Produce      json
// @Param        employee_id  query     string  false  "Employee code"
// @Param        status       query     string  false  "present, absent, late or half_day"
// @Param        page         query     int     false  "Page"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  response.PageResponse{data=[]model.Attendance}
// @Router       /api/attendance [get]
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	filter, p := listFilter(c)
	records, total, err := h.attendanceService.List(c.Request.Context(), middleware.Actor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, records, total, p.Page, p.Limit))
}

// RecordAttendance godoc
// @Summary      Record attendance
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordAttendanceRequest  true  "Attendance"
// @Success      201      {object}  response.Response{data=model.Attendance}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/attendance [post]
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	var req service.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	record, err := h.attendanceService.Record(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// UpdateAttendance godoc
// @Summary      Update an attendance record
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Record UUID"
// @Param        payload  body      service.UpdateAttendanceRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.Attendance}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/attendance/{id} [put]
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	var req service.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	record, err := h.attendanceService.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}
