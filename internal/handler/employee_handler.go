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

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/api/employees")
	{
		employees.GET("", middleware.RequireAccess(permission.ModuleEmployees, permission.ActionRead), h.ListEmployees)
		employees.GET("/:id", middleware.RequireAccess(permission.ModuleEmployees, permission.ActionRead), h.GetEmployee)
		employees.POST("", middleware.RequireAccess(permission.ModuleEmployees, permission.ActionWrite), h.CreateEmployee)
		employees.PUT("/:id", middleware.RequireAccess(permission.ModuleEmployees, permission.ActionWrite), h.UpdateEmployee)
		employees.DELETE("/:id", middleware.RequireAccess(permission.ModuleEmployees, permission.ActionDelete), h.DeleteEmployee)
	}
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        department  query     string  false  "Department"
// @Param        status      query     string  false  "active, inactive or on_leave"
// @Param        page        query     int     false  "Page"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  response.PageResponse{data=[]model.Employee}
// @Failure      403         {object}  response.Response
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	p := pagination.Parse(c)
	employees, total, err := h.employeeService.List(c.Request.Context(), service.EmployeeFilter{
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Page:       p.Page,
		Limit:      p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, employees, total, p.Page, p.Limit))
}

// GetEmployee godoc
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee UUID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// CreateEmployee godoc
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEmployeeRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	employee, err := h.employeeService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// UpdateEmployee godoc
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Employee UUID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	employee, err := h.employeeService.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// DeleteEmployee godoc
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee UUID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeService.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Employee deleted"}))
}
