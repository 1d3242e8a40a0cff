package handler

import (
	"net/http"

	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/internal/service"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/api/expenses")
	{
		expenses.GET("", middleware.RequireAccess(permission.ModuleExpenses, permission.ActionRead), h.ListExpenses)
		expenses.POST("", middleware.RequireAccess(permission.ModuleExpenses, permission.ActionWrite), h.CreateExpense)
		expenses.PUT("/:id/approve", middleware.RequireAccess(permission.ModuleExpenses, permission.ActionApprove), h.ApproveExpense)
		expenses.PUT("/:id/reject", middleware.RequireAccess(permission.ModuleExpenses, permission.ActionApprove), h.RejectExpense)
	}
}

// ListExpenses godoc
// @Summary      List expense claims
// @Description  Employees only see their own claims
// @Tags         expenses
// @Produce      json
// @Param        employee_id  query     string  false  "Employee code"
// @Param        status       query     string  false  "pending, approved, rejected or reimbursed"
// @Param        page         query     int     false  "Page"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  response.PageResponse{data=[]model.Expense}
// @Router       /api/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	filter, p := listFilter(c)
	expenses, total, err := h.expenseService.List(c.Request.Context(), middleware.Actor(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Page(http.StatusOK, expenses, total, p.Page, p.Limit))
}

// CreateExpense godoc
// @Summary      Submit an expense claim
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateExpenseRequest  true  "Expense"
// @Success      201      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Router       /api/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	expense, err := h.expenseService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// ApproveExpense godoc
// @Summary      Approve an expense claim
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true   "Expense UUID"
// @Param        payload  body      service.DecisionRequest  false  "Comments"
// @Success      200      {object}  response.Response{data=model.Expense}
// @Failure      409      {object}  response.Response
// @Router       /api/expenses/{id}/approve [put]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	expense, err := h.expenseService.Approve(c.Request.Context(), middleware.Actor(c), c.Param("id"), bindDecision(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// RejectExpense godoc
// @Summary      Reject an expense claim
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true   "Expense UUID"
// @Param        payload  body      service.DecisionRequest  false  "Comments"
// @Success      200      {object}  response.Response{data=model.Expense}
// @Failure      409      {object}  response.Response
// @Router       /api/expenses/{id}/reject [put]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	expense, err := h.expenseService.Reject(c.Request.Context(), middleware.Actor(c), c.Param("id"), bindDecision(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}
