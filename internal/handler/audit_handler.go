package handler

import (
	"net/http"
	"time"

	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/internal/repository"
	"hrsuite/internal/service"
	"hrsuite/pkg/pagination"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequireAccess(permission.ModuleReports, permission.ActionRead))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the audit trail, newest first
// @Summary      Get audit logs
// @Description  Paginated history of every audited write
// @Tags         audit
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Param        actor_id   query     string  false  "Only entries by this actor"
// @Param        action     query     string  false  "Only this action, e.g. APPROVE_REQUEST"
// @Param        entity_id  query     string  false  "Only entries about this record"
// @Param        from       query     string  false  "From day (YYYY-MM-DD), inclusive"
// @Param        to         query     string  false  "To day (YYYY-MM-DD), inclusive"
// @Success      200        {object}  response.PageResponse{data=[]service.AuditLogResponse}
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.AuditFilter{
		ActorID:  c.Query("actor_id"),
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
		Page:     p.Page,
		Limit:    p.Limit,
	}
	if s := c.Query("from"); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD"))
			return
		}
		filter.From = &from
	}
	if s := c.Query("to"); s != "" {
		to, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD"))
			return
		}
		// whole day
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Page(http.StatusOK, logs, total, p.Page, p.Limit))
}
