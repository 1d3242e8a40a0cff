package handler

import (
	"net/http"
	"time"

	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/internal/service"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/dashboard")
	{
		statsGroup.GET("/stats", middleware.RequireAccess(permission.ModuleReports, permission.ActionRead), h.GetStatistics)
	}
}

// GetStatistics godoc
// @Summary      Dashboard statistics
// @Description  Headcount, attendance, leave and pending expense figures for one day
// @Tags         dashboard
// @Produce      json
// @Param        date  query     string  false  "Day (YYYY-MM-DD), defaults to today"
// @Success      200   {object}  response.Response{data=model.DashboardStats}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /api/dashboard/stats [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	day := time.Now()
	if s := c.Query("date"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
