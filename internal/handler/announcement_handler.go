package handler

import (
	"net/http"
	"strconv"

	"hrsuite/internal/middleware"
	"hrsuite/internal/permission"
	"hrsuite/internal/service"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementService
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

func (h *AnnouncementHandler) RegisterRoutes(router *gin.RouterGroup) {
	announcements := router.Group("/api/announcements")
	{
		announcements.GET("", middleware.RequireIdentity(), h.ListAnnouncements)
		announcements.POST("", middleware.RequireAccess(permission.ModuleDocuments, permission.ActionWrite), h.CreateAnnouncement)
	}
}

// ListAnnouncements godoc
// @Summary      Latest announcements
// @Tags         announcements
// @Produce      json
// @Param        limit  query     int  false  "How many (default 20)"
// @Success      200    {object}  response.Response{data=[]model.Announcement}
// @Failure      401    {object}  response.Response
// @Router       /api/announcements [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.announcementService.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// CreateAnnouncement godoc
// @Summary      Publish an announcement
// @Description  Stores the announcement and pushes it to every connected websocket client
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateAnnouncementRequest  true  "Announcement"
// @Success      201      {object}  response.Response{data=model.Announcement}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/announcements [post]
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	announcement, err := h.announcementService.Create(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, announcement))
}
