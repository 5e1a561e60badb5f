package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dashboardUC "github.com/khoahotran/personal-card/internal/application/usecase/dashboard"
	"github.com/khoahotran/personal-card/pkg/apperror"
)

type DashboardHandler struct {
	dashboardUC  *dashboardUC.DashboardUseCase
	publicPageUC *dashboardUC.GetPublicPageUseCase
}

func NewDashboardHandler(uc *dashboardUC.DashboardUseCase, publicUC *dashboardUC.GetPublicPageUseCase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUC:  uc,
		publicPageUC: publicUC,
	}
}

func pageIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid page ID format", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *DashboardHandler) ListPages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	pages, err := h.dashboardUC.ListPages(c.Request.Context(), dashboardUC.ListPagesInput{
		Identity: GetIdentityFromGinContext(c),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]PageDTO, len(pages))
	for i, p := range pages {
		dtos[i] = ToPageDTO(p)
	}
	c.JSON(http.StatusOK, gin.H{"data": dtos})
}

func (h *DashboardHandler) DeletePage(c *gin.Context) {
	id, ok := pageIDParam(c)
	if !ok {
		return
	}
	if err := h.dashboardUC.DeletePage(c.Request.Context(), GetIdentityFromGinContext(c), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DashboardHandler) SharePage(c *gin.Context) {
	id, ok := pageIDParam(c)
	if !ok {
		return
	}
	out, err := h.dashboardUC.SharePage(c.Request.Context(), GetIdentityFromGinContext(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": out.URL})
}

func (h *DashboardHandler) GetPublicPage(c *gin.Context) {
	id, ok := pageIDParam(c)
	if !ok {
		return
	}
	out, err := h.publicPageUC.Execute(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPublicPageDTO(out))
}
