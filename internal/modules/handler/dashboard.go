package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentdesk-io/agentdesk/internal/modules/serializer"
	"github.com/agentdesk-io/agentdesk/internal/modules/service"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: s}
}

// ProjectDashboard godoc
//
//	@Summary		Project dashboard
//	@Description	Project record, task status/team distribution and recent activity in one view
//	@Tags			dashboard
//	@Produce		json
//	@Param			identifier	path	string	true	"project id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectDashboard}
//	@Router			/projects/{identifier}/dashboard [get]
func (h *DashboardHandler) ProjectDashboard(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("identifier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("project id must be a UUID", err))
		return
	}

	dash, err := h.svc.ProjectStatus(c.Request.Context(), projectID)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: dash})
}
