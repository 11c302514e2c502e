package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/modules/serializer"
	"github.com/agentdesk-io/agentdesk/internal/modules/service"
)

type ActivityHandler struct {
	svc service.ActivityService
}

func NewActivityHandler(s service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: s}
}

type LogActivityReq struct {
	Agent       string         `json:"agent"`
	Action      string         `json:"action" binding:"required"`
	Details     map[string]any `json:"details"`
	ProjectID   *string        `json:"project_id"`
	Team        *string        `json:"team"`
	RelatedID   *string        `json:"related_id"`
	RelatedType *string        `json:"related_type"`
}

// LogActivity godoc
//
//	@Summary		Log activity
//	@Description	Append one record to the audit trail
//	@Tags			activity
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.LogActivityReq	true	"LogActivity payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.ActivityLog}
//	@Router			/activity [post]
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	req := LogActivityReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.RecordInput{
		Agent:       req.Agent,
		Action:      model.ActivityAction(req.Action),
		Details:     req.Details,
		Team:        req.Team,
		RelatedType: req.RelatedType,
	}
	if req.ProjectID != nil {
		projectID, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("project_id must be a UUID", err))
			return
		}
		in.ProjectID = &projectID
	}
	if req.RelatedID != nil {
		relatedID, err := uuid.Parse(*req.RelatedID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("related_id must be a UUID", err))
			return
		}
		in.RelatedID = &relatedID
	}

	row, err := h.svc.Record(c.Request.Context(), in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: row})
}

type GetActivityReq struct {
	ProjectID string `form:"project_id"`
	Agent     string `form:"agent"`
	Action    string `form:"action"`
	Team      string `form:"team"`
	Limit     int    `form:"limit"`
}

// GetActivity godoc
//
//	@Summary		Get activity
//	@Description	List audit-trail records by equality filters, newest first
//	@Tags			activity
//	@Produce		json
//	@Param			project_id	query	string	false	"filter by project"
//	@Param			agent		query	string	false	"filter by agent"
//	@Param			action		query	string	false	"filter by action"
//	@Param			team		query	string	false	"filter by team"
//	@Param			limit		query	int		false	"max rows (default 50)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.ActivityLog}
//	@Router			/activity [get]
func (h *ActivityHandler) GetActivity(c *gin.Context) {
	req := GetActivityReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	f := repo.ActivityFilter{}
	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("project_id must be a UUID", err))
			return
		}
		f.ProjectID = &projectID
	}
	if req.Agent != "" {
		f.Agent = &req.Agent
	}
	if req.Action != "" {
		a := model.ActivityAction(req.Action)
		f.Action = &a
	}
	if req.Team != "" {
		f.Team = &req.Team
	}

	rows, err := h.svc.List(c.Request.Context(), f, req.Limit)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: rows})
}
