package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/serializer"
	"github.com/agentdesk-io/agentdesk/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type CreateProjectReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Template    string `json:"template"`
	Autonomous  bool   `json:"autonomous"`
	Agent       string `json:"agent"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a new project; the slug is derived from the name
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, err := h.svc.Create(c.Request.Context(), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Template:    req.Template,
		Autonomous:  req.Autonomous,
		Agent:       req.Agent,
	})
	if err != nil {
		serializer.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: project})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Fetch one project by UUID or slug
//	@Tags			project
//	@Produce		json
//	@Param			identifier	path	string	true	"project id or slug"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{identifier} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("identifier"))
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

type ListProjectsReq struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List projects, most recently updated first
//	@Tags			project
//	@Produce		json
//	@Param			status	query	string	false	"filter by status"
//	@Param			limit	query	int		false	"max rows (default 20)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	var status *model.ProjectStatus
	if req.Status != "" {
		s := model.ProjectStatus(req.Status)
		status = &s
	}

	projects, err := h.svc.List(c.Request.Context(), status, req.Limit)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: projects})
}

type UpdateProjectReq struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *string        `json:"status"`
	Settings    map[string]any `json:"settings"`
	Metadata    map[string]any `json:"metadata"`
	TechStack   map[string]any `json:"tech_stack"`
	Agent       string         `json:"agent"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Patch project fields; a new name regenerates the slug
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			identifier	path	string						true	"project id"
//	@Param			payload		body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{identifier} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("identifier"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("project id must be a UUID", err))
		return
	}
	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
		Metadata:    req.Metadata,
		TechStack:   req.TechStack,
		Agent:       req.Agent,
	}
	if req.Status != nil {
		s := model.ProjectStatus(*req.Status)
		in.Status = &s
	}

	project, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: project})
}
