package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agentdesk-io/agentdesk/internal/modules/model"
	"github.com/agentdesk-io/agentdesk/internal/modules/repo"
	"github.com/agentdesk-io/agentdesk/internal/modules/serializer"
	"github.com/agentdesk-io/agentdesk/internal/modules/service"
)

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{svc: s}
}

type CreateTaskReq struct {
	ProjectID      string         `json:"project_id" binding:"required"`
	ParentID       *string        `json:"parent_id"`
	Title          string         `json:"title" binding:"required"`
	Description    string         `json:"description"`
	Priority       *string        `json:"priority"`
	AssignedTeam   *string        `json:"assigned_team"`
	AssignedAgent  *string        `json:"assigned_agent"`
	EstimatedHours *float64       `json:"estimated_hours"`
	Tags           []string       `json:"tags"`
	Deliverables   []string       `json:"deliverables"`
	Metadata       map[string]any `json:"metadata"`
	DueDate        *time.Time     `json:"due_date"`
	CreatedBy      string         `json:"created_by"`
}

// CreateTask godoc
//
//	@Summary		Create task
//	@Description	Create a task in a project; status starts at backlog
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateTaskReq	true	"CreateTask payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Task}
//	@Router			/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	req := CreateTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("project_id must be a UUID", err))
		return
	}

	in := service.CreateTaskInput{
		ProjectID:      projectID,
		Title:          req.Title,
		Description:    req.Description,
		AssignedTeam:   req.AssignedTeam,
		AssignedAgent:  req.AssignedAgent,
		EstimatedHours: req.EstimatedHours,
		Tags:           req.Tags,
		Deliverables:   req.Deliverables,
		Metadata:       req.Metadata,
		DueDate:        req.DueDate,
		CreatedBy:      req.CreatedBy,
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("parent_id must be a UUID", err))
			return
		}
		in.ParentID = &parentID
	}
	if req.Priority != nil {
		p := model.TaskPriority(*req.Priority)
		in.Priority = &p
	}

	task, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: task})
}

type ListTasksReq struct {
	ProjectID     string `form:"project_id"`
	Status        string `form:"status"`
	Priority      string `form:"priority"`
	AssignedTeam  string `form:"assigned_team"`
	AssignedAgent string `form:"assigned_agent"`
	Limit         int    `form:"limit"`
}

// ListTasks godoc
//
//	@Summary		List tasks
//	@Description	List tasks by equality filters, newest first
//	@Tags			task
//	@Produce		json
//	@Param			project_id		query	string	false	"filter by project"
//	@Param			status			query	string	false	"filter by status"
//	@Param			priority		query	string	false	"filter by priority"
//	@Param			assigned_team	query	string	false	"filter by team"
//	@Param			assigned_agent	query	string	false	"filter by agent"
//	@Param			limit			query	int		false	"max rows (default 50)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Task}
//	@Router			/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	req := ListTasksReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	f := repo.TaskFilter{}
	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("project_id must be a UUID", err))
			return
		}
		f.ProjectID = &projectID
	}
	if req.Status != "" {
		s := model.TaskStatus(req.Status)
		f.Status = &s
	}
	if req.Priority != "" {
		p := model.TaskPriority(req.Priority)
		f.Priority = &p
	}
	if req.AssignedTeam != "" {
		f.AssignedTeam = &req.AssignedTeam
	}
	if req.AssignedAgent != "" {
		f.AssignedAgent = &req.AssignedAgent
	}

	tasks, err := h.svc.List(c.Request.Context(), f, req.Limit)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: tasks})
}

type UpdateTaskReq struct {
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	Status         *string        `json:"status"`
	Priority       *string        `json:"priority"`
	AssignedTeam   *string        `json:"assigned_team"`
	AssignedAgent  *string        `json:"assigned_agent"`
	EstimatedHours *float64       `json:"estimated_hours"`
	ActualHours    *float64       `json:"actual_hours"`
	Tags           []string       `json:"tags"`
	Deliverables   []string       `json:"deliverables"`
	Metadata       map[string]any `json:"metadata"`
	DueDate        *time.Time     `json:"due_date"`
	Notes          string         `json:"notes"`
	UpdatedBy      string         `json:"updated_by"`
}

// UpdateTask godoc
//
//	@Summary		Update task
//	@Description	Patch task fields; a status in the patch runs the usual transition side effects
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path	string					true	"task id"
//	@Param			payload	body	handler.UpdateTaskReq	true	"UpdateTask payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Router			/tasks/{task_id} [patch]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("task id must be a UUID", err))
		return
	}
	req := UpdateTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		AssignedTeam:   req.AssignedTeam,
		AssignedAgent:  req.AssignedAgent,
		EstimatedHours: req.EstimatedHours,
		ActualHours:    req.ActualHours,
		Tags:           req.Tags,
		Deliverables:   req.Deliverables,
		Metadata:       req.Metadata,
		DueDate:        req.DueDate,
		Notes:          req.Notes,
		UpdatedBy:      req.UpdatedBy,
	}
	if req.Status != nil {
		s := model.TaskStatus(*req.Status)
		in.Status = &s
	}
	if req.Priority != nil {
		p := model.TaskPriority(*req.Priority)
		in.Priority = &p
	}

	task, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: task})
}

type AssignTaskReq struct {
	Team  string `json:"team" binding:"required"`
	Agent string `json:"agent"`
	Actor string `json:"actor"`
}

// AssignTask godoc
//
//	@Summary		Assign task
//	@Description	Assign a task to a team (and optionally an agent); status moves to todo
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path	string					true	"task id"
//	@Param			payload	body	handler.AssignTaskReq	true	"AssignTask payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Router			/tasks/{task_id}/assign [post]
func (h *TaskHandler) AssignTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("task id must be a UUID", err))
		return
	}
	req := AssignTaskReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	task, err := h.svc.Assign(c.Request.Context(), id, req.Team, req.Agent, req.Actor)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: task})
}

type SetTaskStatusReq struct {
	Status string `json:"status" binding:"required"`
	Agent  string `json:"agent"`
	Notes  string `json:"notes"`
}

// SetTaskStatus godoc
//
//	@Summary		Set task status
//	@Description	Transition a task; derived timestamps and blocker reason follow the transition table
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path	string						true	"task id"
//	@Param			payload	body	handler.SetTaskStatusReq	true	"SetTaskStatus payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Router			/tasks/{task_id}/status [post]
func (h *TaskHandler) SetTaskStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("task id must be a UUID", err))
		return
	}
	req := SetTaskStatusReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	task, err := h.svc.SetStatus(c.Request.Context(), id, model.TaskStatus(req.Status), req.Agent, req.Notes)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: task})
}

type AssignedTasksReq struct {
	Agent       string `form:"agent"`
	IncludeDone bool   `form:"include_done"`
	Limit       int    `form:"limit"`
}

// MyTasks godoc
//
//	@Summary		My tasks
//	@Description	An agent's open tasks, highest priority first; done excluded unless include_done
//	@Tags			task
//	@Produce		json
//	@Param			agent			query	string	true	"agent name"
//	@Param			include_done	query	bool	false	"include done tasks"
//	@Param			limit			query	int		false	"max rows (default 50)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Task}
//	@Router			/tasks/mine [get]
func (h *TaskHandler) MyTasks(c *gin.Context) {
	req := AssignedTasksReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	tasks, err := h.svc.ListMine(c.Request.Context(), req.Agent, req.IncludeDone, req.Limit)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: tasks})
}

// TeamTasks godoc
//
//	@Summary		Team tasks
//	@Description	A team's open tasks, highest priority first; done excluded unless include_done
//	@Tags			task
//	@Produce		json
//	@Param			team			path	string	true	"team name"
//	@Param			include_done	query	bool	false	"include done tasks"
//	@Param			limit			query	int		false	"max rows (default 50)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Task}
//	@Router			/tasks/team/{team} [get]
func (h *TaskHandler) TeamTasks(c *gin.Context) {
	req := AssignedTasksReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	tasks, err := h.svc.ListForTeam(c.Request.Context(), c.Param("team"), req.IncludeDone, req.Limit)
	if err != nil {
		serializer.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: tasks})
}
