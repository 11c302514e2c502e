package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/agentdesk-io/agentdesk/docs"
	"github.com/agentdesk-io/agentdesk/internal/config"
	"github.com/agentdesk-io/agentdesk/internal/middleware"
	"github.com/agentdesk-io/agentdesk/internal/modules/handler"
	"github.com/agentdesk-io/agentdesk/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	ProjectHandler   *handler.ProjectHandler
	TaskHandler      *handler.TaskHandler
	ActivityHandler  *handler.ActivityHandler
	DashboardHandler *handler.DashboardHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.ServiceAuth(d.Config))

		projects := v1.Group("/projects")
		{
			projects.POST("", d.ProjectHandler.CreateProject)
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.GET("/:identifier", d.ProjectHandler.GetProject)
			projects.PATCH("/:identifier", d.ProjectHandler.UpdateProject)
			projects.GET("/:identifier/dashboard", d.DashboardHandler.ProjectDashboard)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.POST("", d.TaskHandler.CreateTask)
			tasks.GET("", d.TaskHandler.ListTasks)
			tasks.GET("/mine", d.TaskHandler.MyTasks)
			tasks.GET("/team/:team", d.TaskHandler.TeamTasks)
			tasks.PATCH("/:task_id", d.TaskHandler.UpdateTask)
			tasks.POST("/:task_id/assign", d.TaskHandler.AssignTask)
			tasks.POST("/:task_id/status", d.TaskHandler.SetTaskStatus)
		}

		activity := v1.Group("/activity")
		{
			activity.POST("", d.ActivityHandler.LogActivity)
			activity.GET("", d.ActivityHandler.GetActivity)
		}
	}

	return r
}
