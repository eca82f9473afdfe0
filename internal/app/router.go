package app

import (
	"homework_backend/docs"
	"homework_backend/internal/config"
	"homework_backend/internal/middleware"
	"homework_backend/internal/util"
	"homework_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（选人页面所需，无需令牌）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/students", c.homework.ListStudents)
		public.GET("/homework/schedule", c.homework.GetSchedule)
		public.POST("/session", c.session.SelectStudent)
		public.DELETE("/session", c.session.ResetStudent)
	}

	// 2. 需要会话的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.SessionMiddleware(cfg))
	{
		authGroup.GET("/homework", c.homework.GetQuestions)
		authGroup.POST("/homework/answers", c.homework.SubmitAnswers)

		// 3. 数据管理接口，仅测试账号
		admin := authGroup.Group("/admin")
		admin.Use(middleware.UnrestrictedMiddleware())
		{
			admin.POST("/homework/reload", c.admin.ReloadHomework)
			admin.DELETE("/homework/:name", c.admin.PurgeHomework)
			admin.POST("/questions/image", c.admin.UploadQuestionImage)
		}
	}

	// 本地存储时直接暴露题目图片目录
	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
}
