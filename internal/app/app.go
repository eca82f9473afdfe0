package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_backend/internal/config"
	"homework_backend/internal/controller"
	"homework_backend/internal/repository"
	"homework_backend/internal/service"
	"homework_backend/pkg/database"
	"homework_backend/pkg/logger"
	"homework_backend/pkg/monitoring"
	"homework_backend/pkg/security"
	"homework_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	services *services
}

type repositories struct {
	question *repository.QuestionRepository
}

type services struct {
	storage  *service.StorageService
	schedule *service.ScheduleService
	homework *service.HomeworkService
}

type controllers struct {
	session  *controller.SessionController
	homework *controller.HomeworkController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, cfg *config.Config) *repositories {
	return &repositories{
		question: repository.NewQuestionRepository(db, cfg.Database.TableName),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	schedule, err := service.NewScheduleService(&cfg.Homework)
	if err != nil {
		return nil, err
	}

	return &services{
		storage:  service.NewStorageService(cfg),
		schedule: schedule,
		homework: service.NewHomeworkService(repos.question, schedule, &cfg.Homework),
	}, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		session:  controller.NewSessionController(s.homework, a.Config),
		homework: controller.NewHomeworkController(s.homework, s.schedule),
		admin:    controller.NewAdminController(s.homework, s.storage),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ApplyConfig 配置文件热更新回调：替换排期与数据源设置
func (a *App) ApplyConfig(cfg *config.Config) {
	if err := a.services.schedule.Reload(&cfg.Homework); err != nil {
		logger.Log.Error("schedule reload rejected", zap.Error(err))
		return
	}
	a.services.homework.ApplyConfig(&cfg.Homework)
	logger.Log.Info("homework config reloaded",
		zap.Int("schedule_entries", len(cfg.Homework.Schedule)))
}

// bootstrapData 建表；表为空或强制重载时从CSV导入
func (a *App) bootstrapData(repos *repositories, cfg *config.Config) error {
	if cfg.ForceReload {
		count, err := repos.question.Rebuild(cfg.Homework.CSVPath)
		if err != nil {
			return err
		}
		logger.Log.Info("question table rebuilt", zap.Int("rows", count))
		return nil
	}

	if err := repos.question.Migrate(); err != nil {
		return err
	}

	count, err := repos.question.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		loaded, err := repos.question.LoadCSV(cfg.Homework.CSVPath)
		if err != nil {
			return err
		}
		logger.Log.Info("question table seeded from csv", zap.Int("rows", loaded))
	}
	return nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	repos := app.initRepositories(db, cfg)

	if err := app.bootstrapData(repos, cfg); err != nil {
		logger.Log.Fatal("Failed to bootstrap homework data", zap.Error(err))
	}

	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services

	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("homework-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
