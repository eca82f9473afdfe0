// @title 作业批改后端 API
// @version 1.0
// @description 作业题目下发、答案提交与自动判分服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"homework_backend/internal/app"
	"homework_backend/internal/config"
	"homework_backend/pkg/configwatcher"
	"homework_backend/pkg/logger"
)

func main() {
	// 命令行参数
	reload := flag.Bool("reload", false, "启动时强制从CSV重建作业数据表")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceReload = *reload

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 排期与测试账号支持热更新
	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
