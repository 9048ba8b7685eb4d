package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/usecase_radar/internal/server"
	"github.com/iWorld-y/usecase_radar/internal/service"
	"github.com/iWorld-y/usecase_radar/pkg/config"
	"github.com/iWorld-y/usecase_radar/pkg/engine"
	"github.com/iWorld-y/usecase_radar/pkg/llm"
	"github.com/iWorld-y/usecase_radar/pkg/logger"
	"github.com/iWorld-y/usecase_radar/pkg/model"
	"github.com/iWorld-y/usecase_radar/pkg/search/factory"
	"github.com/iWorld-y/usecase_radar/pkg/storage"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "usecase_radar"
	// Version 是服务的版本号
	Version string

	id, _ = os.Hostname()
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "config path, eg: -conf configs/config.yaml")
	flag.Parse()

	// 1. 加载配置并验证密钥
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		stdlog.Fatalf("无法加载配置文件: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Fatal(err)
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		stdlog.Fatalf("无法初始化日志: %v", err)
	}

	// kratos 侧日志包含服务上下文
	klogger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	ctx := context.Background()

	// 2. 初始化数据库连接（可选）
	var store *storage.Storage
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 将仅生成 JSON 文件。", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	// 3. 组装流水线
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		logger.Log.Fatalf("搜索客户端初始化失败: %v", err)
	}

	limiter := rate.NewLimiter(rate.Limit(float64(cfg.Concurrency.RPM)/60.0), cfg.Concurrency.QPS)

	profile, err := model.ProfileByName(cfg.Research.Profile)
	if err != nil {
		logger.Log.Fatalf("档位配置错误: %v", err)
	}

	generator, err := llm.NewChatGenerator(ctx, cfg.LLM, profile.MaxTokens, limiter)
	if err != nil {
		logger.Log.Fatalf("LLM 初始化失败: %v", err)
	}

	eng, err := engine.NewEngine(cfg, searcher, generator, store)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	// 4. 启动 HTTP 服务
	svc := service.NewDisplayService(eng, klogger)
	srv := server.NewHTTPServer(cfg.Server, svc, klogger)

	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(klogger),
		kratos.Server(srv),
	)

	if err := app.Run(); err != nil {
		logger.Log.Fatalf("服务退出: %v", err)
	}
}
