package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/usecase_radar/pkg/config"
	"github.com/iWorld-y/usecase_radar/pkg/engine"
	"github.com/iWorld-y/usecase_radar/pkg/llm"
	"github.com/iWorld-y/usecase_radar/pkg/logger"
	"github.com/iWorld-y/usecase_radar/pkg/model"
	"github.com/iWorld-y/usecase_radar/pkg/search/factory"
	"github.com/iWorld-y/usecase_radar/pkg/storage"
)

func main() {
	confPath := flag.String("conf", "configs/config.yaml", "config path, eg: -conf configs/config.yaml")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 验证必要密钥，缺失即终止启动
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动 AI 用例雷达...")

	ctx := context.Background()

	// 3. 初始化数据库连接（可选）
	var store *storage.Storage
	if cfg.DB.Host != "" {
		s, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Errorf("无法连接数据库: %v. 将仅生成 JSON 文件。", err)
		} else {
			store = s
			defer store.Close()
			logger.Log.Info("已成功连接到数据库")
		}
	} else {
		logger.Log.Info("未配置数据库信息，跳过数据库连接")
	}

	// 4. 初始化搜索客户端
	searcher, err := factory.NewSearcher(cfg)
	if err != nil {
		logger.Log.Fatalf("搜索客户端初始化失败: %v", err)
	}

	// 5. 初始化限流器和 LLM
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Concurrency.QPS)

	profile, err := model.ProfileByName(cfg.Research.Profile)
	if err != nil {
		logger.Log.Fatalf("档位配置错误: %v", err)
	}

	generator, err := llm.NewChatGenerator(ctx, cfg.LLM, profile.MaxTokens, limiter)
	if err != nil {
		logger.Log.Fatalf("LLM 初始化失败: %v", err)
	}

	// 6. 初始化引擎
	eng, err := engine.NewEngine(cfg, searcher, generator, store)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	// 7. 交互循环：输入公司名，生成报告，quit 退出
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nEnter company name (or 'quit' to exit): ")
		if !scanner.Scan() {
			break
		}
		company := strings.TrimSpace(scanner.Text())
		if company == "" {
			continue
		}
		if strings.EqualFold(company, "quit") {
			break
		}

		fmt.Printf("\nResearching %s...\n", company)
		rep, path, err := eng.Run(ctx, company)
		if err != nil {
			logger.Log.Errorf("报告生成失败: %v", err)
			continue
		}

		fmt.Printf("\nReport saved: %s\n", path)
		printFindings(rep)
	}
}

// printFindings 打印关键结论：公司概述和生成的用例摘要
func printFindings(rep *model.Report) {
	fmt.Println("\nKey Findings:")

	overview := model.Truncate(rep.ResearchData[model.CategoryCompanyInfo].Summary, 200)
	fmt.Println("\nCompany Overview:")
	fmt.Println(overview)

	fmt.Println("\nGenerated Use Cases:")
	for _, uc := range rep.AIUseCases {
		description := model.Truncate(uc.Description, 300)
		fmt.Printf("\nUse Case %d:\n%s\n", uc.ID, description)
	}
}
