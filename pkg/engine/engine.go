package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/iWorld-y/usecase_radar/pkg/cache"
	"github.com/iWorld-y/usecase_radar/pkg/config"
	"github.com/iWorld-y/usecase_radar/pkg/llm"
	"github.com/iWorld-y/usecase_radar/pkg/logger"
	"github.com/iWorld-y/usecase_radar/pkg/model"
	"github.com/iWorld-y/usecase_radar/pkg/report"
	"github.com/iWorld-y/usecase_radar/pkg/research"
	"github.com/iWorld-y/usecase_radar/pkg/search"
	"github.com/iWorld-y/usecase_radar/pkg/storage"
	"github.com/iWorld-y/usecase_radar/pkg/usecase"
)

// Engine 核心处理引擎：调研 → 生成 → 解析 → 落盘。
// 搜索与生成走能力接口，测试用确定性替身注入。
type Engine struct {
	profile    model.Profile
	aggregator *research.Aggregator
	generator  llm.Generator
	cache      *cache.Cache
	saver      *report.Saver
	store      *storage.Storage // 可选的数据库归档

	// OnProgress 可选的进度回调
	OnProgress func(status string, progress int)
}

// NewEngine 创建引擎实例。store 可以为 nil。
func NewEngine(cfg *config.Config, searcher search.Searcher, generator llm.Generator, store *storage.Storage) (*Engine, error) {
	profile, err := model.ProfileByName(cfg.Research.Profile)
	if err != nil {
		return nil, err
	}

	return &Engine{
		profile:    profile,
		aggregator: research.NewAggregator(searcher, profile),
		generator:  generator,
		cache:      cache.New(cfg.Cache.MaxSize, time.Duration(cfg.Cache.TTL)*time.Second),
		saver:      report.NewSaver(cfg.Reports.Dir),
		store:      store,
	}, nil
}

// Saver 返回引擎使用的落盘器，展示服务复用同一目录
func (e *Engine) Saver() *report.Saver {
	return e.saver
}

// Run 为一家公司执行一次完整的报告生成，返回报告和落盘路径。
// 搜索或生成失败只降级数据质量，只有落盘失败会返回错误。
func (e *Engine) Run(ctx context.Context, company string) (*model.Report, string, error) {
	logger.Log.Infof("开始为公司 [%s] 生成报告 (profile=%s)", company, e.profile.Name)
	e.progress("researching", 10)

	// 1. 调研（带缓存，TTL 窗口内同一公司不重复搜索）
	researchKey := cache.Key("research", e.profile.Name, company)
	cached, err := e.cache.GetOrCompute(researchKey, func() (any, error) {
		return e.aggregator.Research(ctx, company), nil
	})
	if err != nil {
		// 调研闭包不返回错误，此分支只是防御缓存实现变化
		return nil, "", err
	}
	record := cached.(model.ResearchRecord)
	e.progress("generating", 40)

	// 2. 渲染 prompt 并调用模型
	prompt := usecase.BuildPrompt(record, e.profile)
	var cases []model.UseCase
	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		// 生成失败降级为空用例列表，报告照常落盘
		logger.Log.Errorf("用例生成失败 [%s]: %v", company, err)
	} else {
		// 3. 解析（带缓存，键绑定调研结果与模型输出）
		parseKey := cache.Key("usecases", researchKey, raw)
		parsed, perr := e.cache.GetOrCompute(parseKey, func() (any, error) {
			return usecase.Parse(raw), nil
		})
		if perr == nil {
			cases = parsed.([]model.UseCase)
		}
	}
	e.progress("saving", 80)

	// 4. 组装并落盘
	rep := report.Assemble(company, record, cases)
	path, err := e.saver.Save(rep)
	if err != nil {
		return nil, "", fmt.Errorf("save report for %s: %w", company, err)
	}
	logger.Log.Infof("报告已保存: %s", path)

	// 5. 可选归档到数据库，失败只记日志
	if e.store != nil {
		if err := e.store.SaveReport(rep, filepath.Base(path)); err != nil {
			logger.Log.Errorf("报告归档失败 [%s]: %v", company, err)
		}
	}

	e.progress("completed", 100)
	return rep, path, nil
}

func (e *Engine) progress(status string, pct int) {
	if e.OnProgress != nil {
		e.OnProgress(status, pct)
	}
}
