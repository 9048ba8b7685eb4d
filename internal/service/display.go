package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/usecase_radar/pkg/engine"
	"github.com/iWorld-y/usecase_radar/pkg/model"
	"github.com/iWorld-y/usecase_radar/pkg/report"
)

// ReportSummary 报告列表项
type ReportSummary struct {
	Filename     string `json:"filename"`
	CompanyName  string `json:"company_name"`
	AnalysisDate string `json:"analysis_date"`
	UseCaseCount int    `json:"use_case_count"`
}

// GenerateResult 一次生成的结果概要
type GenerateResult struct {
	CompanyName string          `json:"company_name"`
	ReportPath  string          `json:"report_path"`
	UseCases    []model.UseCase `json:"use_cases"`
}

// DisplayService 展示服务：读取已保存的报告并触发新的生成
type DisplayService struct {
	engine *engine.Engine
	saver  *report.Saver
	log    *log.Helper
}

// NewDisplayService 创建展示服务
func NewDisplayService(eng *engine.Engine, logger log.Logger) *DisplayService {
	return &DisplayService{
		engine: eng,
		saver:  eng.Saver(),
		log:    log.NewHelper(logger),
	}
}

// ListReports 列出全部已保存的报告概要，新的在前
func (s *DisplayService) ListReports(ctx context.Context) ([]ReportSummary, error) {
	names, err := s.saver.List()
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	summaries := make([]ReportSummary, 0, len(names))
	for _, name := range names {
		rep, err := s.saver.Load(name)
		if err != nil {
			s.log.Warnf("skip unreadable report %s: %v", name, err)
			continue
		}
		summaries = append(summaries, ReportSummary{
			Filename:     name,
			CompanyName:  rep.CompanyName,
			AnalysisDate: rep.AnalysisDate,
			UseCaseCount: len(rep.AIUseCases),
		})
	}
	return summaries, nil
}

// GetReport 按文件名读取整份报告
func (s *DisplayService) GetReport(ctx context.Context, name string) (*model.Report, error) {
	return s.saver.Load(name)
}

// Generate 为一家公司触发一次报告生成
func (s *DisplayService) Generate(ctx context.Context, company string) (*GenerateResult, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, fmt.Errorf("company name is required")
	}

	s.log.Infof("generate requested for %q", company)
	rep, path, err := s.engine.Run(ctx, company)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		CompanyName: rep.CompanyName,
		ReportPath:  path,
		UseCases:    rep.AIUseCases,
	}, nil
}
