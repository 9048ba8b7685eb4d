package model

// Category 调研类别，每家公司固定三类
type Category string

const (
	CategoryCompanyInfo Category = "company_info"
	CategoryMarketInfo  Category = "market_info"
	CategoryAIInfo      Category = "ai_info"
)

// Categories 按固定顺序返回全部调研类别
func Categories() []Category {
	return []Category{CategoryCompanyInfo, CategoryMarketInfo, CategoryAIInfo}
}

// CategoryResearch 单个类别的调研结果
type CategoryResearch struct {
	Summary string   `json:"summary"`
	Details []string `json:"details"`
}

// ResearchRecord 公司调研记录，三个类别始终存在，
// 查询失败的类别降级为空摘要而不是缺失
type ResearchRecord map[Category]CategoryResearch

// UseCase 模型生成的单条 AI 用例
type UseCase struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	GeneratedAt string `json:"generated_at"` // 2006-01-02 15:04:05
}

// Report 最终报告，组装后不再修改
type Report struct {
	CompanyName  string         `json:"company_name"`
	AnalysisDate string         `json:"analysis_date"` // 2006-01-02
	ResearchData ResearchRecord `json:"research_data"`
	AIUseCases   []UseCase      `json:"ai_use_cases"`
}
