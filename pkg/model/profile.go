package model

import (
	"fmt"
	"time"
)

// Profile 运行档位，决定调研深度、截断上限与生成规模。
// thorough 追求质量，fast 追求速度。
type Profile struct {
	Name string

	// 调研阶段
	Queries       map[Category]string // 查询模板，%s 为公司名
	SearchDepth   string              // basic 或 advanced
	MaxResults    int                 // 每次查询请求的结果数
	SummaryItems  int                 // 参与摘要的结果条数，0 表示全部
	SnippetLimit  int                 // 单条内容截断长度，0 表示不截断
	SummaryLimit  int                 // 摘要聚合长度上限，0 表示不限
	DetailLimit   int                 // details 条数上限
	SearchTimeout time.Duration
	EnrichContent bool // 短摘要是否抓取正文补全

	// 生成阶段
	OverviewLimit int // 嵌入 prompt 的公司概述截断长度
	UseCaseCount  int
	FocusAreas    []string // 为空时使用精简 prompt
	CaseFields    []string // prompt 要求的用例字段行
	MaxTokens     int
}

// Thorough 完整档位：advanced 检索，5 个用例，5 个字段
func Thorough() Profile {
	return Profile{
		Name: "thorough",
		Queries: map[Category]string{
			CategoryCompanyInfo: "%s company overview business model products",
			CategoryMarketInfo:  "%s market position industry trends competitors",
			CategoryAIInfo:      "%s artificial intelligence machine learning initiatives",
		},
		SearchDepth:   "advanced",
		MaxResults:    3,
		SummaryItems:  0,
		SnippetLimit:  0,
		SummaryLimit:  500,
		DetailLimit:   3,
		SearchTimeout: 10 * time.Second,
		EnrichContent: true,
		OverviewLimit: 200,
		UseCaseCount:  5,
		FocusAreas: []string{
			"Operational Efficiency",
			"Customer Experience",
			"Product Innovation",
			"Process Automation",
			"Data Analytics",
		},
		CaseFields: []string{
			"1. Problem: [challenge]",
			"2. Solution: [AI/ML approach]",
			"3. Complexity: [Low/Medium/High]",
			"4. Impact: [benefits]",
			"5. Resources: [requirements]",
		},
		MaxTokens: 1000,
	}
}

// Fast 快速档位：basic 检索，3 个用例，3 个字段
func Fast() Profile {
	return Profile{
		Name: "fast",
		Queries: map[Category]string{
			CategoryCompanyInfo: "%s company overview",
			CategoryMarketInfo:  "%s market position",
			CategoryAIInfo:      "%s AI initiatives",
		},
		SearchDepth:   "basic",
		MaxResults:    2,
		SummaryItems:  2,
		SnippetLimit:  200,
		SummaryLimit:  0,
		DetailLimit:   1,
		SearchTimeout: 5 * time.Second,
		EnrichContent: false,
		OverviewLimit: 100,
		UseCaseCount:  3,
		FocusAreas:    nil,
		CaseFields: []string{
			"1. Problem: [brief]",
			"2. Solution: [AI approach]",
			"3. Impact: [brief]",
		},
		MaxTokens: 256,
	}
}

// ProfileByName 根据配置名返回档位
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "thorough", "":
		return Thorough(), nil
	case "fast":
		return Fast(), nil
	default:
		return Profile{}, fmt.Errorf("unknown research profile: %s", name)
	}
}
