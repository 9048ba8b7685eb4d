package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/usecase_radar/pkg/logger"
	"github.com/iWorld-y/usecase_radar/pkg/model"
	"github.com/iWorld-y/usecase_radar/pkg/search"
)

// 正文抓取相关阈值，与搜索摘要的截断无关
const (
	enrichThreshold = 200  // 摘要短于该长度时尝试抓取正文
	enrichLimit     = 2000 // 抓取正文的截断长度
	fetchTimeout    = 30 * time.Second
)

// Aggregator 公司调研聚合器。对每家公司发出三个固定类别的查询，
// 单个类别失败只降级为空结果，永远返回完整的三类记录。
type Aggregator struct {
	searcher search.Searcher
	profile  model.Profile
}

// NewAggregator 创建聚合器
func NewAggregator(searcher search.Searcher, profile model.Profile) *Aggregator {
	return &Aggregator{
		searcher: searcher,
		profile:  profile,
	}
}

// Research 调研一家公司。三个类别相互独立，并发执行，
// 结果按类别键组装，与完成顺序无关。
func (a *Aggregator) Research(ctx context.Context, company string) model.ResearchRecord {
	record := make(model.ResearchRecord, len(a.profile.Queries))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, category := range model.Categories() {
		wg.Add(1)
		go func(category model.Category) {
			defer wg.Done()

			entry := a.researchCategory(ctx, category, company)

			mu.Lock()
			record[category] = entry
			mu.Unlock()
		}(category)
	}

	wg.Wait()
	return record
}

// researchCategory 执行单个类别的查询，任何失败都降级为空结果
func (a *Aggregator) researchCategory(ctx context.Context, category model.Category, company string) model.CategoryResearch {
	empty := model.CategoryResearch{Summary: "", Details: []string{}}

	query, ok := a.profile.Queries[category]
	if !ok {
		return empty
	}

	sctx, cancel := context.WithTimeout(ctx, a.profile.SearchTimeout)
	defer cancel()

	resp, err := a.searcher.Search(sctx, &search.Request{
		Query:       fmt.Sprintf(query, company),
		SearchDepth: a.profile.SearchDepth,
		MaxResults:  a.profile.MaxResults,
	})
	if err != nil {
		logger.Log.Errorf("类别 [%s] 搜索失败: %v", category, err)
		return empty
	}

	results := resp.Results
	if a.profile.EnrichContent {
		results = a.enrich(results)
	}

	return model.CategoryResearch{
		Summary: extractSummary(results, a.profile),
		Details: extractDetails(results, a.profile),
	}
}

// enrich 对过短的摘要抓取页面正文补全，失败则保留原摘要
func (a *Aggregator) enrich(results []search.Result) []search.Result {
	enriched := make([]search.Result, len(results))
	copy(enriched, results)

	for i := range enriched {
		content := enriched[i].Content
		if len(content) >= enrichThreshold || enriched[i].URL == "" {
			continue
		}
		article, err := readability.FromURL(enriched[i].URL, fetchTimeout)
		if err != nil {
			logger.Log.Debugf("抓取正文失败 [%s]: %v", enriched[i].URL, err)
			continue
		}
		fetched := model.Truncate(article.TextContent, enrichLimit)
		if len(fetched) > len(content) {
			enriched[i].Content = fetched
		}
	}
	return enriched
}

// extractSummary 把前 N 条结果的内容拼接为摘要，
// 按档位做单条截断和聚合截断
func extractSummary(results []search.Result, profile model.Profile) string {
	var parts []string
	for i, r := range results {
		if profile.SummaryItems > 0 && i >= profile.SummaryItems {
			break
		}
		content := strings.TrimSpace(r.Content)
		if content == "" {
			continue
		}
		parts = append(parts, model.Truncate(content, profile.SnippetLimit))
	}

	return model.Truncate(strings.Join(parts, " "), profile.SummaryLimit)
}

// extractDetails 取前 K 条非空内容作为细节列表
func extractDetails(results []search.Result, profile model.Profile) []string {
	details := []string{}
	for _, r := range results {
		if len(details) >= profile.DetailLimit {
			break
		}
		if r.Content == "" {
			continue
		}
		details = append(details, r.Content)
	}
	return details
}
