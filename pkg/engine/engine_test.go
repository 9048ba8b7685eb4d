package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/iWorld-y/usecase_radar/pkg/config"
	"github.com/iWorld-y/usecase_radar/pkg/model"
	"github.com/iWorld-y/usecase_radar/pkg/search"
)

// mockSearcher 可编程的搜索替身
type mockSearcher struct {
	mu    sync.Mutex
	calls int
	fn    func(req *search.Request) (*search.Response, error)
}

func (m *mockSearcher) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.fn(req)
}

func (m *mockSearcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGenerator 返回固定文本的生成替身
type mockGenerator struct {
	output string
	err    error
	calls  int
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Research: config.ResearchConfig{Profile: "fast"},
		Reports:  config.ReportsConfig{Dir: t.TempDir()},
		Cache:    config.CacheConfig{TTL: 3600, MaxSize: 16},
	}
}

func acmeSearcher() *mockSearcher {
	return &mockSearcher{fn: func(req *search.Request) (*search.Response, error) {
		if strings.Contains(req.Query, "company overview") {
			return &search.Response{Results: []search.Result{
				{Content: "Acme makes widgets."},
				{Content: "Acme is profitable."},
			}}, nil
		}
		return nil, fmt.Errorf("no results")
	}}
}

func TestRun_EndToEnd(t *testing.T) {
	searcher := acmeSearcher()
	generator := &mockGenerator{
		output: "Sure, here are some ideas.\n" +
			"Use Case #1:\n1. Problem: X\n" +
			"Use Case #2:\n1. Problem: Y",
	}

	eng, err := NewEngine(testConfig(t), searcher, generator, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	rep, path, err := eng.Run(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// 调研记录：成功类别拼接摘要，失败类别降级为空
	if got := rep.ResearchData[model.CategoryCompanyInfo].Summary; got != "Acme makes widgets. Acme is profitable." {
		t.Errorf("company_info summary = %q", got)
	}
	if rep.ResearchData[model.CategoryMarketInfo].Summary != "" {
		t.Error("market_info summary should be empty")
	}
	if rep.ResearchData[model.CategoryAIInfo].Summary != "" {
		t.Error("ai_info summary should be empty")
	}

	// 两条用例，id 按切分顺序
	if len(rep.AIUseCases) != 2 {
		t.Fatalf("got %d use cases, want 2", len(rep.AIUseCases))
	}
	if rep.AIUseCases[0].ID != 1 || rep.AIUseCases[1].ID != 2 {
		t.Errorf("use case ids = [%d, %d], want [1, 2]", rep.AIUseCases[0].ID, rep.AIUseCases[1].ID)
	}

	// 文件名符合 <company>_<timestamp>_ai_recommendations.json
	pattern := regexp.MustCompile(`^acme_corp_\d{8}_\d{6}_ai_recommendations\.json$`)
	if name := filepath.Base(path); !pattern.MatchString(name) {
		t.Errorf("report filename %q does not match pattern", name)
	}

	// 落盘内容与内存中的报告一致
	loaded, err := eng.Saver().Load(filepath.Base(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, rep) {
		t.Errorf("persisted report differs from in-memory report")
	}
}

// TTL 窗口内同一公司第二次生成不重复搜索
func TestRun_ResearchCached(t *testing.T) {
	searcher := acmeSearcher()
	generator := &mockGenerator{output: "Use Case #1: something"}

	eng, err := NewEngine(testConfig(t), searcher, generator, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	ctx := context.Background()
	if _, _, err := eng.Run(ctx, "Acme Corp"); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if _, _, err := eng.Run(ctx, "Acme Corp"); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if searcher.callCount() != 3 {
		t.Errorf("searcher called %d times, want 3 (second run should hit cache)", searcher.callCount())
	}

	// 不同公司不共享缓存
	if _, _, err := eng.Run(ctx, "Globex"); err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	if searcher.callCount() != 6 {
		t.Errorf("searcher called %d times, want 6", searcher.callCount())
	}
}

// 生成失败降级为空用例列表，报告仍然落盘
func TestRun_GenerationFailureDegrades(t *testing.T) {
	searcher := acmeSearcher()
	generator := &mockGenerator{err: fmt.Errorf("model unavailable")}

	eng, err := NewEngine(testConfig(t), searcher, generator, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	rep, path, err := eng.Run(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rep.AIUseCases) != 0 {
		t.Errorf("got %d use cases, want 0", len(rep.AIUseCases))
	}

	loaded, err := eng.Saver().Load(filepath.Base(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AIUseCases == nil || len(loaded.AIUseCases) != 0 {
		t.Errorf("persisted ai_use_cases = %v, want empty array", loaded.AIUseCases)
	}
}

// 模型输出没有分隔标记时得到空用例，不报错
func TestRun_UnparseableOutput(t *testing.T) {
	searcher := acmeSearcher()
	generator := &mockGenerator{output: "I cannot help with that."}

	eng, err := NewEngine(testConfig(t), searcher, generator, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	rep, _, err := eng.Run(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rep.AIUseCases) != 0 {
		t.Errorf("got %d use cases, want 0", len(rep.AIUseCases))
	}
}

func TestRun_ProgressCallback(t *testing.T) {
	searcher := acmeSearcher()
	generator := &mockGenerator{output: "Use Case #1: something"}

	eng, err := NewEngine(testConfig(t), searcher, generator, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	var stages []string
	eng.OnProgress = func(status string, progress int) {
		stages = append(stages, status)
	}

	if _, _, err := eng.Run(context.Background(), "Acme Corp"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(stages) == 0 || stages[len(stages)-1] != "completed" {
		t.Errorf("progress stages = %v, want last stage completed", stages)
	}
}
