package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/iWorld-y/usecase_radar/pkg/model"
)

// 文件名后缀与时间戳格式。同一公司同一秒内的两次保存会互相覆盖，
// 文件名唯一性只依赖秒级时间戳。
const (
	fileSuffix      = "_ai_recommendations.json"
	timestampLayout = "20060102_150405"
	dateLayout      = "2006-01-02"
)

// Assemble 组装报告。use_cases 为 nil 时落盘为空数组而不是 null。
func Assemble(company string, record model.ResearchRecord, cases []model.UseCase) *model.Report {
	if cases == nil {
		cases = []model.UseCase{}
	}
	return &model.Report{
		CompanyName:  company,
		AnalysisDate: time.Now().Format(dateLayout),
		ResearchData: record,
		AIUseCases:   cases,
	}
}

// Saver 报告落盘器，把报告以缩进 JSON 写入固定目录
type Saver struct {
	dir string
}

// NewSaver 创建落盘器
func NewSaver(dir string) *Saver {
	return &Saver{dir: dir}
}

// Dir 返回报告目录
func (s *Saver) Dir() string {
	return s.dir
}

// Save 写入报告并返回绝对路径。目录不存在时自动创建。
func (s *Saver) Save(report *model.Report) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	filename := Filename(report.CompanyName, time.Now())
	path := filepath.Join(s.dir, filename)

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Load 按文件名读取一份已保存的报告
func (s *Saver) Load(name string) (*model.Report, error) {
	// 只接受纯文件名，防止路径穿越
	name = filepath.Base(name)
	if !strings.HasSuffix(name, fileSuffix) {
		return nil, fmt.Errorf("not a report file: %s", name)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", name, err)
	}
	return &report, nil
}

// List 列出目录下全部报告文件名，新的在前
func (s *Saver) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	type fileInfo struct {
		name    string
		modTime time.Time
	}

	files := []fileInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{name: entry.Name(), modTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.name)
	}
	return names, nil
}

// Filename 由规范化公司名和秒级时间戳构造确定性文件名
func Filename(company string, at time.Time) string {
	normalized := strings.ReplaceAll(strings.ToLower(company), " ", "_")
	return normalized + "_" + at.Format(timestampLayout) + fileSuffix
}
