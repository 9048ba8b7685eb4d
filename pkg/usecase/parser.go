package usecase

import (
	"strings"
	"time"

	"github.com/iWorld-y/usecase_radar/pkg/model"
)

// generatedAtLayout 用例时间戳格式
const generatedAtLayout = "2006-01-02 15:04:05"

// Parse 把模型输出按 SectionMarker 切分为结构化用例。
// 第一个标记之前的内容是模型的开场白，直接丢弃；
// 空白段落跳过但占用编号，id 始终等于段落在切分序列中的位置。
// 任何输入都不会报错，解析不出内容就返回空列表。
func Parse(raw string) []model.UseCase {
	segments := strings.Split(raw, SectionMarker)
	if len(segments) <= 1 {
		return []model.UseCase{}
	}

	now := time.Now().Format(generatedAtLayout)

	cases := []model.UseCase{}
	for i, segment := range segments[1:] {
		description := strings.TrimSpace(segment)
		if description == "" {
			continue
		}
		cases = append(cases, model.UseCase{
			ID:          i + 1,
			Description: description,
			GeneratedAt: now,
		})
	}
	return cases
}
