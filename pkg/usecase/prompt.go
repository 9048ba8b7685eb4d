package usecase

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/usecase_radar/pkg/model"
)

// SectionMarker prompt 要求模型使用的段落分隔标记，
// 解析器按同一字面量切分生成文本
const SectionMarker = "Use Case #"

// BuildPrompt 根据调研记录渲染生成 prompt。
// 公司概述按档位截断后嵌入，格式说明必须与 SectionMarker 保持一致。
func BuildPrompt(record model.ResearchRecord, profile model.Profile) string {
	overview := model.Truncate(record[model.CategoryCompanyInfo].Summary, profile.OverviewLimit)

	var sb strings.Builder

	if len(profile.FocusAreas) > 0 {
		fmt.Fprintf(&sb, "Based on this research, generate %d practical AI/GenAI use cases for %s\n\n", profile.UseCaseCount, overview)
		sb.WriteString("Focus areas:\n")
		for _, area := range profile.FocusAreas {
			fmt.Fprintf(&sb, "- %s\n", area)
		}
		sb.WriteString("\nFormat each as:\n")
		sb.WriteString(SectionMarker + "[number]:\n")
	} else {
		sb.WriteString("Quick analysis for:\n")
		fmt.Fprintf(&sb, "Company: %s\n", overview)
		fmt.Fprintf(&sb, "Generate %d AI use cases. Format:\n", profile.UseCaseCount)
		sb.WriteString(SectionMarker + "[n]:\n")
	}

	for _, field := range profile.CaseFields {
		sb.WriteString(field + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
