package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"PlanBoardGo/config"
	"PlanBoardGo/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// AIService 自然语言任务解析与排期建议
type AIService struct {
	client *DeepseekClient
}

func NewAIService(client *DeepseekClient) *AIService {
	return &AIService{client: client}
}

// ParseTask 将自然语言描述解析为任务草稿
// 模型输出非法时降级为仅含标题的草稿，不阻塞调用方
func (s *AIService) ParseTask(ctx context.Context, text string, now time.Time) (*models.ParsedTask, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(parseTaskPrompt(now))},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	resp, err := s.client.Chat.GenerateContent(ctx, messages, llms.WithTemperature(0.2))
	if err != nil {
		config.Logger.Errorw("任务解析调用失败", "error", err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("模型未返回内容")
	}

	var parsed models.ParsedTask
	if err := json.Unmarshal([]byte(resp.Choices[0].Content), &parsed); err != nil {
		config.Logger.Warnw("任务解析结果非法，降级为纯标题", "error", err)
		return &models.ParsedTask{Title: text, Priority: string(models.PriorityStandard)}, nil
	}

	// 清洗模型输出，非法字段丢弃
	if strings.TrimSpace(parsed.Title) == "" {
		parsed.Title = text
	}
	if !models.ValidPriority(parsed.Priority) {
		parsed.Priority = string(models.PriorityStandard)
	}
	if parsed.DueDate != nil {
		if _, ok := models.ParseDueDate(*parsed.DueDate); !ok {
			parsed.DueDate = nil
			parsed.DueTime = nil
		}
	}
	if parsed.DueDate == nil {
		parsed.DueTime = nil
	} else if parsed.DueTime != nil {
		if _, _, ok := models.ParseDueTime(*parsed.DueTime); !ok {
			parsed.DueTime = nil
		}
	}
	return &parsed, nil
}

// SuggestSchedule 为未完成任务生成排期建议文本
func (s *AIService) SuggestSchedule(ctx context.Context, tasks []models.Task, now time.Time) (string, error) {
	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(fmt.Sprintf("- %s (优先级:%s", t.Title, t.Priority))
		if t.DueDate != nil {
			sb.WriteString(", 截止:" + *t.DueDate)
			if t.DueTime != nil {
				sb.WriteString(" " + *t.DueTime)
			}
		}
		sb.WriteString(")\n")
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(suggestSchedulePrompt(now))},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(sb.String())},
		},
	}

	resp, err := s.client.Chat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		config.Logger.Errorw("排期建议调用失败", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("模型未返回内容")
	}
	return resp.Choices[0].Content, nil
}

func parseTaskPrompt(now time.Time) string {
	return fmt.Sprintf(`你是任务解析助手。当前时间为：%s

将用户的自然语言描述解析为一个任务，输出JSON对象，字段如下：
{"title": "任务标题", "description": "补充说明，可为空", "priority": "low/standard/high/urgent之一", "dueDate": "YYYY-MM-DD或null", "dueTime": "HH:MM或null", "tags": ["标签"]}

规则：
1.相对日期（明天、下周五）换算为具体日期
2.未提到时间时dueTime为null，未提到日期时dueDate和dueTime都为null
3.只输出JSON，禁用markdown格式`, now.Format("2006-01-02 15:04"))
}

func suggestSchedulePrompt(now time.Time) string {
	return fmt.Sprintf(`你是排期助手。当前时间为：%s

用户会给出未完成任务列表，请给出合理的完成顺序建议：
1.优先级高、截止早的任务排前面
2.每条建议一句话说明理由
3.禁用markdown格式`, now.Format("2006-01-02 15:04"))
}
