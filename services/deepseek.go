package services

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// 任务解析和排期建议都要求严格JSON输出，响应格式在客户端统一开启
const deepseekModel = "deepseek/deepseek-v3"

// DeepseekClient 大模型客户端，走OpenAI兼容端点
type DeepseekClient struct {
	Chat llms.Model
}

func NewDeepseekClient(apiKey, apiEndpoint string) (*DeepseekClient, error) {
	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel(deepseekModel),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("创建Deepseek客户端失败: %w", err)
	}

	return &DeepseekClient{Chat: model}, nil
}
