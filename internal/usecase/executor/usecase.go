package executor

import (
	"context"
	"fmt"
	"strings"

	"iblipper/internal/application/port/input"
	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	DefaultMaxIterations = 8
	maxObservationLen    = 4000
)

// UseCase lets a model fulfil a free-form request by calling the registered
// tools until it answers without tool calls.
type UseCase struct {
	llm           output.LLMPort
	tools         output.ToolRegistry
	logger        output.LoggerPort
	progress      output.ProgressPort
	systemPrompt  string
	maxIterations int
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	systemPrompt string,
) *UseCase {
	return &UseCase{
		llm:           llm,
		tools:         tools,
		logger:        logger,
		progress:      output.NopProgress{},
		systemPrompt:  systemPrompt,
		maxIterations: DefaultMaxIterations,
	}
}

// WithProgress reports iterations and tool calls to p.
func (uc *UseCase) WithProgress(p output.ProgressPort) *UseCase {
	if p != nil {
		uc.progress = p
	}
	return uc
}

func (uc *UseCase) Execute(ctx context.Context, task string) (*input.ExecuteResult, error) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: uc.systemPrompt},
		{Role: entity.RoleUser, Content: task},
	}

	toolDefs := uc.tools.Definitions()

	for iteration := 1; iteration <= uc.maxIterations; iteration++ {
		uc.logger.Debug("Starting iteration", "iteration", iteration)
		uc.progress.ShowIteration(ctx, iteration, uc.maxIterations)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return &input.ExecuteResult{
				FinalAnswer: resp.Message.Content,
				Iterations:  iteration,
			}, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			uc.progress.ShowToolStart(ctx, tc.Name, tc.Arguments)
			observation := uc.executeTool(ctx, tc)
			uc.progress.ShowToolResult(ctx, tc.Name, observation, strings.HasPrefix(observation, "Error"))

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    observation,
			})
		}
	}

	return nil, fmt.Errorf("max iterations (%d) exceeded", uc.maxIterations)
}

func (uc *UseCase) executeTool(ctx context.Context, tc entity.ToolCall) string {
	tool, ok := uc.tools.Get(entity.ToolName(tc.Name))
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error()
	}

	if len(result) > maxObservationLen {
		result = result[:maxObservationLen] + "\n... (truncated)"
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result
}
