package output

import "context"

// ProgressPort shows a human what the agent loop is doing.
type ProgressPort interface {
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
}

var _ ProgressPort = NopProgress{}

type NopProgress struct{}

func (NopProgress) ShowIteration(context.Context, int, int)              {}
func (NopProgress) ShowToolStart(context.Context, string, string)        {}
func (NopProgress) ShowToolResult(context.Context, string, string, bool) {}
