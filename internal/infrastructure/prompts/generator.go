package prompts

import (
	"bytes"
	"fmt"
	"text/template"

	"iblipper/internal/application/port/output"
	"iblipper/internal/domain/entity"
)

type ToolInfo struct {
	Name        string
	Description string
}

type SystemPromptData struct {
	Tools          []ToolInfo
	Emotions       []string
	DefaultEmotion string
}

// GenerateSystemPrompt renders baseTemplate with the registered tools,
// sorted by name, and the known emotions.
func GenerateSystemPrompt(baseTemplate string, tools output.ToolRegistry) (string, error) {
	all := tools.All()
	data := SystemPromptData{
		Tools:          make([]ToolInfo, 0, len(all)),
		Emotions:       make([]string, 0, len(entity.KnownEmotions)),
		DefaultEmotion: entity.DefaultEmotion.String(),
	}
	for _, tool := range all {
		data.Tools = append(data.Tools, ToolInfo{
			Name:        tool.Name().String(),
			Description: tool.Description(),
		})
	}
	for _, e := range entity.KnownEmotions {
		data.Emotions = append(data.Emotions, e.String())
	}

	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", fmt.Errorf("parse system prompt: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return buf.String(), nil
}
