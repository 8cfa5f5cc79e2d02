package entity

type ToolName string

const (
	ToolGenerateURL    ToolName = "generate_url"
	ToolRenderGIF      ToolName = "render_gif"
	ToolRenderSnapshot ToolName = "render_snapshot"
)

func (t ToolName) String() string {
	return string(t)
}
