package server

import "github.com/ironsheep/album-wallpaper-mcp/internal/wallpaper"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// modeKeys lists the accepted values of the "mode" argument.
func modeKeys() []string {
	modes := wallpaper.Modes()
	keys := make([]string, len(modes))
	for i, m := range modes {
		keys[i] = m.String()
	}
	return keys
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "wallpaper_render",
			Description: "Render a desktop wallpaper from an album cover: the cover cropped in a circle at the center over a blurred or gradient backdrop. Writes PNG or JPEG depending on the output extension.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the album cover image",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the wallpaper (.png, .jpg or .jpeg). Defaults to the configured output path",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width in pixels. Defaults to the configured width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height in pixels. Defaults to the configured height",
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        modeKeys(),
						"description": "Backdrop strategy: sblur (blurred cover), bgblur (blurred predefined image), lgrad (linear gradient), rgrad (radial gradient). Defaults to the configured mode",
					},
					"background_path": map[string]interface{}{
						"type":        "string",
						"description": "Predefined background image for bgblur. Defaults to the configured background",
					},
				},
				"required": []string{"source_path"},
			},
		},
		{
			Name:        "wallpaper_gradient",
			Description: "Render a plain two-color gradient wallpaper without a cover.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"kind": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"linear", "radial"},
						"description": "linear blends from the top-left corner, radial from the center",
					},
					"from": map[string]interface{}{
						"type":        "string",
						"description": "Start color as #rrggbb (top-left corner or center)",
					},
					"to": map[string]interface{}{
						"type":        "string",
						"description": "End color as #rrggbb",
					},
					"inverted": map[string]interface{}{
						"type":        "boolean",
						"description": "Swap the two colors",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Where to write the wallpaper (.png, .jpg or .jpeg). Defaults to the configured output path",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width in pixels. Defaults to the configured width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height in pixels. Defaults to the configured height",
					},
				},
				"required": []string{"kind", "from", "to"},
			},
		},
		{
			Name:        "wallpaper_palette",
			Description: "Get the most and least frequent colors of an image, the pair used by the gradient modes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "wallpaper_modes",
			Description: "List the available render modes with a short description of each.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
