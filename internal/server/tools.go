package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// gridProperties are the inputs shared by every tool that thresholds an image.
func gridProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path or http(s) URL of the image (PNG, JPEG or GIF)",
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert colors before thresholding, for dark shapes on a light background. Defaults to the server setting.",
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional region of interest; only this rectangle is thresholded. Use it to isolate one object.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
				"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
				"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
				"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
	}
}

// withProperties returns gridProperties plus extra.
func withProperties(extra map[string]interface{}) map[string]interface{} {
	props := gridProperties()
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "shape_load",
			Description: "Load an image, threshold it (foreground = all RGB channels nonzero) and report dimensions, format, foreground pixel count and number of connected regions.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": gridProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "shape_features",
			Description: "Extract geometric features of the foreground region: area, centroid, second-order moments, axis of least inertia and perimeter. Also returns the centroid and angle in report (display) coordinates.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": gridProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "shape_boundary",
			Description: "Trace the 8-connected outer boundary of the foreground region and return the ordered boundary pixels (row, col) with the perimeter.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"max_points": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of boundary points to return (0 = all). The perimeter always covers the full boundary.",
						"default":     0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "shape_overlay",
			Description: "Render the thresholded image with the traced boundary, centroid and axis of least inertia drawn on top, as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(map[string]interface{}{
					"boundary_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for boundary pixels. Default #FF3030",
					},
					"centroid_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for the centroid marker. Default #30FF30",
					},
					"axis_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for the axis of least inertia. Default #30A0FF",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Integer upscaling factor (nearest neighbor). Default 1",
						"default":     1,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "shape_report",
			Description: "Extract features from several images in parallel and return a human-readable report with area, centroid, perimeter and axis angle in degrees for each. Images that fail are reported individually.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths or http(s) URLs of the images",
					},
					"invert": map[string]interface{}{
						"type":        "boolean",
						"description": "Invert colors before thresholding. Defaults to the server setting.",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the report to",
					},
				},
				"required": []string{"paths"},
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
