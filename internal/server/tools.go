package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// regionSchema describes the optional region argument shared by several tools.
func regionSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer", "description": "Left edge X coordinate (0-based)"},
			"y1": map[string]interface{}{"type": "integer", "description": "Top edge Y coordinate (0-based)"},
			"x2": map[string]interface{}{"type": "integer", "description": "Right edge X coordinate (exclusive)"},
			"y2": map[string]interface{}{"type": "integer", "description": "Bottom edge Y coordinate (exclusive)"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
}

func pathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools. defaultAmount is advertised
// as the default of image_map_to_palette's amount argument.
func GetToolDefinitions(defaultAmount float64) []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and pixel model. Supports PNG, JPEG, GIF, BMP, TIFF and WebP.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
				},
				"required": []string{"path"},
			},
		},

		// Palettes and Methods
		{
			Name:        "palette_list",
			Description: "List the available palettes: built-in presets and any palettes loaded from the configured palette file. Entries are numbered from 1, matching start_index and end_index.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Optional palette name. If set, only that palette is returned",
					},
					"include_colors": map[string]interface{}{
						"type":        "boolean",
						"description": "Include every colour of each palette. Default true",
						"default":     true,
					},
				},
			},
		},
		{
			Name:        "dither_methods",
			Description: "List the error-diffusion dithering methods with their kernel geometry and normalised weights.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Palette Operations
		{
			Name:        "image_extract_palette",
			Description: "Extract the most common colours of an image or region. The returned hex list can be passed as the colors argument of image_map_to_palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colours to extract. Default 8",
						"default":     8,
					},
					"region": regionSchema("Optional region to analyze. If omitted, analyzes the entire image."),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_map_to_palette",
			Description: "Reduce an image to a fixed palette, optionally with error-diffusion dithering. " +
				"Returns a PNG preview, the palette used, the number of distinct output colours and error metrics against the source.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Palette name from palette_list. Default bw. Ignored when colors is given",
						"default":     "bw",
					},
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Explicit palette as hex colours (#RGB, #RRGGBB or #RRGGBBAA)",
					},
					"start_index": map[string]interface{}{
						"type":        "integer",
						"description": "First palette entry to use, 1-based. Default 1",
						"default":     1,
					},
					"end_index": map[string]interface{}{
						"type":        "integer",
						"description": "Last palette entry to use, inclusive. Default is the last entry",
					},
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        methodNames(),
						"description": "Dithering method. Default floyd-steinberg",
						"default":     "floyd-steinberg",
					},
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Dithering strength from 0 (none) to 1 (full error diffusion)",
						"default":     defaultAmount,
						"minimum":     0,
						"maximum":     1,
					},
					"keep_alpha": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep each pixel's original opacity instead of the palette entry's alpha. Default true",
						"default":     true,
					},
					"region": regionSchema("Optional region to map. Pixels outside it are left unchanged."),
					"strip_height": map[string]interface{}{
						"type":        "integer",
						"description": "Dither in independent horizontal strips of this many rows. 0 means one strip",
						"default":     0,
					},
					"parallel": map[string]interface{}{
						"type":        "boolean",
						"description": "Render strips concurrently",
						"default":     false,
					},
					"share_cache": map[string]interface{}{
						"type":        "boolean",
						"description": "Share one colour-match cache between all strips",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor for the returned preview (nearest-neighbour). Default 1.0",
						"default":     1.0,
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the base64 PNG preview. Default true",
						"default":     true,
					},
					"show_strips": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline the region and mark strip boundaries on the preview. Default false",
						"default":     false,
					},
					"guide_color": map[string]interface{}{
						"type":        "string",
						"description": "Hex colour of the strip guides. Default #ff00ff",
						"default":     "#ff00ff",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to save the full-size result; the extension picks the format",
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
			"tools": GetToolDefinitions(s.cfg.Amount),
		},
	}
}
