package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties are the schema properties shared by every tool that
// takes an array: a file path or literal values, plus include_values.
func sourceProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to an image file, read as a luminance array. Use either path or values.",
		},
		"values": map[string]interface{}{
			"type":        "array",
			"description": "Literal 2D array indexed values[x][y]; every inner array must have the same length. Use either path or values.",
			"items": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "number"},
			},
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

var includeValuesProperty = map[string]interface{}{
	"type":        "boolean",
	"description": "Return the full resulting array in the response. Default false",
	"default":     false,
}

var thresholdProperties = map[string]interface{}{
	"threshold": map[string]interface{}{
		"type":        "number",
		"description": "Elements strictly above this value are foreground. Defaults to the configured threshold",
	},
	"threshold_mode": map[string]interface{}{
		"type":        "string",
		"enum":        []string{modeFixed, modeOtsu, modeAdaptive},
		"description": "fixed uses threshold; otsu picks the level that best splits the histogram; adaptive compares each element with its neighbourhood (Sauvola), for uneven lighting. Default fixed",
		"default":     modeFixed,
	},
	"adaptive_window": map[string]interface{}{
		"type":        "integer",
		"description": "Adaptive mode: odd neighbourhood side, at least 3. Defaults to the configured adaptive_window",
	},
	"adaptive_k": map[string]interface{}{
		"type":        "number",
		"description": "Adaptive mode: standard deviation weight in (0, 1); larger keeps fewer elements. Defaults to the configured adaptive_k",
	},
}

func merge(maps ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Loading
		{
			Name:        "array_load",
			Description: "Load an image file as a luminance array and return its shape, value range and format.",
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

		// Filters
		{
			Name:        "array_normalize",
			Description: "Rescale an array linearly to 8 bits (min -> 0, max -> 255). Returns the original max and min and the 8-bit grid as a base64 PNG. Fails on constant arrays.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sourceProperties(nil),
			},
		},
		{
			Name:        "array_blur_gaussian",
			Description: "Smooth an array with a separable Gaussian kernel. Borders are mirrored.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(map[string]interface{}{
					"side": map[string]interface{}{
						"type":        "integer",
						"description": "Odd kernel side length, or 0 to derive it from sigma. Defaults to the configured side",
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Standard deviation for both axes; <= 0 derives it from side. Defaults to the configured sigma",
					},
					"include_values": includeValuesProperty,
				}),
			},
		},
		{
			Name:        "array_blur_median",
			Description: "Apply a median filter. The array is normalized to 8 bits, filtered, and mapped back to its original value range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(map[string]interface{}{
					"side": map[string]interface{}{
						"type":        "integer",
						"description": "Odd positive kernel side length. Defaults to the configured side",
					},
					"include_values": includeValuesProperty,
				}),
			},
		},
		{
			Name:        "array_laplacian",
			Description: "Compute the discrete Laplacian (second-derivative edge response) of an array in double precision.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(map[string]interface{}{
					"include_values": includeValuesProperty,
				}),
			},
		},

		// Contours
		{
			Name:        "array_contours",
			Description: "Binarize an array and list the outer contours of its foreground regions, with area and bounding box.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": sourceProperties(thresholdProperties),
			},
		},
		{
			Name:        "array_count_contours",
			Description: "Count the outer contours whose enclosed area is at least min_area.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": sourceProperties(merge(thresholdProperties, map[string]interface{}{
					"min_area": map[string]interface{}{
						"type":        "number",
						"description": "Minimum enclosed area in pixels. Defaults to the configured min_area",
					},
				})),
			},
		},
		{
			Name:        "array_count_contours_batch",
			Description: "Count significant contours in many image files concurrently. Files that fail report an error without stopping the batch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(thresholdProperties, map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the image files",
					},
					"min_area": map[string]interface{}{
						"type":        "number",
						"description": "Minimum enclosed area in pixels. Defaults to the configured min_area",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Files processed at once. Defaults to the configured workers",
					},
				}),
				"required": []string{"paths"},
			},
		},
		{
			Name:        "image_draw_contours",
			Description: "Draw the significant contours of an array over an image and return the result as base64 PNG. Optionally show it on the configured display backend.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": merge(thresholdProperties, map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the background image",
					},
					"array_path": map[string]interface{}{
						"type":        "string",
						"description": "Image file to threshold. Defaults to the luminance of path",
					},
					"values": map[string]interface{}{
						"type":        "array",
						"description": "Literal 2D array indexed values[x][y] to threshold instead of array_path",
						"items": map[string]interface{}{
							"type":  "array",
							"items": map[string]interface{}{"type": "number"},
						},
					},
					"min_area": map[string]interface{}{
						"type":        "number",
						"description": "Minimum enclosed area in pixels. Defaults to the configured min_area",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Contour color as hex (e.g. '#FF0000'). Defaults to the configured color",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Line width in pixels. Default 1",
						"default":     1,
					},
					"display": map[string]interface{}{
						"type":        "boolean",
						"description": "Show the result on the configured display backend and wait for it to be dismissed. Default false",
						"default":     false,
					},
				}),
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
