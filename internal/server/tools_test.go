package server

import (
	"testing"

	"github.com/ironsheep/palette-dither-mcp/internal/config"
)

var expectedTools = []string{
	"image_load",
	"image_dimensions",
	"palette_list",
	"dither_methods",
	"image_extract_palette",
	"image_map_to_palette",
}

func toolsByName() map[string]Tool {
	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions(config.DefaultAmount) {
		toolMap[tool.Name] = tool
	}
	return toolMap
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions(config.DefaultAmount)
	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := toolsByName()
	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions(config.DefaultAmount) {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	toolsRequiringPath := []string{
		"image_load",
		"image_dimensions",
		"image_extract_palette",
		"image_map_to_palette",
	}

	toolMap := toolsByName()
	for _, name := range toolsRequiringPath {
		t.Run(name, func(t *testing.T) {
			requiredList, ok := toolMap[name].InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			if len(requiredList) != 1 || requiredList[0] != "path" {
				t.Errorf("required: got %v, want [path]", requiredList)
			}
		})
	}

	for _, name := range []string{"palette_list", "dither_methods"} {
		if _, ok := toolMap[name].InputSchema["required"]; ok {
			t.Errorf("%s should have no required parameters", name)
		}
	}
}

func TestToolDefinitions_OptionalDefaults(t *testing.T) {
	toolDefaults := map[string]map[string]interface{}{
		"palette_list":          {"include_colors": true},
		"image_extract_palette": {"count": 8},
		"image_map_to_palette": {
			"palette":      "bw",
			"start_index":  1,
			"method":       "floyd-steinberg",
			"amount":       config.DefaultAmount,
			"keep_alpha":   true,
			"strip_height": 0,
			"parallel":     false,
			"share_cache":  false,
			"scale":        1.0,
			"preview":      true,
			"show_strips":  false,
			"guide_color":  "#ff00ff",
		},
	}

	toolMap := toolsByName()
	for toolName, expectedDefaults := range toolDefaults {
		props, ok := toolMap[toolName].InputSchema["properties"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: properties should be a map", toolName)
			continue
		}

		for paramName, expected := range expectedDefaults {
			param, ok := props[paramName].(map[string]interface{})
			if !ok {
				t.Errorf("%s.%s: parameter not found or not a map", toolName, paramName)
				continue
			}
			actual, ok := param["default"]
			if !ok {
				t.Errorf("%s.%s: missing default value", toolName, paramName)
				continue
			}
			if actual != expected {
				t.Errorf("%s.%s: default got %v (%T), want %v (%T)", toolName, paramName, actual, actual, expected, expected)
			}
		}
	}
}

func TestToolDefinitions_AmountDefaultFollowsConfig(t *testing.T) {
	var tool Tool
	for _, tt := range GetToolDefinitions(0.75) {
		if tt.Name == "image_map_to_palette" {
			tool = tt
		}
	}
	props := tool.InputSchema["properties"].(map[string]interface{})
	amount := props["amount"].(map[string]interface{})
	if amount["default"] != 0.75 {
		t.Errorf("amount default: got %v, want 0.75", amount["default"])
	}
}

func TestToolDefinitions_MethodEnum(t *testing.T) {
	props := toolsByName()["image_map_to_palette"].InputSchema["properties"].(map[string]interface{})
	method, ok := props["method"].(map[string]interface{})
	if !ok {
		t.Fatal("method property should exist and be a map")
	}
	enum, ok := method["enum"].([]string)
	if !ok {
		t.Fatal("method should have enum")
	}

	want := []string{
		"none", "floyd-steinberg", "jarvis-judice-ninke", "stucki",
		"burkes", "sierra", "sierra-lite", "atkinson",
	}
	if len(enum) != len(want) {
		t.Fatalf("enum: got %v, want %v", enum, want)
	}
	for i := range want {
		if enum[i] != want[i] {
			t.Errorf("enum[%d]: got %s, want %s", i, enum[i], want[i])
		}
	}
}

func TestToolDefinitions_RegionSchema(t *testing.T) {
	for _, name := range []string{"image_extract_palette", "image_map_to_palette"} {
		props := toolsByName()[name].InputSchema["properties"].(map[string]interface{})
		region, ok := props["region"].(map[string]interface{})
		if !ok {
			t.Errorf("%s: region property missing", name)
			continue
		}
		required, _ := region["required"].([]string)
		if len(required) != 4 {
			t.Errorf("%s: region should require x1, y1, x2, y2, got %v", name, required)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(config.Config{Amount: 0.5}, nil, nil)
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 1})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	for _, tool := range toolsList {
		if tool.Name != "image_map_to_palette" {
			continue
		}
		amount := tool.InputSchema["properties"].(map[string]interface{})["amount"].(map[string]interface{})
		if amount["default"] != 0.5 {
			t.Errorf("amount default should come from config, got %v", amount["default"])
		}
	}
}
