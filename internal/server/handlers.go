package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/palette-dither-mcp/internal/dither"
	"github.com/ironsheep/palette-dither-mcp/internal/imaging"
	"github.com/ironsheep/palette-dither-mcp/internal/logging"
	"github.com/ironsheep/palette-dither-mcp/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_map_to_palette").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	log := logging.WithComponent(s.logger, logging.ComponentTools).With("tool", params.Name)
	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.Warn("tool failed", "error", err, "duration", time.Since(start))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	log.Debug("tool done", "duration", time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging or palette function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Palettes and Methods
	case "palette_list":
		return s.handlePaletteList(args)
	case "dither_methods":
		return s.handleDitherMethods(args)

	// Palette Operations
	case "image_extract_palette":
		return s.handleImageExtractPalette(args)
	case "image_map_to_palette":
		return s.handleImageMapToPalette(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Palette and Method Handlers ===

type paletteListArgs struct {
	Name          string `json:"name"`
	IncludeColors *bool  `json:"include_colors"`
}

// PaletteSummary describes one palette in palette_list output.
type PaletteSummary struct {
	Name   string                 `json:"name"`
	Source string                 `json:"source"` // "builtin" or "file"
	Size   int                    `json:"size"`
	Colors []imaging.PaletteColor `json:"colors,omitempty"`
}

// PaletteListResult is the palette_list output.
type PaletteListResult struct {
	Default  string           `json:"default"`
	Palettes []PaletteSummary `json:"palettes"`
}

func (s *Server) handlePaletteList(args json.RawMessage) (interface{}, error) {
	var a paletteListArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	include := a.IncludeColors == nil || *a.IncludeColors

	summarize := func(name, source string, p palette.Palette) PaletteSummary {
		sum := PaletteSummary{Name: name, Source: source, Size: len(p)}
		if include {
			sum.Colors = imaging.DescribePalette(p)
		}
		return sum
	}

	result := &PaletteListResult{Default: palette.DefaultName}
	for _, name := range palette.Names() {
		if a.Name != "" && name != a.Name {
			continue
		}
		p, _ := palette.Named(name)
		result.Palettes = append(result.Palettes, summarize(name, "builtin", p))
	}
	for _, name := range s.library.Names() {
		if a.Name != "" && name != a.Name {
			continue
		}
		p, _ := s.library.Lookup(name)
		result.Palettes = append(result.Palettes, summarize(name, "file", p))
	}

	if a.Name != "" && len(result.Palettes) == 0 {
		return nil, fmt.Errorf("%w: %q", palette.ErrUnknownPalette, a.Name)
	}
	return result, nil
}

// MethodInfo describes one dithering method in dither_methods output.
type MethodInfo struct {
	Name    string      `json:"name"`
	Columns int         `json:"columns,omitempty"`
	Rows    int         `json:"rows,omitempty"`
	Centre  int         `json:"centre,omitempty"`
	Weights [][]float32 `json:"weights,omitempty"`
}

func (s *Server) handleDitherMethods(json.RawMessage) (interface{}, error) {
	methods := dither.Methods()
	out := make([]MethodInfo, 0, len(methods))
	for _, m := range methods {
		info := MethodInfo{Name: string(m)}
		if k := m.Kernel(); k != nil {
			info.Columns = k.Columns()
			info.Rows = k.Rows()
			info.Centre = k.Centre()
			info.Weights = make([][]float32, k.Rows())
			for row := range info.Weights {
				info.Weights[row] = make([]float32, k.Columns())
				for col := range info.Weights[row] {
					info.Weights[row][col] = k.At(col, row)
				}
			}
		}
		out = append(out, info)
	}
	return map[string]interface{}{
		"methods": out,
		"default": dither.MethodFloydSteinberg,
	}, nil
}

func methodNames() []string {
	methods := dither.Methods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return names
}

// lookupPalette resolves a palette name, preferring the palette file over the
// built-in presets.
func (s *Server) lookupPalette(name string) (palette.Palette, error) {
	if p, err := s.library.Lookup(name); err == nil {
		return p, nil
	}
	return palette.Named(name)
}

// === Palette Operation Handlers ===

type imageExtractPaletteArgs struct {
	Path   string          `json:"path"`
	Count  int             `json:"count"`
	Region *imaging.Region `json:"region,omitempty"`
}

func (s *Server) handleImageExtractPalette(args json.RawMessage) (interface{}, error) {
	var a imageExtractPaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 8
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.ExtractPalette(img, a.Count, a.Region)
}

type imageMapToPaletteArgs struct {
	Path        string          `json:"path"`
	Palette     string          `json:"palette"`
	Colors      []string        `json:"colors"`
	StartIndex  int             `json:"start_index"`
	EndIndex    int             `json:"end_index"`
	Method      string          `json:"method"`
	Amount      *float64        `json:"amount"`
	KeepAlpha   *bool           `json:"keep_alpha"`
	Region      *imaging.Region `json:"region,omitempty"`
	StripHeight *int            `json:"strip_height"`
	Parallel    *bool           `json:"parallel"`
	ShareCache  *bool           `json:"share_cache"`
	Scale       float64         `json:"scale"`
	Preview     *bool           `json:"preview"`
	ShowStrips  bool            `json:"show_strips"`
	GuideColor  string          `json:"guide_color"`
	OutputPath  string          `json:"output_path"`
}

// resolvePalette picks the explicit colours or the named palette and applies
// the optional 1-based index range.
func (s *Server) resolvePalette(a *imageMapToPaletteArgs) (palette.Palette, error) {
	var p palette.Palette
	var err error
	switch {
	case len(a.Colors) > 0 && a.Palette != "":
		return nil, errors.New("give either palette or colors, not both")
	case len(a.Colors) > 0:
		p, err = palette.ParseHexList(a.Colors)
	case a.Palette != "":
		p, err = s.lookupPalette(a.Palette)
	default:
		p, err = palette.Named(palette.DefaultName)
	}
	if err != nil {
		return nil, err
	}

	if a.StartIndex == 0 && a.EndIndex == 0 {
		return p, nil
	}
	start, end := a.StartIndex, a.EndIndex
	if start == 0 {
		start = 1
	}
	if end == 0 {
		end = len(p)
	}
	return p.Slice(start, end)
}

// mapOptions validates the request and fills in configured defaults.
func (s *Server) mapOptions(a *imageMapToPaletteArgs) (imaging.MapOptions, error) {
	p, err := s.resolvePalette(a)
	if err != nil {
		return imaging.MapOptions{}, err
	}

	method := dither.MethodFloydSteinberg
	if a.Method != "" {
		if method, err = dither.ParseMethod(a.Method); err != nil {
			return imaging.MapOptions{}, err
		}
	}

	opts := imaging.MapOptions{
		Palette:     p,
		Method:      method,
		Amount:      float32(s.cfg.Amount),
		KeepAlpha:   true,
		Region:      a.Region,
		StripHeight: s.cfg.StripHeight,
		Parallel:    s.cfg.Parallel,
		ShareCache:  s.cfg.ShareCache,
	}
	if a.Amount != nil {
		opts.Amount = float32(*a.Amount)
	}
	if a.KeepAlpha != nil {
		opts.KeepAlpha = *a.KeepAlpha
	}
	if a.StripHeight != nil {
		opts.StripHeight = *a.StripHeight
	}
	if a.Parallel != nil {
		opts.Parallel = *a.Parallel
	}
	if a.ShareCache != nil {
		opts.ShareCache = *a.ShareCache
	}
	return opts, nil
}

func (s *Server) handleImageMapToPalette(args json.RawMessage) (interface{}, error) {
	var a imageMapToPaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.mapOptions(&a)
	if err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	out := imaging.OutputOptions{
		Scale:      a.Scale,
		OutputPath: a.OutputPath,
		NoPreview:  a.Preview != nil && !*a.Preview,
		Guides:     a.ShowStrips,
	}
	if a.GuideColor != "" {
		if out.GuideColor, err = palette.ParseHex(a.GuideColor); err != nil {
			return nil, err
		}
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := imaging.MapImage(img, opts, out)
	if err != nil {
		return nil, err
	}
	logging.WithComponent(s.logger, logging.ComponentRenderer).Debug("image mapped",
		"path", a.Path,
		"method", result.Method,
		"colors", len(opts.Palette),
		"strips", result.Strips,
		"parallel", opts.Parallel,
		"duration", time.Since(start))

	return result, nil
}
