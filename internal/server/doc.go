// Package server implements the MCP (Model Context Protocol) server for palette
// mapping and dithering.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr; nothing else may write to stdout.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Palettes and Methods:
//   - palette_list: Built-in and file palettes with their colours
//   - dither_methods: Dithering kernels and their weights
//
// Palette Operations:
//   - image_extract_palette: Most common colours of an image or region
//   - image_map_to_palette: Quantize and dither an image onto a palette
//
// # Image Caching
//
// Images are cached by path and reused across tool calls. Renders always work
// on a copy, so a cached image is never modified.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, library, logger)
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    logger.Error("server stopped", "error", err)
//	}
package server
