// Package server implements the MCP (Model Context Protocol) server for array
// analysis tools.
//
// This package provides a JSON-RPC 2.0 server that exposes intensity-array
// filtering and contour analysis through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Loading:
//   - array_load: Load an image as a luminance array and report its range
//
// Filters:
//   - array_normalize: Rescale to 8 bits, returning the original max and min
//   - array_blur_gaussian: Separable Gaussian blur
//   - array_blur_median: Median blur in the array's own value range
//   - array_laplacian: Second-derivative edge response
//
// Contours:
//   - array_contours: List outer contours at a threshold
//   - array_count_contours: Count contours above a minimum area
//   - array_count_contours_batch: Count contours across many files
//   - image_draw_contours: Draw contours over an image, optionally displaying it
//
// Contour tools binarize with threshold_mode "fixed" (threshold), "otsu"
// (histogram split) or "adaptive" (Sauvola, tuned by adaptive_window and
// adaptive_k).
//
// # Array Sources
//
// Array tools take either "path" (an image file, read as luminance) or
// "values" (a literal 2D array indexed values[x][y]). Omitted numeric
// arguments fall back to the defaults section of the configuration; an
// explicit zero is honored.
//
// # Caching
//
// Decoded images and their luminance arrays are cached by path for the
// lifetime of the server process.
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
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.NewWithConfig(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
