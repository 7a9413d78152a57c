// Package server implements the MCP (Model Context Protocol) server for shape
// feature extraction.
//
// This package provides a JSON-RPC 2.0 server that exposes binary-image
// geometry through the MCP protocol: area, centroid, second-order moments,
// axis of least inertia and boundary perimeter of the foreground region.
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
//   - shape_load: Load and threshold an image, report metadata and region count
//   - shape_features: Full feature set in grid and display coordinates
//   - shape_boundary: Ordered 8-connected boundary pixels and perimeter
//   - shape_overlay: PNG with boundary, centroid and axis drawn on the grid
//   - shape_report: Parallel batch extraction rendered as a text report
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls. Thresholding
// is redone per call since invert and region may differ.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// An image with no foreground pixels fails with shape.ErrEmptyRegion. In
// shape_report that failure is reported for the one image and the rest of the
// batch continues.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.NewWithConfig(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
