package server

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/shape-features-mcp/internal/imaging"
	"github.com/ironsheep/shape-features-mcp/internal/shape"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "shape_features").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
//  3. Loads and thresholds images through the cache
//  4. Calls the appropriate shape/imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "shape_load":
		return s.handleShapeLoad(args)
	case "shape_features":
		return s.handleShapeFeatures(args)
	case "shape_boundary":
		return s.handleShapeBoundary(args)
	case "shape_overlay":
		return s.handleShapeOverlay(args)
	case "shape_report":
		return s.handleShapeReport(args)
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

// gridArgs are the arguments shared by every single-image tool.
type gridArgs struct {
	Path   string          `json:"path"`
	Invert *bool           `json:"invert,omitempty"`
	Region *imaging.Region `json:"region,omitempty"`
}

func (a gridArgs) options(defaultInvert bool) imaging.BinarizeOptions {
	invert := defaultInvert
	if a.Invert != nil {
		invert = *a.Invert
	}
	return imaging.BinarizeOptions{Invert: invert, Region: a.Region}
}

// loadGrid validates the path argument and thresholds the image.
func (s *Server) loadGrid(a gridArgs) (*shape.Grid, error) {
	if a.Path == "" {
		return nil, fmt.Errorf("missing required argument: path")
	}
	return imaging.LoadGrid(s.cache, a.Path, a.options(s.cfg.Invert))
}

// === Shape Handlers ===

// ShapeLoadResult describes an image and its thresholded foreground.
type ShapeLoadResult struct {
	imaging.ImageInfo
	GridWidth        int `json:"grid_width"`
	GridHeight       int `json:"grid_height"`
	ForegroundPixels int `json:"foreground_pixels"`
	Components       int `json:"components"`
}

func (s *Server) handleShapeLoad(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := s.loadGrid(a)
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	return &ShapeLoadResult{
		ImageInfo:        *info,
		GridWidth:        grid.Width(),
		GridHeight:       grid.Height(),
		ForegroundPixels: grid.Count(),
		Components:       shape.CountComponents(grid),
	}, nil
}

// ShapeFeaturesResult pairs grid-frame features with their report view.
type ShapeFeaturesResult struct {
	Features *shape.FeatureSet     `json:"features"`
	Display  shape.DisplayFeatures `json:"display"`
}

func (s *Server) handleShapeFeatures(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := s.loadGrid(a)
	if err != nil {
		return nil, err
	}
	fs, err := shape.Extract(grid)
	if err != nil {
		return nil, err
	}
	return &ShapeFeaturesResult{Features: fs, Display: fs.Display()}, nil
}

type shapeBoundaryArgs struct {
	gridArgs
	MaxPoints int `json:"max_points"`
}

// ShapeBoundaryResult is the traced boundary cycle.
type ShapeBoundaryResult struct {
	Seed      shape.Pixel   `json:"seed"`
	Points    []shape.Pixel `json:"points"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated"`
	Perimeter float64       `json:"perimeter"`
}

func (s *Server) handleShapeBoundary(args json.RawMessage) (interface{}, error) {
	var a shapeBoundaryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := s.loadGrid(a.gridArgs)
	if err != nil {
		return nil, err
	}
	boundary, err := shape.Trace(grid)
	if err != nil {
		return nil, err
	}

	points := boundary
	truncated := false
	if a.MaxPoints > 0 && len(points) > a.MaxPoints {
		points = points[:a.MaxPoints]
		truncated = true
	}

	return &ShapeBoundaryResult{
		Seed:      boundary[0],
		Points:    points,
		Count:     len(boundary),
		Truncated: truncated,
		Perimeter: shape.Perimeter(boundary),
	}, nil
}

type shapeOverlayArgs struct {
	gridArgs
	BoundaryColor string `json:"boundary_color"`
	CentroidColor string `json:"centroid_color"`
	AxisColor     string `json:"axis_color"`
	Scale         int    `json:"scale"`
}

// ShapeOverlayResult is the rendered overlay plus the features drawn on it.
type ShapeOverlayResult struct {
	*imaging.OverlayResult
	Features *shape.FeatureSet `json:"features"`
}

func (s *Server) handleShapeOverlay(args json.RawMessage) (interface{}, error) {
	var a shapeOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, err := s.loadGrid(a.gridArgs)
	if err != nil {
		return nil, err
	}
	fs, boundary, err := shape.ExtractWithBoundary(grid)
	if err != nil {
		return nil, err
	}
	overlay, err := imaging.RenderOverlay(grid, fs, boundary, imaging.OverlayOptions{
		BoundaryColor: a.BoundaryColor,
		CentroidColor: a.CentroidColor,
		AxisColor:     a.AxisColor,
		Scale:         a.Scale,
	})
	if err != nil {
		return nil, err
	}
	return &ShapeOverlayResult{OverlayResult: overlay, Features: fs}, nil
}

type shapeReportArgs struct {
	Paths      []string `json:"paths"`
	Invert     *bool    `json:"invert,omitempty"`
	OutputPath string   `json:"output_path"`
}

// ShapeReportResult is the rendered batch report.
type ShapeReportResult struct {
	Report     string `json:"report"`
	Images     int    `json:"images"`
	Failed     int    `json:"failed"`
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleShapeReport(args json.RawMessage) (interface{}, error) {
	var a shapeReportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("missing required argument: paths")
	}

	opts := gridArgs{Invert: a.Invert}.options(s.cfg.Invert)
	results, err := shape.ExtractBatch(context.Background(), imaging.BatchJobs(s.cache, a.Paths, opts), s.cfg.Workers)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if err := shape.WriteReport(&b, results); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, []byte(b.String()), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	return &ShapeReportResult{
		Report:     b.String(),
		Images:     len(results),
		Failed:     failed,
		OutputPath: a.OutputPath,
	}, nil
}
