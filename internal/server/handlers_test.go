package server

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/shape-features-mcp/internal/config"
	"github.com/ironsheep/shape-features-mcp/internal/shape"
)

const tol = 1e-9

// createShapeImageFile writes rows of '1'/'0' as a PNG with fg on bg and
// returns its path.
func createShapeImageFile(t *testing.T, name string, fg, bg color.Color, rows ...string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, ch := range row {
			if ch == '1' {
				img.Set(x, y, fg)
			} else {
				img.Set(x, y, bg)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// squareImage is a 7x7 image with a centred 5x5 white square.
func squareImage(t *testing.T) string {
	return createShapeImageFile(t, "square.png", white, black,
		"0000000",
		"0111110",
		"0111110",
		"0111110",
		"0111110",
		"0111110",
		"0000000",
	)
}

func verticalBarImage(t *testing.T) string {
	return createShapeImageFile(t, "vbar.png", white, black,
		"000",
		"010",
		"010",
		"010",
		"010",
		"000",
	)
}

func emptyImage(t *testing.T) string {
	return createShapeImageFile(t, "empty.png", white, black,
		"000",
		"000",
	)
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (interface{}, error) {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	return s.executeTool(name, argsJSON)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < tol
}

func TestHandleToolsCall_ShapeFeatures(t *testing.T) {
	s := New()
	path := squareImage(t)

	params := map[string]interface{}{
		"name": "shape_features",
		"arguments": map[string]interface{}{
			"path": path,
		},
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	}

	resp := s.handleRequest(req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}

	var decoded ShapeFeaturesResult
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &decoded); err != nil {
		t.Fatalf("failed to decode tool text: %v", err)
	}
	if decoded.Features.Area != 25 {
		t.Errorf("Area: got %d, want 25", decoded.Features.Area)
	}
	if !near(decoded.Features.Perimeter, 16) {
		t.Errorf("Perimeter: got %g, want 16", decoded.Features.Perimeter)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	params := map[string]interface{}{
		"name": "shape_load",
		"arguments": map[string]interface{}{
			"path": "/nonexistent/image.png",
		},
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: paramsJSON})

	if resp.Error == nil {
		t.Fatal("expected error for missing file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`{invalid`)})

	if resp.Error == nil {
		t.Fatal("expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_ShapeLoad(t *testing.T) {
	s := New()
	path := createShapeImageFile(t, "two.png", white, black,
		"11000",
		"11000",
		"00011",
	)

	result, err := callTool(t, s, "shape_load", map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("shape_load failed: %v", err)
	}

	load := result.(*ShapeLoadResult)
	if load.Width != 5 || load.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 5x3", load.Width, load.Height)
	}
	if load.Format != "png" {
		t.Errorf("Format: got %s, want png", load.Format)
	}
	if load.ForegroundPixels != 6 {
		t.Errorf("ForegroundPixels: got %d, want 6", load.ForegroundPixels)
	}
	if load.Components != 2 {
		t.Errorf("Components: got %d, want 2", load.Components)
	}
}

func TestExecuteTool_ShapeFeatures(t *testing.T) {
	s := New()

	tests := []struct {
		name      string
		path      string
		area      int
		display   shape.DisplayFeatures
		perimeter float64
	}{
		{"square", squareImage(t), 25, shape.DisplayFeatures{X: 3, Y: 4, AngleDegrees: 0}, 16},
		{"vertical bar", verticalBarImage(t), 4, shape.DisplayFeatures{X: 1, Y: 3.5, AngleDegrees: 90}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := callTool(t, s, "shape_features", map[string]interface{}{"path": tt.path})
			if err != nil {
				t.Fatalf("shape_features failed: %v", err)
			}

			r := result.(*ShapeFeaturesResult)
			if r.Features.Area != tt.area {
				t.Errorf("Area: got %d, want %d", r.Features.Area, tt.area)
			}
			if !near(r.Features.Perimeter, tt.perimeter) {
				t.Errorf("Perimeter: got %g, want %g", r.Features.Perimeter, tt.perimeter)
			}
			if !near(r.Display.X, tt.display.X) || !near(r.Display.Y, tt.display.Y) {
				t.Errorf("Display centroid: got (%g, %g), want (%g, %g)", r.Display.X, r.Display.Y, tt.display.X, tt.display.Y)
			}
			if !near(r.Display.AngleDegrees, tt.display.AngleDegrees) {
				t.Errorf("AngleDegrees: got %g, want %g", r.Display.AngleDegrees, tt.display.AngleDegrees)
			}
		})
	}
}

func TestExecuteTool_ShapeFeatures_URL(t *testing.T) {
	file := squareImage(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, file)
	}))
	defer srv.Close()

	s := New()
	result, err := callTool(t, s, "shape_features", map[string]interface{}{"path": srv.URL + "/square.png"})
	if err != nil {
		t.Fatalf("shape_features failed: %v", err)
	}

	r := result.(*ShapeFeaturesResult)
	if r.Features.Area != 25 {
		t.Errorf("Area: got %d, want 25", r.Features.Area)
	}
	if !near(r.Features.Perimeter, 16) {
		t.Errorf("Perimeter: got %g, want 16", r.Features.Perimeter)
	}
}

func TestExecuteTool_ShapeFeatures_Empty(t *testing.T) {
	s := New()

	_, err := callTool(t, s, "shape_features", map[string]interface{}{"path": emptyImage(t)})
	if !errors.Is(err, shape.ErrEmptyRegion) {
		t.Errorf("error: got %v, want ErrEmptyRegion", err)
	}
}

func TestExecuteTool_ShapeFeatures_Invert(t *testing.T) {
	s := New()
	// black square on white
	path := createShapeImageFile(t, "dark.png", black, white,
		"0000",
		"0110",
		"0110",
		"0000",
	)

	result, err := callTool(t, s, "shape_features", map[string]interface{}{"path": path, "invert": true})
	if err != nil {
		t.Fatalf("shape_features failed: %v", err)
	}
	if area := result.(*ShapeFeaturesResult).Features.Area; area != 4 {
		t.Errorf("Area: got %d, want 4", area)
	}
}

func TestExecuteTool_InvertDefaultFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Invert = true
	s := NewWithConfig(cfg)
	path := createShapeImageFile(t, "dark.png", black, white,
		"000",
		"010",
		"000",
	)

	result, err := callTool(t, s, "shape_features", map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("shape_features failed: %v", err)
	}
	if area := result.(*ShapeFeaturesResult).Features.Area; area != 1 {
		t.Errorf("Area: got %d, want 1", area)
	}

	// an explicit argument wins over the server default
	result, err = callTool(t, s, "shape_features", map[string]interface{}{"path": path, "invert": false})
	if err != nil {
		t.Fatalf("shape_features failed: %v", err)
	}
	if area := result.(*ShapeFeaturesResult).Features.Area; area != 8 {
		t.Errorf("Area: got %d, want 8", area)
	}
}

func TestExecuteTool_ShapeFeatures_Region(t *testing.T) {
	s := New()
	path := createShapeImageFile(t, "two.png", white, black,
		"11000",
		"11000",
		"00011",
	)

	result, err := callTool(t, s, "shape_features", map[string]interface{}{
		"path":   path,
		"region": map[string]interface{}{"x1": 3, "y1": 2, "x2": 5, "y2": 3},
	})
	if err != nil {
		t.Fatalf("shape_features failed: %v", err)
	}

	fs := result.(*ShapeFeaturesResult).Features
	if fs.Width != 2 || fs.Height != 1 {
		t.Errorf("grid: got %dx%d, want 2x1", fs.Width, fs.Height)
	}
	if fs.Area != 2 || fs.Components != 1 {
		t.Errorf("Area/Components: got %d/%d, want 2/1", fs.Area, fs.Components)
	}
}

func TestExecuteTool_ShapeBoundary(t *testing.T) {
	s := New()
	path := squareImage(t)

	result, err := callTool(t, s, "shape_boundary", map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("shape_boundary failed: %v", err)
	}

	b := result.(*ShapeBoundaryResult)
	if b.Count != 16 || len(b.Points) != 16 || b.Truncated {
		t.Errorf("boundary: count %d, points %d, truncated %v", b.Count, len(b.Points), b.Truncated)
	}
	if b.Seed.Row != 1 || b.Seed.Col != 1 {
		t.Errorf("Seed: got (%d,%d), want (1,1)", b.Seed.Row, b.Seed.Col)
	}
	if !near(b.Perimeter, 16) {
		t.Errorf("Perimeter: got %g, want 16", b.Perimeter)
	}

	result, err = callTool(t, s, "shape_boundary", map[string]interface{}{"path": path, "max_points": 4})
	if err != nil {
		t.Fatalf("shape_boundary failed: %v", err)
	}
	b = result.(*ShapeBoundaryResult)
	if len(b.Points) != 4 || !b.Truncated || b.Count != 16 {
		t.Errorf("truncated boundary: count %d, points %d, truncated %v", b.Count, len(b.Points), b.Truncated)
	}
	if !near(b.Perimeter, 16) {
		t.Errorf("Perimeter should cover the full boundary, got %g", b.Perimeter)
	}
}

func TestExecuteTool_ShapeOverlay(t *testing.T) {
	s := New()

	result, err := callTool(t, s, "shape_overlay", map[string]interface{}{"path": squareImage(t), "scale": 2})
	if err != nil {
		t.Fatalf("shape_overlay failed: %v", err)
	}

	o := result.(*ShapeOverlayResult)
	if o.Width != 14 || o.Height != 14 {
		t.Errorf("overlay size: got %dx%d, want 14x14", o.Width, o.Height)
	}
	if o.MimeType != "image/png" || o.ImageBase64 == "" {
		t.Errorf("overlay image missing: mime %q, %d bytes", o.MimeType, len(o.ImageBase64))
	}
	if o.Features.Area != 25 {
		t.Errorf("Area: got %d, want 25", o.Features.Area)
	}
}

func TestExecuteTool_ShapeOverlay_BadColorFallsBack(t *testing.T) {
	s := New()

	result, err := callTool(t, s, "shape_overlay", map[string]interface{}{"path": squareImage(t), "axis_color": "not-a-color"})
	if err != nil {
		t.Fatalf("shape_overlay failed: %v", err)
	}
	if result.(*ShapeOverlayResult).ImageBase64 == "" {
		t.Error("overlay image missing")
	}
}

func TestExecuteTool_ShapeReport(t *testing.T) {
	s := New()
	square := squareImage(t)
	empty := emptyImage(t)
	out := filepath.Join(t.TempDir(), "output.txt")

	result, err := callTool(t, s, "shape_report", map[string]interface{}{
		"paths":       []string{square, empty},
		"output_path": out,
	})
	if err != nil {
		t.Fatalf("shape_report failed: %v", err)
	}

	r := result.(*ShapeReportResult)
	if r.Images != 2 || r.Failed != 1 {
		t.Errorf("Images/Failed: got %d/%d, want 2/1", r.Images, r.Failed)
	}

	squareAt := strings.Index(r.Report, "For the image: square.png")
	emptyAt := strings.Index(r.Report, "For the image: empty.png")
	if squareAt < 0 || emptyAt < squareAt {
		t.Errorf("report sections missing or out of order:\n%s", r.Report)
	}
	for _, want := range []string{"Area is: 25", "Centroid is: x= 3 and y= 4", "Perimeter is: 16", "Error: "} {
		if !strings.Contains(r.Report, want) {
			t.Errorf("report missing %q", want)
		}
	}

	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if string(written) != r.Report {
		t.Error("written report differs from returned report")
	}
}

func TestExecuteTool_ShapeReport_NoPaths(t *testing.T) {
	s := New()

	_, err := callTool(t, s, "shape_report", map[string]interface{}{})
	if err == nil {
		t.Error("expected error for missing paths")
	}
}

func TestExecuteTool_MissingPath(t *testing.T) {
	s := New()

	for _, name := range []string{"shape_load", "shape_features", "shape_boundary", "shape_overlay"} {
		t.Run(name, func(t *testing.T) {
			_, err := callTool(t, s, name, map[string]interface{}{})
			if err == nil {
				t.Errorf("%s should fail without path", name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	for _, name := range []string{"shape_load", "shape_features", "shape_boundary", "shape_overlay", "shape_report"} {
		_, err := s.executeTool(name, json.RawMessage(`{invalid`))
		if err == nil {
			t.Errorf("%s should fail for invalid JSON", name)
		}
	}
}
