package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/array-tools-mcp/internal/batch"
	"github.com/ironsheep/array-tools-mcp/internal/detection"
	"github.com/ironsheep/array-tools-mcp/internal/display"
	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "array_load", "array_contours").
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

	s.debugf("tool call: %s", params.Name)
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed: %v", params.Name, err)
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
//  2. Applies configured defaults for omitted parameters
//  3. Loads the source array from cache or from literal values
//  4. Calls the appropriate imaging/detection/display function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Loading
	case "array_load":
		return s.handleArrayLoad(args)

	// Filters
	case "array_normalize":
		return s.handleArrayNormalize(args)
	case "array_blur_gaussian":
		return s.handleArrayBlurGaussian(args)
	case "array_blur_median":
		return s.handleArrayBlurMedian(args)
	case "array_laplacian":
		return s.handleArrayLaplacian(args)

	// Contours
	case "array_contours":
		return s.handleArrayContours(args)
	case "array_count_contours":
		return s.handleArrayCountContours(args)
	case "array_count_contours_batch":
		return s.handleArrayCountContoursBatch(args)
	case "image_draw_contours":
		return s.handleImageDrawContours(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument handling ===

// sourceArgs selects the array a tool operates on.
type sourceArgs struct {
	Path          string      `json:"path"`
	Values        [][]float64 `json:"values"`
	IncludeValues bool        `json:"include_values"`
}

// loadSource returns the array named by exactly one of path or values.
func (s *Server) loadSource(a sourceArgs) (*imaging.Array, error) {
	switch {
	case a.Path != "" && a.Values != nil:
		return nil, errors.New("path and values are mutually exclusive")
	case a.Path != "":
		return s.cache.LoadArray(a.Path)
	case a.Values != nil:
		return imaging.FromValues(a.Values)
	default:
		return nil, errors.New("either path or values is required")
	}
}

// Threshold modes accepted by the contour tools.
const (
	modeFixed    = "fixed"
	modeOtsu     = "otsu"
	modeAdaptive = "adaptive"
)

// thresholdArgs picks how an array is binarized.
type thresholdArgs struct {
	Threshold      *float64 `json:"threshold"`
	ThresholdMode  string   `json:"threshold_mode"`
	AdaptiveWindow *int     `json:"adaptive_window"`
	AdaptiveK      *float64 `json:"adaptive_k"`
}

// binarization is a resolved thresholdArgs. Adaptive is set only in
// adaptive mode, where Threshold is unused.
type binarization struct {
	Mode      string
	Threshold float64
	Adaptive  *detection.Adaptive
}

// thresholdMode normalizes the mode and, in adaptive mode, returns the
// validated adaptive parameters.
func (s *Server) thresholdMode(t thresholdArgs) (string, *detection.Adaptive, error) {
	mode := strings.ToLower(t.ThresholdMode)
	switch mode {
	case "", modeFixed:
		return modeFixed, nil, nil
	case modeOtsu:
		return modeOtsu, nil, nil
	case modeAdaptive:
		p := s.cfg.Adaptive()
		if t.AdaptiveWindow != nil {
			p.Window = *t.AdaptiveWindow
		}
		if t.AdaptiveK != nil {
			p.K = *t.AdaptiveK
		}
		if err := p.Validate(); err != nil {
			return "", nil, err
		}
		return modeAdaptive, &p, nil
	default:
		return "", nil, fmt.Errorf("threshold_mode: %q is not fixed, otsu or adaptive", t.ThresholdMode)
	}
}

func (s *Server) resolveThreshold(arr *imaging.Array, t thresholdArgs) (*binarization, error) {
	mode, adaptive, err := s.thresholdMode(t)
	if err != nil {
		return nil, err
	}
	b := &binarization{Mode: mode, Adaptive: adaptive}
	switch mode {
	case modeFixed:
		b.Threshold = s.cfg.Defaults.Threshold
		if t.Threshold != nil {
			b.Threshold = *t.Threshold
		}
	case modeOtsu:
		if b.Threshold, err = detection.OtsuLevel(arr); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// contours returns the outer contours of arr under b.
func (b *binarization) contours(arr *imaging.Array) ([]detection.Contour, error) {
	if b.Adaptive != nil {
		return detection.ContoursAdaptive(arr, *b.Adaptive)
	}
	return detection.Contours(arr, b.Threshold)
}

func (s *Server) minArea(v *float64) float64 {
	if v != nil {
		return *v
	}
	return s.cfg.Defaults.MinArea
}

// ArrayResult summarizes an array returned by a filter tool.
type ArrayResult struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Min    float64     `json:"min"`
	Max    float64     `json:"max"`
	Values [][]float64 `json:"values,omitempty"`
}

func arrayResult(a *imaging.Array, includeValues bool) *ArrayResult {
	lo, hi := a.MinMax()
	r := &ArrayResult{Width: a.Width, Height: a.Height, Min: lo, Max: hi}
	if includeValues {
		r.Values = a.Values()
	}
	return r
}

// === Loading ===

type arrayLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleArrayLoad(args json.RawMessage) (interface{}, error) {
	var a arrayLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadArrayInfo(s.cache, a.Path)
}

// === Filters ===

// NormalizeResult is returned by array_normalize.
type NormalizeResult struct {
	Width  int                   `json:"width"`
	Height int                   `json:"height"`
	High   float64               `json:"high"`
	Low    float64               `json:"low"`
	Image  *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleArrayNormalize(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	arr, err := s.loadSource(a)
	if err != nil {
		return nil, err
	}
	norm, err := imaging.Normalize(arr)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(norm.Pixels)
	if err != nil {
		return nil, err
	}
	return &NormalizeResult{
		Width:  arr.Width,
		Height: arr.Height,
		High:   norm.High,
		Low:    norm.Low,
		Image:  enc,
	}, nil
}

type arrayBlurGaussianArgs struct {
	sourceArgs
	Side  *int     `json:"side"`
	Sigma *float64 `json:"sigma"`
}

func (s *Server) handleArrayBlurGaussian(args json.RawMessage) (interface{}, error) {
	var a arrayBlurGaussianArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	side, sigma := s.cfg.Defaults.GaussianSide, s.cfg.Defaults.GaussianSigma
	if a.Side != nil {
		side = *a.Side
	}
	if a.Sigma != nil {
		sigma = *a.Sigma
	}

	arr, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	blurred, err := imaging.GaussianBlur(arr, side, sigma)
	if err != nil {
		return nil, err
	}
	return arrayResult(blurred, a.IncludeValues), nil
}

type arrayBlurMedianArgs struct {
	sourceArgs
	Side *int `json:"side"`
}

func (s *Server) handleArrayBlurMedian(args json.RawMessage) (interface{}, error) {
	var a arrayBlurMedianArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	side := s.cfg.Defaults.MedianSide
	if a.Side != nil {
		side = *a.Side
	}

	arr, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	blurred, err := imaging.MedianBlur(arr, side)
	if err != nil {
		return nil, err
	}
	return arrayResult(blurred, a.IncludeValues), nil
}

func (s *Server) handleArrayLaplacian(args json.RawMessage) (interface{}, error) {
	var a sourceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	arr, err := s.loadSource(a)
	if err != nil {
		return nil, err
	}
	lap, err := imaging.Laplacian(arr)
	if err != nil {
		return nil, err
	}
	return arrayResult(lap, a.IncludeValues), nil
}

// === Contours ===

// ContoursResult is returned by array_contours. Threshold is 0 in adaptive
// mode, where Adaptive holds the parameters used instead.
type ContoursResult struct {
	ThresholdMode string              `json:"threshold_mode"`
	Threshold     float64             `json:"threshold"`
	Adaptive      *detection.Adaptive `json:"adaptive,omitempty"`
	Count         int                 `json:"count"`
	Contours      []detection.Contour `json:"contours"`
}

type arrayContoursArgs struct {
	sourceArgs
	thresholdArgs
}

func (s *Server) handleArrayContours(args json.RawMessage) (interface{}, error) {
	var a arrayContoursArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	arr, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	bin, err := s.resolveThreshold(arr, a.thresholdArgs)
	if err != nil {
		return nil, err
	}
	contours, err := bin.contours(arr)
	if err != nil {
		return nil, err
	}
	return &ContoursResult{
		ThresholdMode: bin.Mode,
		Threshold:     bin.Threshold,
		Adaptive:      bin.Adaptive,
		Count:         len(contours),
		Contours:      contours,
	}, nil
}

// CountResult is returned by array_count_contours.
type CountResult struct {
	ThresholdMode string              `json:"threshold_mode"`
	Threshold     float64             `json:"threshold"`
	Adaptive      *detection.Adaptive `json:"adaptive,omitempty"`
	MinArea       float64             `json:"min_area"`
	Count         int                 `json:"count"`
}

type arrayCountContoursArgs struct {
	sourceArgs
	thresholdArgs
	MinArea *float64 `json:"min_area"`
}

func (s *Server) handleArrayCountContours(args json.RawMessage) (interface{}, error) {
	var a arrayCountContoursArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	arr, err := s.loadSource(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	bin, err := s.resolveThreshold(arr, a.thresholdArgs)
	if err != nil {
		return nil, err
	}
	minArea := s.minArea(a.MinArea)
	contours, err := bin.contours(arr)
	if err != nil {
		return nil, err
	}
	return &CountResult{
		ThresholdMode: bin.Mode,
		Threshold:     bin.Threshold,
		Adaptive:      bin.Adaptive,
		MinArea:       minArea,
		Count:         len(detection.Significant(contours, minArea)),
	}, nil
}

// BatchResult is returned by array_count_contours_batch.
type BatchResult struct {
	Results []batch.Result `json:"results"`
	Failed  int            `json:"failed"`
}

type arrayCountContoursBatchArgs struct {
	thresholdArgs
	Paths   []string `json:"paths"`
	MinArea *float64 `json:"min_area"`
	Workers int      `json:"workers"`
}

func (s *Server) handleArrayCountContoursBatch(args json.RawMessage) (interface{}, error) {
	var a arrayCountContoursBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, errors.New("paths must not be empty")
	}

	mode, adaptive, err := s.thresholdMode(a.thresholdArgs)
	if err != nil {
		return nil, err
	}
	opts := batch.Options{
		Threshold: s.cfg.Defaults.Threshold,
		MinArea:   s.minArea(a.MinArea),
		Otsu:      mode == modeOtsu,
		Adaptive:  adaptive,
		Workers:   s.cfg.Defaults.Workers,
	}
	if a.Threshold != nil {
		opts.Threshold = *a.Threshold
	}
	if a.Workers > 0 {
		opts.Workers = a.Workers
	}

	results, err := batch.CountFiles(s.ctx, s.cache, a.Paths, opts)
	if err != nil {
		return nil, err
	}
	failed := 0
	for _, r := range results {
		if r.Err != "" {
			failed++
		}
	}
	return &BatchResult{Results: results, Failed: failed}, nil
}

// DrawResult is returned by image_draw_contours.
//
// A failed display step does not fail the tool: the drawn image is still
// returned and DisplayError says what went wrong.
type DrawResult struct {
	ThresholdMode  string                `json:"threshold_mode"`
	Threshold      float64               `json:"threshold"`
	Adaptive       *detection.Adaptive   `json:"adaptive,omitempty"`
	Count          int                   `json:"count"`
	Contours       []detection.Contour   `json:"contours"`
	Image          *imaging.EncodedImage `json:"image"`
	DisplayBackend string                `json:"display_backend,omitempty"`
	OutputPath     string                `json:"output_path,omitempty"`
	DisplayError   string                `json:"display_error,omitempty"`
}

type imageDrawContoursArgs struct {
	thresholdArgs
	Path      string      `json:"path"`
	ArrayPath string      `json:"array_path"`
	Values    [][]float64 `json:"values"`
	MinArea   *float64    `json:"min_area"`
	Color     string      `json:"color"`
	Thickness int         `json:"thickness"`
	Display   bool        `json:"display"`
}

func (s *Server) handleImageDrawContours(args json.RawMessage) (interface{}, error) {
	var a imageDrawContoursArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if a.Color == "" {
		a.Color = s.cfg.Defaults.ContourColor
	}
	c, err := detection.ParseColor(a.Color)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	adapter := s.cfg.Adapter()

	var arr *imaging.Array
	switch {
	case a.ArrayPath != "" && a.Values != nil:
		return nil, errors.New("array_path and values are mutually exclusive")
	case a.Values != nil:
		arr, err = imaging.FromValues(a.Values)
	case a.ArrayPath != "":
		arr, err = s.cache.LoadArray(a.ArrayPath)
	default:
		// Threshold the image itself, in array coordinates.
		arr = imaging.FromImage(adapter.Align(img))
	}
	if err != nil {
		return nil, err
	}

	bin, err := s.resolveThreshold(arr, a.thresholdArgs)
	if err != nil {
		return nil, err
	}

	opts := display.DrawOptions{
		Color:     c,
		Thickness: a.Thickness,
		Title:     strings.TrimSuffix(filepath.Base(a.Path), filepath.Ext(a.Path)) + "-contours",
		Adapter:   adapter,
		Adaptive:  bin.Adaptive,
	}

	var backend display.Backend
	if a.Display {
		backend = s.backend
	}
	res, showErr := display.DrawContours(s.ctx, backend, img, arr, bin.Threshold, s.minArea(a.MinArea), opts)
	if res == nil {
		return nil, showErr
	}

	enc, err := imaging.EncodePNG(res.Image)
	if err != nil {
		return nil, err
	}
	out := &DrawResult{
		ThresholdMode: bin.Mode,
		Threshold:     bin.Threshold,
		Adaptive:      bin.Adaptive,
		Count:         len(res.Contours),
		Contours:      res.Contours,
		Image:         enc,
	}
	if backend != nil {
		out.DisplayBackend = backend.Name()
		if showErr != nil {
			s.debugf("display on %s failed: %v", backend.Name(), showErr)
			out.DisplayError = showErr.Error()
		} else if p, ok := backend.(*display.PNGBackend); ok {
			out.OutputPath = p.PathFor(opts.Title)
		}
	}
	return out, nil
}
