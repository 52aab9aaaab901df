package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/array-tools-mcp/internal/config"
	"github.com/ironsheep/array-tools-mcp/internal/display"
	"github.com/ironsheep/array-tools-mcp/internal/imaging"
)

// Version is reported in the initialize handshake. It is overridden by the
// binary at startup.
var Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	cfg     *config.Config
	backend display.Backend
	ctx     context.Context
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a server with the built-in configuration and no display.
func New() *Server {
	s, err := NewWithConfig(config.Default())
	if err != nil {
		// The default backend is "none", which cannot fail.
		panic(err)
	}
	return s
}

// NewWithConfig creates a server using cfg. The display backend named by
// the configuration is created up front so a bad name fails at startup.
func NewWithConfig(cfg *config.Config) (*Server, error) {
	backend, err := cfg.NewBackend()
	if err != nil {
		return nil, err
	}
	return &Server{
		cache:   imaging.NewImageCache(),
		cfg:     cfg,
		backend: backend,
		ctx:     context.Background(),
	}, nil
}

// Run starts the MCP server, reading from stdin and writing to stdout
// until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve processes newline-delimited JSON-RPC requests from in until it is
// exhausted or ctx is done, writing responses to out. ctx also bounds
// blocking tool calls such as a display wait.
//
// Serve returns nil at end of input and ctx.Err() when ctx ends first. A
// request being handled when ctx ends still gets its response.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.ctx = ctx

	scanner := bufio.NewScanner(in)
	// Literal arrays can be large; allow requests up to 16MB.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 16*1024*1024)

	// Reads happen in their own goroutine so a blocked read does not keep
	// Serve from noticing ctx. readErr is set before lines is closed.
	lines := make(chan []byte)
	var readErr error
	go func() {
		defer close(lines)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		readErr = scanner.Err()
	}()

	encoder := json.NewEncoder(out)

	for {
		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				if readErr != nil {
					return fmt.Errorf("scanner error: %w", readErr)
				}
				return nil
			}
			line = l
		}
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}
}

// debugf logs only when debug logging is configured.
func (s *Server) debugf(format string, args ...interface{}) {
	if s.cfg.Debug() {
		log.Printf(format, args...)
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.debugf("request: %s", req.Method)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "array-tools-mcp",
				"version": Version,
			},
		},
	}
}
