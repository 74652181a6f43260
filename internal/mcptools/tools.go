package mcptools

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/danielpatrickdp/intent-responder/internal/session"
)

// #endregion imports

// #region tools
// Tools exposes one conversation to an MCP client over stdio. The stdio
// transport may dispatch calls concurrently, so turns are serialized here.
type Tools struct {
	mu      sync.Mutex
	session *session.Session
}

// New wraps s.
func New(s *session.Session) *Tools {
	return &Tools{session: s}
}

// NewServer builds an MCP server with the resolve, teach and reset tools.
func NewServer(t *Tools, version string) *server.MCPServer {
	s := server.NewMCPServer("intent-responder", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	t.Register(s)
	return s
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	resolveTool := mcp.NewTool("resolve",
		mcp.WithDescription("Answer one user message. When learning_requested is true, call teach with the correct answer."),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description("Raw user message"),
		),
	)
	s.AddTool(resolveTool, t.handleResolve)

	teachTool := mcp.NewTool("teach",
		mcp.WithDescription("Store the correct answer for the last message the responder was unsure about"),
		mcp.WithString("answer",
			mcp.Required(),
			mcp.Description("Answer to remember"),
		),
	)
	s.AddTool(teachTool, t.handleTeach)

	resetTool := mcp.NewTool("reset",
		mcp.WithDescription("Discard the pending question without teaching"),
	)
	s.AddTool(resetTool, t.handleReset)
}

// #endregion tools

// #region handlers
func (t *Tools) handleResolve(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input := request.GetString("input", "")

	t.mu.Lock()
	res := t.session.Submit(input)
	t.mu.Unlock()

	payload, err := json.Marshal(map[string]any{
		"text":               res.Text,
		"learning_requested": res.LearningRequested,
		"learning_key":       res.LearningKey,
		"source":             res.Source,
		"tag":                res.Tag,
		"confidence":         res.Confidence,
	})
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (t *Tools) handleTeach(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	answer := request.GetString("answer", "")

	t.mu.Lock()
	text, err := t.session.Teach(answer)
	t.mu.Unlock()

	switch {
	case errors.Is(err, session.ErrNoPendingLearning):
		return mcp.NewToolResultError("nothing to teach: the last message was answered"), nil
	case errors.Is(err, session.ErrEmptyAnswer):
		return mcp.NewToolResultError("answer is empty"), nil
	case err != nil:
		return nil, err
	}
	return mcp.NewToolResultText(text), nil
}

func (t *Tools) handleReset(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	t.session.Reset()
	t.mu.Unlock()
	return mcp.NewToolResultText("pending question cleared"), nil
}

// #endregion handlers
