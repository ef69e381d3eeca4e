package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"taskchat/tasks"
)

// Server publishes the task tools to MCP clients. Every call runs on behalf
// of the user the server was started for; a user_id argument from the
// client is ignored.
type Server struct {
	mcp     *server.MCPServer
	toolbox *tasks.Toolbox
	userID  string
	logger  *zap.Logger
}

func NewServer(toolbox *tasks.Toolbox, userID, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		mcp:     server.NewMCPServer("taskchat", version, server.WithToolCapabilities(false), server.WithRecovery()),
		toolbox: toolbox,
		userID:  userID,
		logger:  logger.Named("mcp"),
	}

	for _, op := range tasks.Operations {
		s.mcp.AddTool(tasks.Tool(op), s.handler(op))
	}

	return s
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving task tools over stdio", zap.String("user_id", s.userID))
	return server.ServeStdio(s.mcp)
}

func (s *Server) handler(op tasks.Operation) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
		return s.call(ctx, op, req.GetArguments()), nil
	}
}

func (s *Server) call(ctx context.Context, op tasks.Operation, args map[string]any) *mcptypes.CallToolResult {
	call, err := tasks.DecodeCall(op, args)
	if err != nil {
		return mcptypes.NewToolResultError(err.Error())
	}

	res, err := s.toolbox.Invoke(ctx, s.userID, call)
	switch {
	case err == nil:
	case errors.Is(err, tasks.ErrNotFound):
		return mcptypes.NewToolResultError(fmt.Sprintf("task %v not found", args["task_id"]))
	case tasks.IsValidation(err):
		return mcptypes.NewToolResultError(err.Error())
	default:
		s.logger.Error("tool call failed", zap.Stringer("operation", op), zap.Error(err))
		return mcptypes.NewToolResultError("internal error")
	}

	data, err := json.Marshal(res.Value())
	if err != nil {
		return mcptypes.NewToolResultError("failed to encode result")
	}
	return mcptypes.NewToolResultText(string(data))
}
