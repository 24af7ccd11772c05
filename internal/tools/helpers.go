// Package tools provides shared helpers and registration types for MCP tool handlers.
package tools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jamesprial/extstorage-mcp/internal/logging"
	"github.com/jamesprial/extstorage-mcp/internal/safety"
	"github.com/mark3labs/mcp-go/mcp"
)

// JSONResult marshals v to indented JSON and returns an mcp.CallToolResult.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorResult(fmt.Sprintf("marshaling result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// ErrorResult returns an mcp.CallToolResult flagged as an error whose text
// describes the failure.
func ErrorResult(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("error: %s", msg))
}

// LogAudit logs a method call to the audit logger, silently ignoring a nil logger.
func LogAudit(audit *safety.AuditLogger, method string, params map[string]any, outcome, detail string, start time.Time) {
	if audit == nil {
		return
	}
	if err := audit.Call(method, params, outcome, detail, start); err != nil {
		logging.Error().Err(err).Str("method", method).Msg("audit write failed")
	}
}
