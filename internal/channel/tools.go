package channel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jamesprial/extstorage-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const toolNameInvoke = "invoke_method"

var methodDescriptions = map[Method]string{
	MethodIsExternalStorageManager: "Report whether elevated (\"manage all files\") storage access is granted. Always true on hosts that predate the permission.",
	MethodGetExtStorageData:        "List the external storage volumes available to the application, with rootPath, path and availableBytes for each, in host order.",
	MethodGetPlatformVersion:       "Return the host operating system name and release.",
}

// Tools returns one tool registration per known method plus the generic
// invoke_method tool, which accepts any method name.
func Tools(d *Dispatcher) []tools.Registration {
	regs := make([]tools.Registration, 0, len(methodNames)+1)
	for _, m := range Methods() {
		regs = append(regs, methodTool(d, m))
	}
	return append(regs, invokeTool(d))
}

func methodTool(d *Dispatcher, m Method) tools.Registration {
	tool := mcp.NewTool(m.String(),
		mcp.WithDescription(methodDescriptions[m]),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp := d.Handle(ctx, Request{Name: m.String(), Args: req.GetArguments()})
		if resp.Outcome == OutcomeError {
			return tools.ErrorResult(resp.Err.Error()), nil
		}
		return tools.JSONResult(resp.Value), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// invokeEnvelope is the invoke_method payload for success and not-implemented
// outcomes. Result is pre-encoded so that a false answer is kept while an
// absent one is omitted.
type invokeEnvelope struct {
	Method string          `json:"method"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

func invokeTool(d *Dispatcher) tools.Registration {
	tool := mcp.NewTool(toolNameInvoke,
		mcp.WithDescription("Call a storage method by name. Unknown names answer with status \"not_implemented\" instead of failing."),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("Method name, e.g. isExternalStorageManager or getExtStorageData"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("method", "")
		resp := d.Handle(ctx, Request{Name: name, Args: req.GetArguments()})
		if resp.Outcome == OutcomeError {
			return tools.ErrorResult(resp.Err.Error()), nil
		}
		env := invokeEnvelope{Method: resp.Method, Status: resp.Outcome.String()}
		if resp.Outcome == OutcomeSuccess {
			raw, err := json.Marshal(resp.Value)
			if err != nil {
				return tools.ErrorResult(fmt.Sprintf("marshaling result: %v", err)), nil
			}
			env.Result = raw
		}
		return tools.JSONResult(env), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
