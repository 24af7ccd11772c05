package channel

import (
	"github.com/jamesprial/extstorage-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer builds an MCP server announced as name (the channel name) with every
// dispatcher tool registered.
func NewServer(name, version string, d *Dispatcher) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.RegisterAll(s, Tools(d))
	return s
}
