// Command mcp serves the reserved agent tools over MCP stdio, so other MCP
// clients can use the same getCurrentTime tool the agent offers its models.
//
// Usage:
//
//	go run ./cmd/mcp -zone Europe/Berlin
//
// Client configuration:
//
//	{
//	    "mcpServers": {
//	        "aiagent-tools": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp"]
//	        }
//	    }
//	}
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spetersoncode/aiagent/clock"
	"github.com/spetersoncode/aiagent/mcp"
	"github.com/spetersoncode/aiagent/tool"
)

func main() {
	zone := flag.String("zone", clock.DefaultZone, "time zone reported by getCurrentTime")
	name := flag.String("name", mcp.ServerName, "server name reported to clients")
	flag.Parse()

	registry := tool.DefaultsWithClock(clock.New(*zone))
	if err := mcp.ServeStdio(registry, mcp.WithName(*name)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
