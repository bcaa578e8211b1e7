// Package mcp connects agent tool registries to the Model Context Protocol.
//
// Tools flow both ways:
//
//   - NewServer and ServeStdio expose a [tool.Registry] to MCP clients. Calls
//     go through [tool.Registry.Execute], so arguments are validated against
//     each tool's schema before the handler runs.
//   - [RemoteRegistry] connects to an MCP server and RegisterInto copies its
//     tools into a local registry, where they join an agent's tool set.
//
// Remote tools pass through the same reserved-name check as local ones:
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./search-server", nil)
//	if err != nil {
//	    return err
//	}
//	defer remote.Close()
//
//	tools := tool.NewRegistry()
//	if err := remote.RegisterInto(tools); err != nil {
//	    return err
//	}
//	a, err := agent.New(ctx, agent.Config{Endpoint: url, APIKey: key, Tools: tools})
package mcp
