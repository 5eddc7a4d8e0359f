// Package mcpsrv runs hardiff as an MCP server over stdio.
//
// The server loads two HAR captures, aligns their exchanges, and compares
// each aligned pair section by section, ignoring whatever the active
// whitelist exempts. Everything is configured from the environment (a .env
// file is honoured) and can be overridden with options:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithWhitelistFile("noise.yaml"),
//	    mcpsrv.WithDefaultStrategy("greedy"),
//	    mcpsrv.WithLogFile("/var/log/hardiff-mcp.log"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	err = server.Run(ctx)
//
// Tools that need the loaded captures, stored reports, or whitelist are added
// with WithDepsTool; stateless ones with WithTool. Both go through AddTool,
// which rejects output types whose zero value would violate the schema the
// SDK infers. See examples/body-search for a complete extension.
package mcpsrv
