// Package prompts contains MCP prompt implementations for hardiff.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultStrategy string
	WhitelistFile   string // startup whitelist file, empty when none was configured
}
