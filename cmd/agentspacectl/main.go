// Package main implements the agentspacectl CLI tool.
// It deploys and manages the security operations agent and the
// Agentspace resources it depends on.
package main

import "github.com/agenticsoc/agentspacectl/cmd/agentspacectl/cmd"

func main() {
	cmd.Execute()
}
