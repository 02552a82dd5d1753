package main

import (
	"os"

	"github.com/keeper-security/git-user/cmd/git-user/commands"
)

// Version is the current version of git-user
// This must match the git tag when creating releases
const Version = "v1.0.0"

func main() {
	commands.SetVersion(Version)

	os.Exit(commands.Run(os.Args[1:], os.Stdout, os.Stderr))
}
