package main

import (
	"github.com/axellelanca/shortlinks/cmd"
	_ "github.com/axellelanca/shortlinks/cmd/cli"    // registers create, resolve, stats, migrate
	_ "github.com/axellelanca/shortlinks/cmd/server" // registers run-server
)

func main() {
	cmd.Execute()
}
