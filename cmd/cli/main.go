package main

import (
	"github.com/crucial707/feedback-board/cmd/cli/root"

	// Subcommand packages register themselves with the root command.
	_ "github.com/crucial707/feedback-board/cmd/cli/feedback"
	_ "github.com/crucial707/feedback-board/cmd/cli/users"
)

func main() {
	root.Execute()
}
