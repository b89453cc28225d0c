package main

import (
	"context"
	"fmt"
	"os"

	"github.com/taskmaster/todoplus/cmd/api/commands"
)

// @title TodoPlus API
// @version 1.0
// @description Task, project and preference state for TodoPlus clients

// @contact.name TodoPlus Maintainers
// @contact.url https://github.com/taskmaster/todoplus

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	rootCmd := commands.NewRootCommand()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
