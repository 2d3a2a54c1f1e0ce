package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"todoscan/internal/config"
	todoservice "todoscan/internal/services/todo"
)

// CLI represents the CLI application context
type CLI struct {
	Config  *config.Config
	Service todoservice.Service
	Root    string
	DryRun  bool
	ctx     context.Context
}

// NewCLI initializes the CLI from the command's persistent flags: loads the
// configuration and wires up the TODO service for the resolved project root.
func NewCLI(ctx context.Context, cmd *cobra.Command) (*CLI, error) {
	root, _ := cmd.Flags().GetString("path")
	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	workers, _ := cmd.Flags().GetInt("workers")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if workers > 0 {
		cfg.Workers = workers
	}

	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	return &CLI{
		Config:  cfg,
		Service: todoservice.NewService(cfg, absRoot, dryRun),
		Root:    absRoot,
		DryRun:  dryRun,
		ctx:     ctx,
	}, nil
}
