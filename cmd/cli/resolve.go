package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/app"
	apperrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/spf13/cobra"
)

// ResolveCmd resolves a short code the way a visitor would, recording a click.
var ResolveCmd = &cobra.Command{
	Use:   "resolve [short-code]",
	Short: "Resolve a short code to its long URL and record a click",
	Args:  cobra.ExactArgs(1),
	Run:   runResolve,
}

func init() {
	cmd.RootCmd.AddCommand(ResolveCmd)
}

func runResolve(c *cobra.Command, args []string) {
	a, err := app.New(cmd.Cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	target, err := a.Service.Resolve(context.Background(), args[0])
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		fmt.Printf("Invalid short URL: '%s' was not found\n", args[0])
		os.Exit(1)
	case errors.Is(err, apperrors.ErrExpired):
		fmt.Printf("Link expired: '%s' is no longer valid\n", args[0])
		os.Exit(1)
	case err != nil:
		fmt.Printf("Error resolving '%s': %v\n", args[0], err)
		os.Exit(1)
	}

	fmt.Println(target)
}
