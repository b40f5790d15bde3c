package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/app"
	apperrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/services"
	"github.com/spf13/cobra"
)

var (
	longURLFlag   string
	validityFlag  string
	shortcodeFlag string
)

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crée une URL courte à partir d'une URL longue.",
	Long: `Cette commande raccourcit une URL longue fournie et affiche le code court.

Exemple:
  shortlinks create --url="https://www.google.com/search?q=go+lang" --validity=10 --code=golang`,
	Run: func(c *cobra.Command, args []string) {
		a, err := app.New(cmd.Cfg)
		if err != nil {
			log.Fatalf("Failed to initialise application: %v", err)
		}
		defer a.Close()

		link, err := a.Service.Shorten(context.Background(), services.ShortenRequest{
			LongURL:         longURLFlag,
			Validity:        validityFlag,
			CustomShortcode: shortcodeFlag,
		})
		if err != nil {
			if apperrors.IsValidation(err) {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			log.Fatalf("Failed to create short link: %v", err)
		}

		fmt.Printf("URL courte créée avec succès:\n")
		fmt.Printf("Code: %s\n", link.Shortcode)
		fmt.Printf("URL complète: %s/%s\n", cmd.Cfg.Server.BaseURL, link.Shortcode)
		fmt.Printf("Expire le: %s\n", link.ExpiryDate.Local().Format("2006-01-02 15:04:05"))
	},
}

func init() {
	CreateCmd.Flags().StringVar(&longURLFlag, "url", "", "The long URL to shorten")
	CreateCmd.Flags().StringVar(&validityFlag, "validity", "", "Validity in minutes (default 30)")
	CreateCmd.Flags().StringVar(&shortcodeFlag, "code", "", "Custom alphanumeric shortcode")

	CreateCmd.MarkFlagRequired("url")

	cmd.RootCmd.AddCommand(CreateCmd)
}
