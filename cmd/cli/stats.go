package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/app"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04:05"

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats [short-code]",
	Short: "Get statistics for short URLs",
	Long:  `Without arguments, list every link with its click count. With a short code, show that link's click history.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(c *cobra.Command, args []string) {
	a, err := app.New(cmd.Cfg)
	if err != nil {
		log.Fatalf("Failed to initialise application: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	now := a.Clock.Now()

	if len(args) == 0 {
		printLinks(a.Service.ListStats(ctx), now)
		return
	}

	link, err := a.Service.GetLinkStats(ctx, args[0])
	if err != nil {
		fmt.Printf("Error: Short code '%s' not found\n", args[0])
		os.Exit(1)
	}

	fmt.Printf("Statistiques pour le code court: %s\n", link.Shortcode)
	fmt.Printf("URL longue: %s\n", link.LongURL)
	fmt.Printf("Date de création: %s\n", link.CreatedAt.Local().Format(dateLayout))
	fmt.Printf("Expiration: %s (%s)\n", link.ExpiryDate.Local().Format(dateLayout), status(link, now))
	fmt.Printf("Total de clics: %d\n", link.TotalClicks)

	if len(link.Clicks) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nTIMESTAMP\tSOURCE\tLOCATION")
	for _, click := range link.Clicks {
		fmt.Fprintf(w, "%s\t%s\t%s, %s\n",
			click.Timestamp.Local().Format(dateLayout), click.Source, click.Location.City, click.Location.Country)
	}
	w.Flush()
}

func printLinks(links []models.LinkRecord, now time.Time) {
	if len(links) == 0 {
		fmt.Println("No short URLs created yet.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SHORTCODE\tLONG URL\tCREATED\tEXPIRES\tSTATUS\tCLICKS")
	for i := range links {
		link := &links[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			link.Shortcode,
			link.LongURL,
			link.CreatedAt.Local().Format(dateLayout),
			link.ExpiryDate.Local().Format(dateLayout),
			status(link, now),
			link.TotalClicks)
	}
	w.Flush()
}

func status(link *models.LinkRecord, now time.Time) string {
	if link.IsExpired(now) {
		return "expired"
	}
	return "active"
}
