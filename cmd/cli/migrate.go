package cli

import (
	"fmt"
	"log"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/storage"
	"github.com/spf13/cobra"
)

// MigrateCmd represents the 'migrate' command
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates or updates the SQLite table holding the link slot.",
	Long: `This command connects to the configured SQLite database and executes the
GORM automatic migration for the 'kv_entries' table. Other storage drivers need
no migration.`,
	Run: func(c *cobra.Command, args []string) {
		if cmd.Cfg.Storage.Driver != storage.DriverSQLite {
			fmt.Printf("Storage driver %q needs no migration.\n", cmd.Cfg.Storage.Driver)
			return
		}

		// OpenGormBackend runs AutoMigrate before returning
		backend, err := storage.OpenGormBackend(cmd.Cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		defer backend.Close()

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
