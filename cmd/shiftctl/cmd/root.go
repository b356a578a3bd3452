package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wardshift/backend/internal/config"
	"github.com/wardshift/backend/internal/database"
	"gorm.io/gorm"
)

var db *gorm.DB

var rootCmd = &cobra.Command{
	Use:   "shiftctl",
	Short: "WardShift admin CLI — manage hospital events and users",
	Long: `shiftctl talks directly to the WardShift database for administrative
tasks that don't need the web UI.

  shiftctl events list                  List hospital-wide events
  shiftctl events add --title "..."     Create an event
  shiftctl users promote user@x --role MANAGER`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		var err error
		db, err = database.Connect(cfg.DB)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
