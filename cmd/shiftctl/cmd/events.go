package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wardshift/backend/internal/models"
)

var (
	flagEventTitle       string
	flagEventDescription string
	flagEventStart       string
	flagEventEnd         string
	flagEventType        string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage hospital-wide events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hospital events",
	RunE: func(cmd *cobra.Command, args []string) error {
		var events []models.HospitalEvent
		if err := db.Order("start_date ASC").Find(&events).Error; err != nil {
			return fmt.Errorf("listing events: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTYPE\tSTART\tEND")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Type, e.Start, e.End)
		}
		return w.Flush()
	},
}

var eventsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a hospital event",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagEventTitle == "" {
			return fmt.Errorf("--title is required")
		}
		for _, d := range []string{flagEventStart, flagEventEnd} {
			if _, err := time.Parse("2006-01-02", d); err != nil {
				return fmt.Errorf("invalid date %q, expected yyyy-MM-dd", d)
			}
		}
		if flagEventEnd < flagEventStart {
			return fmt.Errorf("end date must not precede start date")
		}
		eventType := models.HospitalEventType(flagEventType)
		if !eventType.Valid() {
			return fmt.Errorf("invalid event type %q", flagEventType)
		}

		event := models.HospitalEvent{
			Title: flagEventTitle,
			Start: flagEventStart,
			End:   flagEventEnd,
			Type:  eventType,
		}
		if flagEventDescription != "" {
			event.Description = &flagEventDescription
		}
		if err := db.Create(&event).Error; err != nil {
			return fmt.Errorf("creating event: %w", err)
		}
		fmt.Printf("Created event %s\n", event.ID)
		return nil
	},
}

var eventsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a hospital event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		result := db.Delete(&models.HospitalEvent{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("deleting event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("event %s not found", id)
		}
		fmt.Printf("Deleted event %s\n", id)
		return nil
	},
}

func init() {
	eventsAddCmd.Flags().StringVar(&flagEventTitle, "title", "", "Event title")
	eventsAddCmd.Flags().StringVar(&flagEventDescription, "description", "", "Event description")
	eventsAddCmd.Flags().StringVar(&flagEventStart, "start", "", "Start date (yyyy-MM-dd)")
	eventsAddCmd.Flags().StringVar(&flagEventEnd, "end", "", "End date (yyyy-MM-dd)")
	eventsAddCmd.Flags().StringVar(&flagEventType, "type", string(models.EventOther), "Event type: CONFERENCE, TRAINING, EVENT, OTHER")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsAddCmd)
	eventsCmd.AddCommand(eventsRmCmd)
	rootCmd.AddCommand(eventsCmd)
}
