package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/contact"
	"github.com/ziadkadry99/folio/internal/db"
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Inspect contact form submissions",
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submissions kept in the contact inbox",
	RunE:  runContactList,
}

func init() {
	contactListCmd.Flags().Int("limit", 20, "maximum submissions to show (0 for all)")
	contactCmd.AddCommand(contactListCmd)
	rootCmd.AddCommand(contactCmd)
}

func runContactList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Contact.Inbox == "" {
		return fmt.Errorf("contact.inbox is not configured")
	}
	if _, err := os.Stat(cfg.Contact.Inbox); err != nil {
		return fmt.Errorf("contact inbox %s: %w", cfg.Contact.Inbox, err)
	}

	database, err := db.Open(cfg.Contact.Inbox)
	if err != nil {
		return err
	}
	defer database.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := contact.NewStore(database).List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No submissions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIVED\tNAME\tEMAIL\tFORWARDED\tFIELDS")
	for _, r := range records {
		keys := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var fields string
		for i, k := range keys {
			if i > 0 {
				fields += " "
			}
			fields += fmt.Sprintf("%s=%q", k, r.Fields[k])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			r.ReceivedAt.Local().Format("2006-01-02 15:04"), r.Name, r.Email, r.Forwarded, fields)
	}
	return w.Flush()
}
