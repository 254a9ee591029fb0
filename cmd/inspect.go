package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/iksnae/msgr/internal"
	"github.com/spf13/cobra"
)

var (
	inspectFormat  string
	inspectPattern string
)

type inspectRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Size  int    `json:"size"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show what msgr keeps in local state",
	Long: `Show the records in the local state database. The saved credential is
redacted.

Examples:
  msgr inspect                      # All records
  msgr inspect --key 'chats%'       # Records matching a SQL LIKE pattern
  msgr inspect --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, _, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := internal.OpenDatabase(paths.StateDB)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		pairs, err := internal.QueryClientKV(db, inspectPattern)
		if err != nil {
			return fmt.Errorf("failed to query state: %w", err)
		}

		records := make([]inspectRecord, 0, len(pairs))
		for _, p := range pairs {
			value := p.Value
			if p.Key == internal.KeyToken {
				value = internal.CredentialFromUserID(value).String()
			}
			records = append(records, inspectRecord{Key: p.Key, Value: value, Size: len(p.Value)})
		}

		switch inspectFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		case "table":
			return printRecords(cmd.OutOrStdout(), paths.StateDB, records)
		default:
			return fmt.Errorf("unsupported format: %s (supported: table, json)", inspectFormat)
		}
	},
}

func printRecords(w io.Writer, dbPath string, records []inspectRecord) error {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d records)", dbPath, len(records))))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range records {
		value := r.Value
		if len(value) > 80 {
			value = value[:77] + "..."
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", titleStyle.Render(r.Key), r.Size, value)
	}
	return tw.Flush()
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "Output format (table, json)")
	inspectCmd.Flags().StringVar(&inspectPattern, "key", "%", "SQL LIKE pattern for keys")
	rootCmd.AddCommand(inspectCmd)
}
