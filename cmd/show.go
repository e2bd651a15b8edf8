package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/blogdeck/internal/blog"
	"github.com/ziadkadry99/blogdeck/internal/posts"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if err := checkFormat(format); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		id := args[0]
		store := newStore(ctx, cfg)
		d, err := blog.New(store, blogOptions(cfg)).Post(ctx, id)
		if err != nil {
			return err
		}

		withBody, _ := cmd.Flags().GetBool("body")
		var body string
		if withBody {
			doc, err := store.LoadDocument(ctx, id)
			if err != nil {
				return err
			}
			body = doc.Body
		}

		out := cmd.OutOrStdout()
		if format == "json" {
			return writeJSON(out, struct {
				*posts.Detail
				Body string `json:"body,omitempty"`
			}{d, body})
		}

		fmt.Fprintf(out, "%s\n", d.Title)
		fmt.Fprintf(out, "%s · %s\n\n", d.Date, d.Category)
		if withBody {
			fmt.Fprintln(out, body)
		} else {
			fmt.Fprintln(out, d.Excerpt)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("body", false, "print the full markdown body instead of the excerpt")
	showCmd.Flags().String("format", "text", "output format: text or json")
	rootCmd.AddCommand(showCmd)
}
