package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/lukas-hzb/geometa/internal/server"
)

var classifyReq server.ClassifyRequest

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single meta and print the result as JSON",
	Long:  "Runs the scope, tags and title classifiers on one ad-hoc record and reports which rule decided each value.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if classifyReq.Description == "" && classifyReq.Title == "" {
			return eris.New("classify: --description or --title is required")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return eris.Wrap(enc.Encode(server.Classify(classifyReq)), "classify: encode")
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyReq.Description, "description", "", "meta description")
	classifyCmd.Flags().StringVar(&classifyReq.Title, "title", "", "existing title; a title is synthesized when empty")
	classifyCmd.Flags().StringVar(&classifyReq.Note, "note", "", "meta note")
	classifyCmd.Flags().StringVar(&classifyReq.Section, "section", "", `workflow section, e.g. "Step 2"`)
	classifyCmd.Flags().StringVar(&classifyReq.Country, "country", "", "country the meta belongs to")
	rootCmd.AddCommand(classifyCmd)
}
