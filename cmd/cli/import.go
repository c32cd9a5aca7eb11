package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/studystack/paperdex"
)

// import loads a JSON dump of raw rows. Dumps from older generations of the
// site use legacy column names; rows are stored as-is and resolved on read.
var importCmd = cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON dump of paper rows",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			logger.Fatal("could not read dump:", err)
		}

		var rows []paperdex.RawPaper
		if err := json.Unmarshal(data, &rows); err != nil {
			logger.Fatal("could not unmarshal dump:", err)
		}

		indexed := 0
		for _, row := range rows {
			id, err := paperStore.ImportRaw(row)
			if err != nil {
				logger.Fatal("could not import row:", err)
			}

			row.ID = id
			paper := row.Resolve()
			if err := paperIndex.Index(&paper); err != nil {
				logger.Errorf("could not index paper %s: %v", id, err)
				continue
			}
			indexed++
		}

		logger.Printf("%d papers imported, %d indexed", len(rows), indexed)
	},
}
