package main

import (
	"github.com/spf13/cobra"
)

var indexCmd = cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index from the paper store",
	Run: func(cmd *cobra.Command, args []string) {
		papers, err := paperStore.List()
		if err != nil {
			logger.Fatal("could not list papers:", err)
		}

		for _, paper := range papers {
			if err := paperIndex.Index(paper); err != nil {
				logger.Fatal("could not index paper ", paper.ID, ": ", err)
			}
		}

		logger.Printf("%d papers indexed", len(papers))
	},
}
