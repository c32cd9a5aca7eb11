package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/studystack/paperdex"
	"github.com/studystack/paperdex/search"
)

var searchPage int

func init() {
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
}

var searchCmd = cobra.Command{
	Use:   "search <query>",
	Short: "Search the past papers from the terminal",
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		searchCtx := parser.Parse(query)
		payload := search.BuildPayload(paperdex.SearchFilters{}, searchCtx, searchPage, pageSize())

		result, err := executor.Execute(context.Background(), payload)
		if err != nil {
			logger.Fatal("search failed:", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SUBJECT\tFILE\tCOURSE\tTYPE\tSEM\tYEAR\tSIZE")
		for _, paper := range result.Papers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
				paper.Subject, paper.FileName, paper.CourseCode, paper.PaperType, paper.Semester, paper.Year,
				paperdex.FormatFileSize(paper.FileSize))
		}
		w.Flush()

		fmt.Printf("%d of %d results in %dms\n", len(result.Papers), result.Total, result.TookMs)
	},
}
