package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/studystack/paperdex/gin"
)

var webCmd = cobra.Command{
	Use:   "web",
	Short: "Start the paperdex web server",
	Run: func(cmd *cobra.Command, args []string) {
		handler, err := gin.New(
			paperStore,
			paperIndex,
			userDataStore,
			executor,
			parser,
			resultCache,
			logger,
		)
		if err != nil {
			logger.Fatal("could not create server:", err)
		}

		addr := config.HTTP.Addr
		if addr == "" {
			addr = ":1705"
		}

		logger.Print("server started, listening on ", addr)
		logger.Fatal(http.ListenAndServe(addr, handler))
	},
}
