package main

import (
	"fmt"
	"os"
)

func main() {
	RootCmd.AddCommand(&webCmd)
	RootCmd.AddCommand(&indexCmd)
	RootCmd.AddCommand(&importCmd)
	RootCmd.AddCommand(&searchCmd)

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
