package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "picstash-cli",
	Short: "Picstash CLI",
	Long:  `Picstash CLI to perform system and admin operations`,
}

func main() {
	initMigrateCmd()

	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
