package main

import (
	"log"
	"os"

	"github.com/jdollar/boxview/internal/commands"
)

func main() {
	app := commands.NewApp()

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
