package main

import (
	"log"

	"bookmark-manager/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
