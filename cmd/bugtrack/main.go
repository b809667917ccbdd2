package main

import (
	"log"

	"github.com/MrSnakeDoc/bugtrack/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ bugtrack failed to start: %v", err)
	}
}
