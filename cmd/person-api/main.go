package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"

	persondocs "recordapi/docs/person"
	"recordapi/internal/app"
)

// @title Person API
// @version 1.0
// @BasePath /
func main() {
	if err := app.Run(app.Person, persondocs.SwaggerInfo); err != nil {
		log.Fatalf("person-api: %v", err)
	}
}
