package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"

	bookdocs "recordapi/docs/book"
	"recordapi/internal/app"
)

// @title Book API
// @version 1.0
// @BasePath /
func main() {
	if err := app.Run(app.Book, bookdocs.SwaggerInfo); err != nil {
		log.Fatalf("book-api: %v", err)
	}
}
