package main

import (
	"log"
	"os"

	"github.com/salsa-engine/salsa/internal/assistant"
	"github.com/salsa-engine/salsa/internal/httpapi"
	"github.com/salsa-engine/salsa/internal/store"
)

func main() {
	dbPath := os.Getenv("SALSA_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/salsa.db"
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	asst := assistant.New(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := httpapi.NewServer(st, asst)
	log.Printf("Starting server on port %s", port)
	if err := server.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
