package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/qna-scoring/backend/internal/pairs"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	service, err := pairs.NewService()
	if err != nil {
		log.Fatalf("Failed to initialize scoring service: %v", err)
	}
	handler := pairs.NewHandler(service)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", handler.Health).Methods("GET")
	api.HandleFunc("/verify-connection", handler.VerifyConnection).Methods("GET")
	api.HandleFunc("/pairs/upload", handler.UploadPairs).Methods("POST")
	api.HandleFunc("/pairs/score", handler.ScorePairs).Methods("POST")
	api.HandleFunc("/pairs/filter", handler.FilterPairs).Methods("POST")
	api.HandleFunc("/pairs/export", handler.ExportPairs).Methods("POST")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, c.Handler(r)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
