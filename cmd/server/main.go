package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brokerage/internal/config"
	"brokerage/internal/db"
	"brokerage/internal/handlers"
	"brokerage/internal/services"
	"brokerage/internal/storage"
	"brokerage/internal/store"
	"brokerage/internal/websocket"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	profiles := store.NewProfileStore(database)
	inquiries := store.NewInquiryStore(database)
	posts := store.NewBrokerPostStore(database)
	deals := store.NewDealStore(database)
	registrations := store.NewRegistrationStore(database)
	rejections := store.NewRejectionStore(database)
	properties := store.NewPropertyStore(database)
	payments := store.NewPaymentStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	media, err := storage.NewS3Storage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to init media storage: %v", err)
	}

	workflow := services.NewWorkflowService(txRunner, inquiries, posts, deals, registrations, rejections, properties, profiles, hub, cfg.InterviewLead, cfg.DefaultCommission)
	billing := services.NewBillingService(txRunner, profiles, payments, cfg.PaidExtensionDays)

	handler := handlers.New(txRunner, cfg, profiles, inquiries, properties, rejections, workflow, billing, media, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("brokerage API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
