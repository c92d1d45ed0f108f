package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/store"
)

func main() {
	// Configuration from environment variables
	httpPort := getEnv("HTTP_PORT", "8080")
	dataDir := getEnv("DATA_DIR", "./data")
	postgresConnStr := os.Getenv("DATABASE_URL")
	checkoutDelay := getEnvDuration("CHECKOUT_DELAY", checkout.DefaultDelay)

	log.Println("[Storefront] ========================================")
	log.Println("[Storefront] Storefront")
	log.Println("[Storefront] ========================================")

	// Select the persistence backend
	var kv store.KV
	if postgresConnStr != "" {
		db, err := store.ConnectPostgres(postgresConnStr)
		if err != nil {
			log.Fatalf("[Storefront] Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		kv, err = store.NewPostgresKV(db)
		if err != nil {
			log.Fatalf("[Storefront] Failed to initialize PostgreSQL storage: %v", err)
		}
		log.Println("[Storefront] Storage: PostgreSQL")
	} else {
		fileKV, err := store.NewFileKV(dataDir)
		if err != nil {
			log.Fatalf("[Storefront] Failed to initialize file storage: %v", err)
		}
		kv = fileKV
		log.Printf("[Storefront] Storage: files under %s", dataDir)
	}

	// Initialize stores
	catalogStore := catalog.NewStore(kv)
	cartStore := cart.NewStore(kv)
	orderStore := order.NewStore(kv)
	checkoutSvc := checkout.NewService(cartStore, orderStore, checkoutDelay)

	// Initialize API
	handlers := api.NewHandlers(catalogStore, cartStore, orderStore, checkoutSvc)
	router := api.NewRouter(handlers)

	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}

	go func() {
		log.Printf("[Storefront] Server started on :%s", httpPort)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Storefront] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Storefront] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Storefront] Shutdown error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[Storefront] Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
