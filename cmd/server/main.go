package main

import (
	"fmt"
	"log"

	"github.com/ridwanfathin/invoice-builder-service/internal/capture"
	"github.com/ridwanfathin/invoice-builder-service/internal/config"
	"github.com/ridwanfathin/invoice-builder-service/internal/export"
	"github.com/ridwanfathin/invoice-builder-service/internal/handler"
	"github.com/ridwanfathin/invoice-builder-service/internal/hfclient"
	"github.com/ridwanfathin/invoice-builder-service/internal/render"
	"github.com/ridwanfathin/invoice-builder-service/internal/repository"
	"github.com/ridwanfathin/invoice-builder-service/internal/server"
	"github.com/ridwanfathin/invoice-builder-service/internal/service"
	"github.com/ridwanfathin/invoice-builder-service/internal/session"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create the document renderer
	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	// Create the export pipeline around a headless Chrome capture engine
	log.Println("Creating export pipeline...")
	engine := capture.NewChromeEngine(cfg.CaptureSettleDelay)
	pipeline := export.NewPipeline(engine, cfg.MaxExportWorkers)

	// Create the form session controller with a fresh sample document
	controller := session.NewController()

	// Create builder service
	builderService := service.NewBuilderService(controller, renderer, pipeline)

	// Initialize export artifact repository
	log.Println("Initializing export repository...")
	repo, err := repository.NewFileExportRepository(cfg.ExportDir)
	if err != nil {
		log.Fatalf("Failed to initialize export repository: %v", err)
	}
	builderService.SetRepository(repo)

	// Initialize Hugging Face client for image generation
	hfClient := hfclient.NewClient(&hfclient.Config{
		APIKey:  cfg.HFAPIKey,
		ModelID: cfg.HFModelID,
		Timeout: cfg.HFTimeout,
	})
	imageService := service.NewImageGenerationService(hfClient)

	// Create handlers
	invoiceHandler := handler.NewInvoiceHandler(builderService)
	imageHandler := handler.NewImageHandler(imageService)

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)
	appServer.SetInvoiceHandler(invoiceHandler)
	appServer.SetImageHandler(imageHandler)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
