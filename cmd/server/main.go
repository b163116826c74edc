package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"

	"grocery-admin/internal/config"
	"grocery-admin/internal/controller"
	"grocery-admin/internal/rabbit"
	"grocery-admin/internal/router"
	"grocery-admin/internal/service"
	"grocery-admin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(cfg.GinMode)

	// Storage
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Printf("Warning: failed to close storage: %v", err)
		}
	}()
	repos := store.Repos

	// RabbitMQ is optional; without it status events are not published
	var events service.EventPublisher = service.NoopPublisher{}
	var conn *amqp091.Connection
	if cfg.RabbitURL != "" {
		conn, err = amqp091.Dial(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("Gagal terhubung ke RabbitMQ: %v", err)
		}
		defer conn.Close()

		pubCh, err := conn.Channel()
		if err != nil {
			log.Fatalf("Gagal membuat channel RabbitMQ: %v", err)
		}
		pub, err := rabbit.NewPublisher(pubCh)
		if err != nil {
			log.Fatalf("Gagal mendeklarasikan exchange: %v", err)
		}
		events = pub
	} else {
		log.Println("[Rabbit] RABBIT_URL kosong, event tidak dikirim")
	}

	// Services
	orderService := service.NewOrderService(repos.Orders, repos.Users, repos.Catalog, events)
	userService := service.NewUserService(repos.Users, repos.Orders)
	reportService := service.NewReportService(repos.Orders, repos.Users, repos.Catalog)
	catalogService := service.NewCatalogService(repos.Catalog)
	authService := service.NewAuthService(repos.Users, repos.Roles, cfg.JWTSecret, cfg.JWTTTL)

	if conn != nil {
		subCh, err := conn.Channel()
		if err != nil {
			log.Fatalf("Gagal membuat channel RabbitMQ: %v", err)
		}
		if err := rabbit.SetupConsumers(subCh, rabbit.NewPlaceOrderConsumer(orderService)); err != nil {
			log.Fatalf("Gagal menyiapkan consumer: %v", err)
		}
	}

	// Router
	r := router.NewRouter(router.Handlers{
		Auth:    controller.NewAuthController(authService),
		Orders:  controller.NewOrderController(orderService, cfg.DefaultPerPage),
		Users:   controller.NewUserController(userService, cfg.DefaultPerPage),
		Reports: controller.NewReportController(reportService),
		Catalog: controller.NewCatalogController(catalogService, cfg.DefaultPerPage),
	}, authService)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Grocery admin berjalan di port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
