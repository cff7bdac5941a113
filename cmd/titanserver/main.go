package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/titan-aas/titan-go-components/internal/common"
	"github.com/titan-aas/titan-go-components/internal/core"
)

func runServer(ctx context.Context, configPath string, databaseSchema string) error {
	log.Default().Println("Loading Titan-AAS Repository Service...")
	log.Default().Println("Config Path:", configPath)
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	common.PrintConfiguration(config)

	db, err := common.InitializeDatabase(config.Postgres, databaseSchema)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	c, err := core.New(ctx, config, db)
	if err != nil {
		return fmt.Errorf("assemble core: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	common.AddCors(r, config)
	common.AddHealthEndpoint(r, config)
	if config.Server.ContextPath != "" {
		r.Route(config.Server.ContextPath, c.Mount)
	} else {
		c.Mount(r)
	}

	c.Start(ctx)

	addr := "0.0.0.0:" + fmt.Sprintf("%d", config.Server.Port)
	server := &http.Server{Addr: addr, Handler: r}
	log.Printf("▶️  Titan-AAS Repository listening on %s\n", addr)
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	c.Stop(shutdownCtx)
	return nil
}

func main() {
	configPath := ""
	databaseSchema := ""
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&databaseSchema, "databaseSchema", "", "Path to Database Schema")
	flag.Parse()

	if databaseSchema != "" {
		_, fileError := os.ReadFile(databaseSchema)
		if fileError != nil {
			fmt.Println("The specified database schema path is invalid or the file was not found.")
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runServer(ctx, configPath, databaseSchema); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
