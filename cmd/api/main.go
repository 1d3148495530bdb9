package main

import (
	"flag"
	"io"
	"log"
	"os"

	"gouncertain/adapters/api"
	"gouncertain/internal/container"

	"github.com/gin-gonic/gin"
)

func main() {
	envFile := flag.String("env", ".env", "Optional .env file; missing files are ignored")
	flag.Parse()

	c, err := container.Load(envFileIfPresent(*envFile))
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	gin.SetMode(c.Config.Server.GinMode)
	server := api.NewServer(c.Decisions, c.Config.Sampling.Seed, c.Logger)
	if c.Ledger != nil {
		server.WithLedger(c.Ledger)
	} else {
		c.Logger.Warn("DATABASE_URL not set; decisions are not recorded and history endpoints return 503")
	}

	c.Logger.Info("default seed %d, at most %d concurrent decisions per batch",
		c.Config.Sampling.Seed, c.Config.Sampling.MaxConcurrentDecisions)
	addr := ":" + c.Config.Server.Port
	if err := serve(func() error { return server.Start(addr) }, c); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// serve runs start and always closes res afterwards, so the ledger connection
// is released before the process exits
func serve(start func() error, res io.Closer) error {
	err := start()
	if closeErr := res.Close(); closeErr != nil {
		log.Printf("Failed to close ledger: %v", closeErr)
	}
	return err
}

func envFileIfPresent(path string) string {
	if _, err := os.Stat(path); err != nil {
		log.Printf("No env file at %s, using system environment variables", path)
		return ""
	}
	return path
}
