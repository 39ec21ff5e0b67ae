package main

import (
	"log"

	"github.com/auditlab/invoice-reconciler/internal/cli"
	"github.com/auditlab/invoice-reconciler/internal/infrastructure/config"
)

func main() {
	cfg := config.LoadOrEnv()
	flags := cli.ParseServeFlags(cfg.Server.Port)

	if err := cli.RunServe(cfg, flags); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
