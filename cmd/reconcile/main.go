package main

import (
	"log"

	"github.com/auditlab/invoice-reconciler/internal/cli"
	"github.com/auditlab/invoice-reconciler/internal/infrastructure/config"
)

func main() {
	cfg := config.LoadOrEnv()
	flags := cli.ParseReconcileFlags(cfg.Recon)

	if err := cli.RunReconcile(cfg, flags); err != nil {
		log.Fatalf("reconcile: %v", err)
	}
}
