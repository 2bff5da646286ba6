package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/agent-console/internal/config"
)

func main() {
	dir := flag.String("config", ".", "directory containing config.toml")
	flag.Parse()

	cfg, err := config.Load(*dir)
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("server init failed: ", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatal("server start failed: ", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed: ", err)
	}

	log.Println("server stopped gracefully")
}
