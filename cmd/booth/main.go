package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ourbooth/booth/asset"
	"github.com/ourbooth/booth/config"
	"github.com/ourbooth/booth/pkg/api"
	"github.com/ourbooth/booth/pkg/composite"
	"github.com/ourbooth/booth/util/log"
)

func main() {
	var addr string
	var stickerDir string
	flag.StringVar(&addr, "addr", "", "listen address (overrides config)")
	flag.StringVar(&stickerDir, "stickers", "", "local sticker pack directory served under /stickers/builtin")
	flag.Parse()

	cfg := config.GetConfig()
	if addr == "" {
		addr = cfg.Addr
	}

	var faces *composite.FaceFinder
	if cfg.FaceCrop {
		faces = composite.NewFaceFinder(cfg.FaceModelPath)
	}

	processor := composite.NewProcessor(cfg.SmartCrop, faces, cfg.EncodingQuality)
	resolver := composite.NewHTTPAssetResolver(cfg)
	compositor := composite.NewCompositor(processor, resolver, asset.NewManager())
	assembler := composite.NewAssembler(processor, nil)

	server := api.NewServer(addr, compositor, assembler)
	if stickerDir != "" {
		server.RegisterStickerRoot("builtin", stickerDir)
	}

	go func() {
		log.Printf("%s render service listening on %s", config.AppName, addr)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	if err := server.Stop(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
