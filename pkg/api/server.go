package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/ourbooth/booth/pkg/composite"
	"github.com/ourbooth/booth/util"
	"github.com/ourbooth/booth/util/log"
)

// Server is the local REST/WebSocket render service. It owns no render
// state of its own; each request runs through the injected compositor or
// assembler independently.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader
	addr       string

	compositor *composite.Compositor
	assembler  *composite.Assembler

	// WebSocket management
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex

	// Local sticker pack serving
	stickerRoots map[string]string // pack name -> absPath

	renders *util.SafeCounter
	running *util.SafeFlag
}

// NewServer creates a render server bound to addr.
func NewServer(addr string, compositor *composite.Compositor, assembler *composite.Assembler) *Server {
	s := &Server{
		mux:  http.NewServeMux(),
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		compositor:   compositor,
		assembler:    assembler,
		clients:      make(map[*websocket.Conn]bool),
		stickerRoots: make(map[string]string),
		renders:      util.NewSafeInt(),
		running:      util.NewSafeBool(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/presets", s.enableCORS(s.handlePresets))
	s.mux.HandleFunc("/templates", s.enableCORS(s.handleTemplates))
	s.mux.HandleFunc("/compose", s.enableCORS(s.handleCompose))
	s.mux.HandleFunc("/animate", s.enableCORS(s.handleAnimate))
	s.mux.HandleFunc("/stickers/", s.enableCORS(s.handleStickers))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}

// RegisterStickerRoot registers a local directory served under
// /stickers/{name}.
func (s *Server) RegisterStickerRoot(name, path string) {
	s.stickerRoots[name] = path
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Allow browser clients on other origins to reach localhost
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the server.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
	}
	s.running.Set(true)
	defer s.running.Set(false)
	// This is blocking
	return s.httpServer.ListenAndServe()
}

// Running reports whether the server is currently serving.
func (s *Server) Running() bool {
	return s.running.Value()
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// BroadcastRender notifies all connected clients that a render finished.
func (s *Server) BroadcastRender(id string, width, height int) error {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	msg := map[string]interface{}{
		"type":   "render_complete",
		"id":     id,
		"width":  width,
		"height": height,
	}

	for client := range s.clients {
		err := client.WriteJSON(msg)
		if err != nil {
			log.Printf("Failed to broadcast to client: %v", err)
			client.Close()
			delete(s.clients, client)
		}
	}
	return nil
}
