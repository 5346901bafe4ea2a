package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/ourbooth/booth/pkg/composite"
	"github.com/ourbooth/booth/pkg/filter"
	"github.com/ourbooth/booth/pkg/template"
	"github.com/ourbooth/booth/util/log"
)

const serverVersion = "1.0.0"

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "running",
		"version": serverVersion,
		"renders": s.renders.Value(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// presetInfo is the preset catalog entry plus its full-strength CSS filter
// string, so browser clients can wire live previews directly.
type presetInfo struct {
	filter.Preset
	CSS string `json:"css"`
}

// handlePresets lists the filter preset catalog.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	presets := filter.Presets()
	out := make([]presetInfo, 0, len(presets))
	for _, p := range presets {
		out = append(out, presetInfo{
			Preset: p,
			CSS:    filter.ProjectPreview(p.Params, 100).CSS(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleTemplates lists the template catalog.
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(template.Catalog()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCompose renders a static composite and returns it as PNG, with
// render metadata in response headers.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req composite.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := s.compositor.Render(r.Context(), req)
	if err != nil {
		log.Printf("Compose failed: %v", err)
		if errors.Is(err, filter.ErrApply) {
			http.Error(w, filter.ErrApply.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Render failed", http.StatusInternalServerError)
		return
	}

	data, err := s.compositor.Processor().EncodeImage(r.Context(), res.Image, "image/png")
	if err != nil {
		log.Printf("Compose encode failed: %v", err)
		http.Error(w, "Render failed", http.StatusInternalServerError)
		return
	}

	id := uuid.NewString()
	s.renders.Increment()
	if err := s.BroadcastRender(id, res.Width, res.Height); err != nil {
		log.Printf("Broadcast failed: %v", err)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-ID", id)
	w.Header().Set("X-Render-Width", strconv.Itoa(res.Width))
	w.Header().Set("X-Render-Height", strconv.Itoa(res.Height))
	if _, err := w.Write(data); err != nil {
		log.Printf("Compose write failed: %v", err)
	}
}

// animateRequest is the JSON body for /animate.
type animateRequest struct {
	Frames  []string                   `json:"frames"`
	Width   int                        `json:"width"`
	Height  int                        `json:"height"`
	DelayMS int                        `json:"delayMs"`
	Filter  *composite.FilterSelection `json:"filter,omitempty"`
}

// handleAnimate renders an animated sequence and returns it as GIF.
func (s *Server) handleAnimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req animateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		http.Error(w, "width and height are required", http.StatusBadRequest)
		return
	}

	data, err := s.assembler.Assemble(r.Context(), req.Frames, req.Width, req.Height, req.Filter, req.DelayMS)
	if err != nil {
		log.Printf("Animate failed: %v", err)
		switch {
		case errors.Is(err, composite.ErrNoFrames):
			http.Error(w, composite.ErrNoFrames.Error(), http.StatusBadRequest)
		case errors.Is(err, filter.ErrApply):
			http.Error(w, filter.ErrApply.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "Render failed", http.StatusInternalServerError)
		}
		return
	}

	id := uuid.NewString()
	s.renders.Increment()
	if err := s.BroadcastRender(id, req.Width, req.Height); err != nil {
		log.Printf("Broadcast failed: %v", err)
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("X-Render-ID", id)
	w.Header().Set("X-Render-Width", strconv.Itoa(req.Width))
	w.Header().Set("X-Render-Height", strconv.Itoa(req.Height))
	if _, err := w.Write(data); err != nil {
		log.Printf("Animate write failed: %v", err)
	}
}

// handleWebSocket upgrades the connection to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.clientsMu.Lock()
	s.clients[conn] = true
	s.clientsMu.Unlock()

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	for {
		// Read message (keepalive/commands); clients only listen for
		// render events, incoming payloads are ignored.
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
