package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// resolvePackPath resolves a sticker pack path relative to a registered root
// and enforces that the resulting absolute path is contained within it.
func (s *Server) resolvePackPath(rootPath, pack string) (string, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return "", fmt.Errorf("invalid sticker root: %w", err)
	}
	absRoot = filepath.Clean(absRoot)

	absPack, err := filepath.Abs(filepath.Join(absRoot, pack))
	if err != nil {
		return "", fmt.Errorf("invalid pack path: %w", err)
	}
	absPack = filepath.Clean(absPack)

	if absPack != absRoot && !strings.HasPrefix(absPack, absRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return absPack, nil
}

// handleStickers routes local sticker pack requests.
// Path format: /stickers/{root}/{pack} lists a pack,
// /stickers/{root}/{pack}/{filename} serves one asset.
func (s *Server) handleStickers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/stickers/")
	parts := strings.Split(path, "/")

	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	root := parts[0]
	pack := parts[1]

	if pack == "." || pack == ".." || strings.ContainsAny(pack, `/\`) {
		http.Error(w, "Invalid pack name", http.StatusBadRequest)
		return
	}

	rootPath, ok := s.stickerRoots[root]
	if !ok {
		http.Error(w, "Sticker root not found", http.StatusNotFound)
		return
	}

	packPath, err := s.resolvePackPath(rootPath, pack)
	if err != nil {
		http.Error(w, "Invalid pack path", http.StatusBadRequest)
		return
	}

	if len(parts) == 2 {
		s.handleStickerListing(w, r, root, pack, packPath)
		return
	}
	s.handleStickerAsset(w, r, packPath, parts[2])
}

func (s *Server) handleStickerListing(w http.ResponseWriter, r *http.Request, root, pack, packPath string) {
	entries, err := os.ReadDir(packPath)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "Pack not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to read pack", http.StatusInternalServerError)
		return
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".webp" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	type stickerAsset struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	out := make([]stickerAsset, 0, len(names))
	for _, name := range names {
		out = append(out, stickerAsset{
			ID:  strings.TrimSuffix(name, filepath.Ext(name)),
			URL: fmt.Sprintf("%s://%s/stickers/%s/%s/%s", scheme, r.Host, root, pack, name),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleStickerAsset(w http.ResponseWriter, r *http.Request, packPath, filename string) {
	// A single path component only, no traversal.
	if filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	}

	fullPath := filepath.Join(packPath, filename)
	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		http.Error(w, "Invalid asset path", http.StatusBadRequest)
		return
	}
	if !strings.HasPrefix(filepath.Clean(absFullPath), packPath+string(os.PathSeparator)) {
		http.Error(w, "Invalid asset path", http.StatusBadRequest)
		return
	}

	http.ServeFile(w, r, absFullPath)
}
