package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
	}

	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "pages"))
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// ParseTemplates loads every page and partial template under pagesDir.
func ParseTemplates(pagesDir string) (*template.Template, error) {
	templates, err := template.ParseGlob(filepath.Join(pagesDir, "*.html"))
	if err != nil {
		return nil, err
	}
	if _, err := templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")); err != nil {
		return nil, err
	}
	return templates, nil
}

// StaticHandler serves files under pages/static.
type StaticHandler struct {
	staticDir string
}

// NewStaticHandler creates a handler for the static directory inside pagesDir.
func NewStaticHandler(pagesDir string) *StaticHandler {
	return &StaticHandler{staticDir: filepath.Join(pagesDir, "static")}
}

// ServeHTTP serves /static/<path>.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/static/")
	fullPath := filepath.Join(h.staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(h.staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if absFullPath != absStaticDir && !strings.HasPrefix(absFullPath, absStaticDir+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(absFullPath)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, absFullPath)
}
