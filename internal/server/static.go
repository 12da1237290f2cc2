package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// mountStatic serves a prebuilt single-page frontend from staticDir, falling
// back to index.html for client-side routes.
func (s *Server) mountStatic() {
	if s.staticDir == "" {
		s.logger.Debug("static directory not configured; API only mode")
		s.engine.NoRoute(apiNotFound)
		return
	}

	info, err := os.Stat(s.staticDir)
	if err != nil || !info.IsDir() {
		s.logger.Warn("static directory missing", slog.String("path", s.staticDir))
		s.engine.NoRoute(apiNotFound)
		return
	}

	indexPath := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		s.logger.Warn("index.html not found", slog.String("path", indexPath))
		s.engine.NoRoute(apiNotFound)
		return
	}

	s.engine.GET("/", func(c *gin.Context) {
		c.File(indexPath)
	})
	s.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			apiNotFound(c)
			return
		}
		c.File(indexPath)
	})

	assetsDir := filepath.Join(s.staticDir, "assets")
	if _, err := os.Stat(assetsDir); err == nil {
		s.engine.StaticFS("/assets", gin.Dir(assetsDir, false))
	}

	favicon := filepath.Join(s.staticDir, "favicon.ico")
	if _, err := os.Stat(favicon); err == nil {
		s.engine.StaticFile("/favicon.ico", favicon)
	}
}

func apiNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
}
