package api

import (
	"net/http"

	"organizer/internal/metrics"

	"github.com/gin-gonic/gin"
)

// routes registers every endpoint.
//
//	POST /api/ai-command   - interpret and run one command
//	POST /api/ai-agent     - plan toward a goal, or run approved steps
//	GET  /api/list         - list a folder
//	GET  /api/search       - name search
//	GET  /api/meta         - whole metadata document
//	POST /api/meta         - add a recent and/or patch one item
//	GET  /api/workspaces   - registered workspaces
//	POST /api/workspaces   - create a workspace
//	POST /api/share        - create or reuse a share link
//	GET  /api/share        - resolve a share token
//	GET  /healthz
//	GET  /metrics
func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.svc.ModelAvailable()})
	})
	path := s.cfg.MetricsPath
	if path == "" {
		path = "/metrics"
	}
	s.router.GET(path, gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	api.POST("/ai-command", s.handleCommand)
	api.POST("/ai-agent", s.handleAgent)
	api.GET("/list", s.handleList)
	api.GET("/search", s.handleSearch)
	api.GET("/meta", s.handleGetMeta)
	api.POST("/meta", s.handlePostMeta)
	api.GET("/workspaces", s.handleGetWorkspaces)
	api.POST("/workspaces", s.handleCreateWorkspace)
	api.POST("/share", s.handleCreateShare)
	api.GET("/share", s.handleResolveShare)
}
