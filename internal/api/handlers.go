package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"organizer/internal/metastore"
	"organizer/internal/organizer"
	"organizer/internal/types"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// COMMANDS
// =============================================================================

func (s *Server) handleCommand(c *gin.Context) {
	var req organizer.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" && len(req.Actions) == 0 {
		badRequest(c, "query required")
		return
	}
	resp, err := s.svc.Command(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgentRequest either asks for a plan or runs approved steps.
type AgentRequest struct {
	Goal        string                  `json:"goal"`
	CurrentPath string                  `json:"currentPath"`
	Execute     bool                    `json:"execute"`
	Steps       []types.CanonicalAction `json:"steps"`
}

func (s *Server) handleAgent(c *gin.Context) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	if req.Execute {
		if len(req.Steps) == 0 {
			badRequest(c, "steps required")
			return
		}
		c.JSON(http.StatusOK, s.svc.ExecuteApproved(ctx, req.Steps, req.CurrentPath))
		return
	}

	if strings.TrimSpace(req.Goal) == "" {
		badRequest(c, "goal required")
		return
	}
	plan, err := s.svc.Plan(ctx, req.Goal, req.CurrentPath)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// =============================================================================
// BROWSING
// =============================================================================

func (s *Server) handleList(c *gin.Context) {
	res, err := s.svc.List(c.Request.Context(), c.Query("path"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		q = c.Query("query")
	}
	res, err := s.svc.Search(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// =============================================================================
// METADATA
// =============================================================================

func (s *Server) handleGetMeta(c *gin.Context) {
	doc, err := s.svc.Metadata(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// metaRequest mirrors the browser client: any "recents" key records path as
// a recent; "meta" patches the item.
type metaRequest struct {
	Path    string               `json:"path"`
	Recents json.RawMessage      `json:"recents"`
	Meta    *metastore.ItemPatch `json:"meta"`
}

func (s *Server) handlePostMeta(c *gin.Context) {
	var req metaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	doc, err := s.svc.UpdateMeta(c.Request.Context(), organizer.MetaUpdate{
		Path:   req.Path,
		Recent: len(req.Recents) > 0 && string(req.Recents) != "null",
		Patch:  req.Meta,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// =============================================================================
// WORKSPACES AND SHARING
// =============================================================================

func (s *Server) handleGetWorkspaces(c *gin.Context) {
	list, err := s.svc.Workspaces(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleCreateWorkspace(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	list, err := s.svc.CreateWorkspace(c.Request.Context(), req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ShareResponse carries a share token and the relative link that opens it.
type ShareResponse struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}

func (s *Server) handleCreateShare(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	link, err := s.svc.Share(c.Request.Context(), req.Path)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ShareResponse{Token: link.Token, Link: "/share/" + link.Token})
}

func (s *Server) handleResolveShare(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		badRequest(c, "missing token")
		return
	}
	item, err := s.svc.Shared(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
