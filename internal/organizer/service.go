// Package organizer wires the command pipeline together: text is
// interpreted into canonical actions, held for confirmation when
// destructive, and executed against the workspace.
package organizer

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"organizer/internal/config"
	"organizer/internal/executor"
	"organizer/internal/fsops"
	"organizer/internal/logging"
	"organizer/internal/metastore"
	"organizer/internal/perception"
	"organizer/internal/resolver"
	"organizer/internal/sandbox"
	"organizer/internal/smart"
	"organizer/internal/types"

	"go.uber.org/zap"
)

// Service is the assembled pipeline for one workspace.
type Service struct {
	cfg        *config.Config
	ws         *fsops.Workspace
	store      metastore.Store
	meta       *metastore.Meta
	client     perception.LLMClient
	transducer *perception.Transducer
	planner    *perception.Planner
	helper     *smart.Helper
	exec       *executor.Executor
}

type options struct {
	client    perception.LLMClient
	clientSet bool
	fs        fsops.FS
}

// Option customizes New.
type Option func(*options)

// WithClient uses client instead of building one from the config. A nil
// client runs the pipeline on matchers alone.
func WithClient(client perception.LLMClient) Option {
	return func(o *options) {
		o.client = client
		o.clientSet = true
	}
}

// WithFS replaces the local filesystem primitives.
func WithFS(fsys fsops.FS) Option {
	return func(o *options) { o.fs = fsys }
}

// New builds the pipeline described by cfg. The workspace root is created
// if missing.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.Get(logging.CategoryBoot)

	if err := os.MkdirAll(cfg.Workspace.Root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}
	guard, err := sandbox.New(cfg.Workspace.Root)
	if err != nil {
		return nil, err
	}
	ws := fsops.NewWorkspace(guard, o.fs, cfg.Limits.WalkParallelism)

	store, err := metastore.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata store: %w", err)
	}

	client := o.client
	if !o.clientSet {
		client, err = perception.NewClientFromConfig(ctx, cfg)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to create model client: %w", err)
		}
	}

	s := &Service{
		cfg:    cfg,
		ws:     ws,
		store:  store,
		meta:   metastore.NewMeta(store),
		client: client,
	}
	var parser *perception.IntentParser
	if client != nil {
		parser = perception.NewIntentParser(client)
		s.planner = perception.NewPlanner(client)
		s.helper = smart.New(client, ws, cfg.Limits)
	}
	s.transducer = perception.NewTransducer(resolver.New(ws), parser, ws)
	s.exec = executor.New(ws, s.meta, s.helper, cfg.Limits)

	log.Info("organizer ready",
		zap.String("root", guard.Root()),
		zap.String("meta_backend", cfg.Workspace.MetaBackend),
		zap.Bool("model", client != nil))
	return s, nil
}

// Watch starts invalidating cached listings on external changes.
func (s *Service) Watch(ctx context.Context) error {
	return s.ws.EnableWatch(ctx)
}

// Close stops the watcher and closes the metadata store.
func (s *Service) Close() error {
	s.ws.Close()
	return s.store.Close()
}

// Executor exposes the action executor.
func (s *Service) Executor() *executor.Executor { return s.exec }

// Meta exposes the sidecar metadata.
func (s *Service) Meta() *metastore.Meta { return s.meta }

// ModelAvailable reports whether a language model is configured.
func (s *Service) ModelAvailable() bool { return s.client != nil }

// =============================================================================
// COMMANDS
// =============================================================================

// CommandRequest is one natural-language command. A confirmation of a held
// command carries the held Actions back with Confirmed set; Query is then
// informational only.
type CommandRequest struct {
	Query       string                  `json:"query"`
	CurrentPath string                  `json:"currentPath"`
	Confirmed   bool                    `json:"confirmed"`
	Actions     []types.CanonicalAction `json:"actions,omitempty"`
}

// CommandResponse is the outcome of a command. When RequiresConfirm is set
// nothing was executed; resend Actions with Confirmed to run them.
type CommandResponse struct {
	Actions         []types.CanonicalAction `json:"actions"`
	Source          perception.Source       `json:"source"`
	Rule            string                  `json:"rule,omitempty"`
	RequiresConfirm bool                    `json:"requiresConfirm,omitempty"`
	Result          *types.Result           `json:"result,omitempty"`
}

// Command interprets and runs req. Multi-step actions abort on the first
// failing step.
func (s *Service) Command(ctx context.Context, req CommandRequest) (*CommandResponse, error) {
	if logging.RequestID(ctx) == "" {
		ctx = logging.WithRequestID(ctx, logging.NewRequestID())
	}
	current := sandbox.Clean(req.CurrentPath)
	logging.Audit(ctx, logging.AuditCommandStart, "", current, nil, zap.String("query", req.Query))

	if req.Confirmed || len(req.Actions) > 0 {
		return s.runConfirmed(ctx, req, current)
	}

	interp, err := s.transducer.Interpret(ctx, perception.Request{Text: req.Query, Current: current})
	if err != nil {
		return nil, err
	}
	actions, hold := executor.Confirm(interp.Actions)
	resp := &CommandResponse{Actions: actions, Source: interp.Source, Rule: interp.Rule}

	if hold {
		resp.RequiresConfirm = true
		logging.Audit(ctx, logging.AuditConfirmHold, string(actions[0].Action), current, nil,
			zap.Int("actions", len(actions)))
		return resp, nil
	}

	res, err := s.exec.RunPlan(ctx, actions, current)
	if err != nil {
		return nil, err
	}
	if interp.Fallback {
		res.Fallback = true
		res.Message = interp.Message
	}
	resp.Result = res
	return resp, nil
}

// runConfirmed executes the actions a held response returned, exactly as
// sent. The query is not interpreted again, so a nondeterministic model
// cannot swap the approved plan for another one.
func (s *Service) runConfirmed(ctx context.Context, req CommandRequest, current string) (*CommandResponse, error) {
	if !req.Confirmed {
		return nil, types.InvalidArgument("command", "actions are only accepted with confirmed set")
	}
	if len(req.Actions) == 0 {
		return nil, types.InvalidArgument("command", "confirmed request must carry the held actions")
	}
	actions, _ := executor.Confirm(req.Actions)
	res, err := s.exec.RunPlan(ctx, actions, current)
	if err != nil {
		return nil, err
	}
	return &CommandResponse{Actions: actions, Source: perception.SourceApproved, Result: res}, nil
}

// Plan asks the model for steps toward goal. Nothing is executed.
func (s *Service) Plan(ctx context.Context, goal, current string) (*perception.Plan, error) {
	if s.planner == nil {
		return nil, smart.ErrNoModel
	}
	current = sandbox.Clean(current)
	listing, err := s.ws.List(ctx, current)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(ctx, goal, current, listing)
}

// ExecuteApproved runs steps the user approved. Each step's failure is
// recorded on that step and the rest still run.
func (s *Service) ExecuteApproved(ctx context.Context, steps []types.CanonicalAction, current string) *types.Result {
	return s.exec.RunApproved(ctx, steps, sandbox.Clean(current))
}

// =============================================================================
// DIRECT OPERATIONS
// =============================================================================

// List runs the list action on dir.
func (s *Service) List(ctx context.Context, dir string) (*types.Result, error) {
	return s.exec.Execute(ctx, types.ActionList, types.Params{"path": dir}, "")
}

// Search runs a name search across the workspace.
func (s *Service) Search(ctx context.Context, query string) (*types.Result, error) {
	return s.exec.Execute(ctx, types.ActionSearch, types.Params{"query": query}, "")
}

// WorkspaceList is the registry view of top-level workspaces.
type WorkspaceList struct {
	DiskLabel  string   `json:"diskLabel"`
	Workspaces []string `json:"workspaces"`
}

var workspaceName = regexp.MustCompile(`^[^/\\<>:"|?*]+$`)

// Workspaces lists registered workspaces that still exist as top-level
// folders.
func (s *Service) Workspaces(ctx context.Context) (*WorkspaceList, error) {
	names, err := s.meta.Workspaces(ctx, func(name string) bool {
		fi, err := s.ws.Stat(ctx, name)
		return err == nil && fi.IsDir
	})
	if err != nil {
		return nil, err
	}
	return &WorkspaceList{DiskLabel: s.cfg.Workspace.DiskLabel, Workspaces: names}, nil
}

// CreateWorkspace creates and registers a top-level folder.
func (s *Service) CreateWorkspace(ctx context.Context, name string) (*WorkspaceList, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || !workspaceName.MatchString(name) {
		return nil, types.InvalidArgument("workspace", "invalid workspace name %q", name)
	}
	if s.ws.Exists(ctx, name) {
		return nil, types.InvalidArgument("workspace", "Workspace already exists")
	}
	if err := s.ws.Mkdir(ctx, name, false); err != nil {
		return nil, err
	}
	if err := s.meta.RegisterWorkspace(ctx, name); err != nil {
		return nil, err
	}
	return s.Workspaces(ctx)
}

// Metadata returns the whole sidecar document.
func (s *Service) Metadata(ctx context.Context) (*metastore.Sidecar, error) {
	return s.meta.Snapshot(ctx)
}

// MetaUpdate records a recent and/or patches one item's metadata.
type MetaUpdate struct {
	Path   string
	Recent bool
	Patch  *metastore.ItemPatch
}

// UpdateMeta applies u and returns the resulting document.
func (s *Service) UpdateMeta(ctx context.Context, u MetaUpdate) (*metastore.Sidecar, error) {
	path := sandbox.Clean(u.Path)
	if path == "" && (u.Recent || u.Patch != nil) {
		return nil, types.InvalidArgument("meta", "path required")
	}
	if u.Recent {
		if err := s.meta.AddRecent(ctx, path); err != nil {
			return nil, err
		}
	}
	if u.Patch != nil {
		return s.meta.Patch(ctx, path, *u.Patch)
	}
	return s.meta.Snapshot(ctx)
}

// SharedItem is what a share token resolves to.
type SharedItem struct {
	Path   string `json:"path"`
	IsFile bool   `json:"isFile"`
}

// Share returns the share link for an existing path.
func (s *Service) Share(ctx context.Context, path string) (metastore.ShareLink, error) {
	path = sandbox.Clean(path)
	if path == "" {
		return metastore.ShareLink{}, types.InvalidArgument("share", "path required")
	}
	if _, err := s.ws.Stat(ctx, path); err != nil {
		return metastore.ShareLink{}, err
	}
	return s.meta.CreateShareLink(ctx, path)
}

// Shared resolves a share token to an existing item.
func (s *Service) Shared(ctx context.Context, token string) (*SharedItem, error) {
	path, err := s.meta.LookupShareLink(ctx, token)
	if err != nil {
		return nil, err
	}
	fi, err := s.ws.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SharedItem{Path: path, IsFile: !fi.IsDir}, nil
}

// SuggestTags asks the model for tags for a file.
func (s *Service) SuggestTags(ctx context.Context, path string) ([]string, error) {
	e, err := s.entry(ctx, path)
	if err != nil {
		return nil, err
	}
	if s.helper == nil {
		return nil, smart.ErrNoModel
	}
	return s.helper.SuggestTags(ctx, e)
}

// SuggestComment asks the model for a one-line comment for a file.
func (s *Service) SuggestComment(ctx context.Context, path string) (string, error) {
	e, err := s.entry(ctx, path)
	if err != nil {
		return "", err
	}
	if s.helper == nil {
		return "", smart.ErrNoModel
	}
	return s.helper.SuggestComment(ctx, e)
}

func (s *Service) entry(ctx context.Context, path string) (types.DirectoryEntry, error) {
	path = sandbox.Clean(path)
	if path == "" {
		return types.DirectoryEntry{}, types.InvalidArgument("suggest", "path required")
	}
	fi, err := s.ws.Stat(ctx, path)
	if err != nil {
		return types.DirectoryEntry{}, err
	}
	mod := fi.ModTime
	e := types.DirectoryEntry{Name: types.BaseName(path), Path: path, Type: types.EntryFile, Size: fi.Size, ModifiedAt: &mod}
	if fi.IsDir {
		e.Type, e.Size = types.EntryDirectory, 0
	}
	return e, nil
}
