package main

import (
	"context"
	"fmt"
	"strings"

	"organizer/internal/organizer"
	"organizer/internal/perception"
	"organizer/internal/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// =============================================================================
// INTERACTIVE SHELL
// =============================================================================

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2).
			Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0")).Italic(true)
)

// commandDoneMsg carries a finished command back to the UI.
type commandDoneMsg struct {
	req  organizer.CommandRequest
	resp *organizer.CommandResponse
	err  error
}

type shellModel struct {
	svc      *organizer.Service
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	blocks  []string
	cwd     string
	pending *organizer.CommandRequest // destructive command awaiting y/n
	busy    bool
	width   int
}

func newShellModel(svc *organizer.Service) shellModel {
	ti := textinput.New()
	ti.Placeholder = `Try "list files", "organize my images", "help" (Ctrl+C to exit)`
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 1024
	ti.Width = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = promptStyle

	vp := viewport.New(80, 20)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	return shellModel{
		svc:      svc,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		renderer: renderer,
		width:    80,
	}
}

func (m shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 3)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text == "" {
				return m, nil
			}
			return m.submit(text)
		}

	case commandDoneMsg:
		m.busy = false
		m.finish(msg)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit handles one line of input.
func (m shellModel) submit(text string) (tea.Model, tea.Cmd) {
	m.blocks = append(m.blocks, echoStyle.Render("> "+text))

	if m.pending != nil {
		req := *m.pending
		m.pending = nil
		switch strings.ToLower(text) {
		case "y", "yes":
			req.Confirmed = true
			return m.run(req)
		default:
			m.blocks = append(m.blocks, mutedStyle.Render("Cancelled."))
			m.refresh()
			return m, nil
		}
	}

	switch strings.ToLower(text) {
	case "exit", "quit":
		return m, tea.Quit
	case "help", "?":
		m.blocks = append(m.blocks, m.markdown("# Actions\n\n"+perception.ActionCatalogueMarkdown()))
		m.refresh()
		return m, nil
	}
	return m.run(organizer.CommandRequest{Query: text, CurrentPath: m.cwd})
}

func (m shellModel) run(req organizer.CommandRequest) (tea.Model, tea.Cmd) {
	m.busy = true
	m.refresh()
	svc := m.svc
	exec := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := svc.Command(ctx, req)
		return commandDoneMsg{req: req, resp: resp, err: err}
	}
	return m, tea.Batch(exec, m.spinner.Tick)
}

// finish records a command outcome.
func (m *shellModel) finish(msg commandDoneMsg) {
	switch {
	case msg.err != nil:
		m.blocks = append(m.blocks, errStyle.Render("Error: ")+msg.err.Error())
	case msg.resp.RequiresConfirm:
		req := msg.req
		req.Actions = msg.resp.Actions
		m.pending = &req
		m.blocks = append(m.blocks, renderHold(msg.resp.Actions)+warnStyle.Render("Apply? (y/n)"))
	default:
		r := msg.resp.Result
		m.blocks = append(m.blocks, strings.TrimRight(renderResult(r), "\n"))
		m.follow(r)
	}
}

// follow moves the shell's current folder after a navigate.
func (m *shellModel) follow(r *types.Result) {
	if r == nil {
		return
	}
	if len(r.Steps) > 0 {
		for i := len(r.Steps) - 1; i >= 0; i-- {
			if s := r.Steps[i].Result; s != nil && s.Action == types.ActionNavigate {
				m.cwd = s.Path
				return
			}
		}
		return
	}
	if r.Action == types.ActionNavigate && r.Success {
		m.cwd = r.Path
	}
}

func (m shellModel) markdown(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func (m *shellModel) refresh() {
	m.viewport.SetContent(strings.Join(m.blocks, "\n\n"))
	m.viewport.GotoBottom()
}

func (m shellModel) View() string {
	model := "matchers only"
	if m.svc != nil && m.svc.ModelAvailable() {
		model = "model on"
	}
	header := headerStyle.Render(fmt.Sprintf("organizer  %s  [%s]", displayPath(m.cwd), model))

	footer := m.input.View()
	if m.busy {
		footer = m.spinner.View() + " working..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive command shell",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	svc, err := openService(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()
	if err := svc.Watch(cmd.Context()); err != nil {
		return err
	}

	p := tea.NewProgram(newShellModel(svc), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
