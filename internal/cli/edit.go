package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tabula/pkg/board"
	"tabula/pkg/canvas"
	"tabula/pkg/store"
)

// frameInterval is how often the editor pumps the commit coordinator and
// redraws while idle.
const frameInterval = 50 * time.Millisecond

// initialZoom maps the world scale (sized for pixel displays) onto terminal
// cells: a default sticky note lands at roughly 20×15 cells.
const initialZoom = 0.125

// editCommand creates the edit command opening the full-screen board editor.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <board>",
		Short: "Open a board in the full-screen editor",
		Long: `Edit opens a board in a full-screen terminal editor with mouse support.

Mouse:
  left drag           move items (dragging a frame carries its children)
  drag a ◆ handle     resize the selected item
  wheel               zoom at the cursor
  drag empty space    pan
  right/middle drag   pan

Keys:
  v/s/o/f/t/l/c/d     tools: select, sticky, shape, frame, text, line, connector, draw
  e                   edit the selected item's text (enter commits, esc cancels)
  x, del              delete the selected item
  [ / ]               send to back / bring to front
  arrows              pan
  + / -               zoom at the center
  y / p               copy text / paste as a sticky note
  esc                 cancel gesture, clear selection
  q                   quit (after flushing pending saves)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runEdit loads the board and hands the terminal to bubbletea.
func (c *CLI) runEdit(ctx context.Context, boardID string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.ListItems(ctx, boardID)
	if err != nil {
		return err
	}
	doc, err := board.Load(boardID, items)
	if err != nil {
		return err
	}
	logger.Debug("board loaded", "board", boardID, "items", doc.Len())

	engine := canvas.NewEngine(doc, st,
		canvas.WithLogger(logger),
		canvas.WithLimits(cfg.Limits()),
	)

	m := newEditorModel(ctx, engine, boardID)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(editorModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// ====== Model ======

// tickMsg drives the frame loop.
type tickMsg time.Time

// editorModel is the bubbletea model wrapping the canvas engine.
type editorModel struct {
	ctx     context.Context
	engine  *canvas.Engine
	boardID string

	input  textinput.Model
	width  int
	height int
	zoomed bool // initial zoom applied

	panFrom *[2]int // right/middle-drag pan anchor
	status  string  // transient status line message
	err     error
}

func newEditorModel(ctx context.Context, engine *canvas.Engine, boardID string) editorModel {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 512
	return editorModel{
		ctx:     ctx,
		engine:  engine,
		boardID: boardID,
		input:   input,
	}
}

func (m editorModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if n := m.engine.Pump(); n > 0 {
			m.status = fmt.Sprintf("%d change(s) rolled back: save failed", n)
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.engine.SetScreenSize(float64(msg.Width), float64(msg.Height-1))
		if !m.zoomed {
			m.zoomed = true
			m.engine.ZoomAt(float64(msg.Width)/2, float64(msg.Height-1)/2, initialZoom)
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg), nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

// updateMouse routes mouse events into the engine.
func (m editorModel) updateMouse(msg tea.MouseMsg) editorModel {
	x, y := float64(msg.X), float64(msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.engine.Wheel(x, y, 1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.engine.Wheel(x, y, -1)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.syncEditorCommit()
		m.engine.PointerDown(m.ctx, x, y)
		m.syncEditorOpen()
	case msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft:
		m.engine.PointerUp(m.ctx, x, y)

	case msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonRight || msg.Button == tea.MouseButtonMiddle):
		m.panFrom = &[2]int{msg.X, msg.Y}
	case msg.Action == tea.MouseActionRelease:
		m.panFrom = nil

	case msg.Action == tea.MouseActionMotion:
		if m.panFrom != nil {
			m.engine.PanBy(x-float64(m.panFrom[0]), y-float64(m.panFrom[1]))
			m.panFrom = &[2]int{msg.X, msg.Y}
		} else {
			m.engine.PointerMove(x, y)
		}
	}
	return m
}

// updateKey routes key events: the open editor swallows everything except
// enter and esc.
func (m editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.engine.Editing() {
		switch msg.String() {
		case "enter":
			m.engine.SetEditDraft(m.input.Value())
			m.engine.CommitEdit(m.ctx)
			m.input.Blur()
			return m, nil
		case "esc":
			m.engine.CancelEdit()
			m.input.Blur()
			return m, nil
		case "ctrl+c":
			return m.quit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.engine.SetEditDraft(m.input.Value())
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()
	case "esc":
		m.engine.CancelGesture()
		m.engine.ClearSelection()
	case "v":
		m.engine.SetTool(canvas.ToolSelect)
	case "s":
		m.engine.SetTool(canvas.ToolStickyNote)
	case "o":
		m.engine.SetTool(canvas.ToolShape)
	case "f":
		m.engine.SetTool(canvas.ToolFrame)
	case "t":
		m.engine.SetTool(canvas.ToolText)
	case "l":
		m.engine.SetTool(canvas.ToolLine)
	case "c":
		m.engine.SetTool(canvas.ToolConnector)
	case "d":
		m.engine.SetTool(canvas.ToolFreehand)
	case "e":
		if m.engine.BeginEdit() {
			m.syncEditorOpen()
		}
	case "x", "delete", "backspace":
		if err := m.engine.DeleteSelected(m.ctx); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
		}
	case "[":
		if err := m.engine.SendToBack(m.ctx); err != nil {
			m.status = fmt.Sprintf("z-order failed: %v", err)
		}
	case "]":
		if err := m.engine.BringToFront(m.ctx); err != nil {
			m.status = fmt.Sprintf("z-order failed: %v", err)
		}
	case "up":
		m.engine.PanBy(0, 2)
	case "down":
		m.engine.PanBy(0, -2)
	case "left":
		m.engine.PanBy(2, 0)
	case "right":
		m.engine.PanBy(-2, 0)
	case "+", "=":
		m.engine.ZoomAt(float64(m.width)/2, float64(m.height-1)/2, canvas.ZoomStep)
	case "-":
		m.engine.ZoomAt(float64(m.width)/2, float64(m.height-1)/2, 1/canvas.ZoomStep)
	case "y":
		m.copySelection()
	case "p":
		m.pasteSticky()
	}
	return m, nil
}

// quit flushes pending commits before leaving the alt screen.
func (m editorModel) quit() (tea.Model, tea.Cmd) {
	flushCtx, cancel := context.WithTimeout(m.ctx, 3*time.Second)
	defer cancel()
	if err := m.engine.Flush(flushCtx); err != nil {
		m.err = fmt.Errorf("flush pending saves: %w", err)
	}
	return m, tea.Quit
}

// syncEditorCommit pushes the input draft into the engine before a pointer
// press, so a click on the background commits what was typed.
func (m *editorModel) syncEditorCommit() {
	if m.engine.Editing() {
		m.engine.SetEditDraft(m.input.Value())
	}
}

// syncEditorOpen seeds the text input when an interaction opened the editor.
func (m *editorModel) syncEditorOpen() {
	if m.engine.Editing() && !m.input.Focused() {
		m.input.SetValue(m.engine.EditDraft())
		m.input.CursorEnd()
		m.input.Focus()
	}
	if !m.engine.Editing() && m.input.Focused() {
		m.input.Blur()
	}
}

// copySelection puts the selected item's text on the system clipboard.
func (m *editorModel) copySelection() {
	it, ok := m.engine.SelectedItem()
	if !ok || it.Content == "" {
		return
	}
	if err := clipboard.WriteAll(it.Content); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = "copied"
}

// pasteSticky creates a sticky note from the system clipboard at the view
// center.
func (m *editorModel) pasteSticky() {
	text, err := clipboard.ReadAll()
	if err != nil || strings.TrimSpace(text) == "" {
		return
	}
	wx, wy := m.engine.Viewport().ScreenToWorld(float64(m.width)/2, float64(m.height-1)/2)
	it := &board.Item{
		Type:    board.TypeStickyNote,
		X:       wx - 80,
		Y:       wy - 60,
		Width:   160,
		Height:  120,
		Content: strings.TrimSpace(text),
		Style:   board.Style{Fill: "#fff59d", FontSize: 14},
	}
	if err := m.engine.InsertItem(m.ctx, it); err != nil {
		m.status = fmt.Sprintf("paste failed: %v", err)
		return
	}
	m.status = "pasted"
}

// ====== View ======

var statusBarStyle = lipgloss.NewStyle().Foreground(colorGray)

func (m editorModel) View() string {
	if m.width == 0 || m.height < 2 {
		return "loading…"
	}

	canvasH := m.height - 1
	grid := paintBoard(m.engine.RenderList(), m.engine.Viewport(), m.width, canvasH, m.engine.SelectedID())
	if overlay, ok := m.engine.EditorOverlay(); ok {
		paintEditor(grid, overlay, m.input.Value())
	}

	return grid.render() + "\n" + m.statusBar()
}

// statusBar renders the bottom line: board, tool, zoom, pending saves.
func (m editorModel) statusBar() string {
	parts := []string{
		StyleTitle.Render(m.boardID),
		fmt.Sprintf("tool:%s", m.engine.ActiveTool()),
		fmt.Sprintf("zoom:%d%%", int(m.engine.Viewport().Zoom*100+0.5)),
	}
	if n := m.engine.PendingCommits(); n > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("saving:%d", n)))
	}
	if m.engine.Editing() {
		parts = append(parts, StyleHighlight.Render("editing (enter=save esc=discard)"))
	}
	if m.status != "" {
		parts = append(parts, StyleDim.Render(m.status))
	}

	bar := statusBarStyle.Render(strings.Join(parts, "  "))
	if w := lipgloss.Width(bar); w < m.width {
		bar += strings.Repeat(" ", m.width-w)
	}
	return bar
}
