package graphics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TerminalBackend implements the Backend interface for terminal-based
// rendering, driving a bubbletea program instead of hand-rolled ANSI codes.
type TerminalBackend struct {
	initialized bool
	config      Config
}

// TerminalWindow implements the Window interface on top of a running
// bubbletea program.
type TerminalWindow struct {
	title  string
	width  int
	height int

	program *tea.Program
	model   *terminalModel
	done    chan struct{}
}

// NewTerminalBackend creates a new terminal graphics backend
func NewTerminalBackend() Backend {
	return &TerminalBackend{}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}

	b.config = config
	b.initialized = true

	return nil
}

// CreateWindow creates a terminal window backed by a bubbletea program
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	model := newTerminalModel(title)
	program := tea.NewProgram(model, tea.WithoutSignalHandler())

	w := &TerminalWindow{
		title:   title,
		width:   width,
		height:  height,
		program: program,
		model:   model,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(w.done)
		// Run's error just ends the program; ShouldClose picks up the
		// resulting quit state either way.
		_, _ = program.Run()
	}()

	return w, nil
}

// Cleanup releases all terminal resources
func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

// IsHeadless returns false (terminal has real output via bubbletea)
func (b *TerminalBackend) IsHeadless() bool {
	return false
}

// GetName returns the backend name
func (b *TerminalBackend) GetName() string {
	return "Terminal"
}

// TerminalWindow implementation

// SetTitle sets the window title shown in the status line
func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	w.model.setTitle(title)
}

// GetSize returns window dimensions
func (w *TerminalWindow) GetSize() (width, height int) {
	return w.width, w.height
}

// ShouldClose returns true once the bubbletea program has quit
func (w *TerminalWindow) ShouldClose() bool {
	select {
	case <-w.done:
		return true
	default:
		return w.model.quitRequested()
	}
}

// SwapBuffers is a no-op: bubbletea re-renders the view on every message
func (w *TerminalWindow) SwapBuffers() {
}

// PollEvents drains input captured by the bubbletea model's Update loop
func (w *TerminalWindow) PollEvents() []InputEvent {
	return w.model.drainEvents()
}

// RenderFrame sends the NES frame buffer to the bubbletea program as a
// lipgloss-styled ASCII/block preview; the model tracks live FPS and frame
// count from the rate these messages arrive.
func (w *TerminalWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	var sb strings.Builder
	for y := 0; y < 240; y += 8 {
		for x := 0; x < 256; x += 4 {
			if frameBuffer[y*256+x] == 0x000000 {
				sb.WriteByte(' ')
			} else {
				sb.WriteRune('█')
			}
		}
		sb.WriteByte('\n')
	}

	w.program.Send(frameMsg{ascii: sb.String()})
	return nil
}

// Cleanup quits the bubbletea program and releases window resources
func (w *TerminalWindow) Cleanup() error {
	w.program.Quit()
	return nil
}

// terminalModel is the bubbletea Model driving the terminal window: it owns
// the latest frame preview, FPS/frame-count status, and a small queue of
// captured key events that PollEvents drains on the emulator's own clock.
type terminalModel struct {
	mu sync.Mutex

	title      string
	frame      string
	frameCount uint64
	lastFrame  time.Time
	fps        float64

	quit   bool
	events []InputEvent
}

type frameMsg struct {
	ascii string
}

func newTerminalModel(title string) *terminalModel {
	return &terminalModel{title: title, lastFrame: time.Now()}
}

func (m *terminalModel) Init() tea.Cmd {
	return nil
}

func (m *terminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.mu.Lock()
			m.quit = true
			m.mu.Unlock()
			return m, tea.Quit
		}
		if ev, ok := inputEventFromKey(msg.String()); ok {
			m.mu.Lock()
			m.events = append(m.events, ev)
			m.mu.Unlock()
		}
	case frameMsg:
		m.mu.Lock()
		now := time.Now()
		if elapsed := now.Sub(m.lastFrame).Seconds(); elapsed > 0 {
			m.fps = 1.0 / elapsed
		}
		m.lastFrame = now
		m.frame = msg.ascii
		m.frameCount++
		m.mu.Unlock()
	}
	return m, nil
}

func (m *terminalModel) View() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1)

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Bold(true)

	status := statusStyle.Render(fmt.Sprintf("%s — frame %d — %.1f fps", m.title, m.frameCount, m.fps))

	return lipgloss.JoinVertical(lipgloss.Left, frameStyle.Render(m.frame), status)
}

func (m *terminalModel) setTitle(title string) {
	m.mu.Lock()
	m.title = title
	m.mu.Unlock()
}

func (m *terminalModel) quitRequested() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quit
}

func (m *terminalModel) drainEvents() []InputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	events := m.events
	m.events = nil
	return events
}

// inputEventFromKey maps a subset of bubbletea key names to NES controller
// and menu input events; unrecognized keys are dropped rather than passed
// through, since the emulator only understands a fixed control layout.
func inputEventFromKey(key string) (InputEvent, bool) {
	keyMap := map[string]Key{
		"up":    KeyUp,
		"down":  KeyDown,
		"left":  KeyLeft,
		"right": KeyRight,
		"w":     KeyW,
		"a":     KeyA,
		"s":     KeyS,
		"d":     KeyD,
		"j":     KeyJ,
		"k":     KeyK,
		"x":     KeyX,
		"z":     KeyZ,
		"enter": KeyEnter,
		" ":     KeySpace,
		"esc":   KeyEscape,
	}

	k, ok := keyMap[key]
	if !ok {
		return InputEvent{}, false
	}

	return InputEvent{
		Type:    InputEventTypeKey,
		Key:     k,
		Pressed: true,
	}, true
}
