package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mettice/caresync/internal/adapters/driving/tui/keymap"
	"github.com/Mettice/caresync/internal/adapters/driving/tui/messages"
	"github.com/Mettice/caresync/internal/adapters/driving/tui/styles"
	"github.com/Mettice/caresync/internal/core/domain"
)

// turn is one rendered entry of the chat transcript.
type turn struct {
	role       domain.MessageRole
	content    string
	citations  []domain.Citation
	confidence float64
	err        bool
}

// App is the chat TUI model following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// input is the question entry area.
	input textarea.Model

	// transcript is the scrollable chat history.
	transcript viewport.Model

	// turns is the rendered conversation so far.
	turns []turn

	// conversationID threads follow-up questions; empty until the
	// first answer returns.
	conversationID string

	// stats summarises the corpus for the status bar.
	stats *domain.DocumentStats

	// waiting is true while an answer is being synthesized.
	waiting bool

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new chat application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textarea.New()
	input.Placeholder = "Ask about the clinic..."
	input.Prompt = "> "
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     styles.DefaultStyles(),
		keys:       keymap.DefaultKeyMap(),
		input:      input,
		transcript: viewport.New(0, 0),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// ConversationID returns the current conversation thread id.
func (a *App) ConversationID() string {
	return a.conversationID
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.loadStats())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.NewConversation):
			return a, func() tea.Msg { return messages.ConversationReset{} }

		case key.Matches(msg, a.keys.Send):
			question := strings.TrimSpace(a.input.Value())
			if question == "" || a.waiting {
				return a, nil
			}
			a.input.Reset()
			return a, func() tea.Msg { return messages.QuestionSubmitted{Question: question} }

		case key.Matches(msg, a.keys.ScrollUp):
			a.transcript.HalfViewUp()
			return a, nil

		case key.Matches(msg, a.keys.ScrollDown):
			a.transcript.HalfViewDown()
			return a, nil
		}

	case messages.QuestionSubmitted:
		a.turns = append(a.turns, turn{role: domain.RoleUser, content: msg.Question})
		a.waiting = true
		a.refreshTranscript()
		return a, a.ask(msg.Question)

	case messages.AnswerReceived:
		a.waiting = false
		if msg.Err != nil {
			a.turns = append(a.turns, turn{
				role:    domain.RoleAssistant,
				content: msg.Err.Error(),
				err:     true,
			})
		} else {
			a.conversationID = msg.Result.ConversationID
			a.turns = append(a.turns, turn{
				role:       domain.RoleAssistant,
				content:    msg.Result.Answer,
				citations:  msg.Result.Citations,
				confidence: msg.Result.Confidence,
			})
		}
		a.refreshTranscript()
		return a, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			a.stats = msg.Stats
		}
		return a, nil

	case messages.ConversationReset:
		a.conversationID = ""
		a.turns = nil
		a.refreshTranscript()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("CareSync Chat"))
	b.WriteString("\n")
	b.WriteString(a.transcript.View())
	b.WriteString("\n")
	b.WriteString(a.styles.InputField.Width(max(20, a.width-2)).Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.statusLine())
	return b.String()
}

// ask runs the question through the ask service off the UI goroutine.
func (a *App) ask(question string) tea.Cmd {
	ctx := a.ctx
	conversationID := a.conversationID
	return func() tea.Msg {
		result, err := a.ports.Ask.Ask(ctx, question, conversationID)
		return messages.AnswerReceived{Result: result, Err: err}
	}
}

// loadStats fetches corpus statistics for the status bar.
func (a *App) loadStats() tea.Cmd {
	if a.ports.Document == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		stats, err := a.ports.Document.Stats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// resize fits the transcript and input to the terminal.
func (a *App) resize() {
	inputHeight := 3 // bordered single-line textarea
	reserved := 1 /* title */ + inputHeight + 1 /* status */ + 2
	h := a.height - reserved
	if h < 3 {
		h = 3
	}
	a.transcript.Width = max(20, a.width)
	a.transcript.Height = h
	a.input.SetWidth(max(16, a.width-6))
	a.refreshTranscript()
}

// refreshTranscript re-renders the turns into the viewport and follows the tail.
func (a *App) refreshTranscript() {
	a.transcript.SetContent(a.renderTurns())
	a.transcript.GotoBottom()
}

func (a *App) renderTurns() string {
	if len(a.turns) == 0 {
		return a.styles.Muted.Render("Ask a question to get started. Answers cite the clinic documents they are grounded in.")
	}

	var b strings.Builder
	for i, t := range a.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch {
		case t.role == domain.RoleUser:
			b.WriteString(a.styles.UserLabel.Render("You"))
			b.WriteString("\n")
			b.WriteString(a.styles.Normal.Render(t.content))
		case t.err:
			b.WriteString(a.styles.AssistantLabel.Render("CareSync"))
			b.WriteString("\n")
			b.WriteString(a.styles.Error.Render(t.content))
		default:
			b.WriteString(a.styles.AssistantLabel.Render("CareSync"))
			b.WriteString("\n")
			b.WriteString(a.styles.Normal.Render(t.content))
			b.WriteString(a.renderAnswerFooter(t))
		}
	}

	if a.waiting {
		b.WriteString("\n\n")
		b.WriteString(a.styles.Muted.Render("Thinking..."))
	}
	return b.String()
}

func (a *App) renderAnswerFooter(t turn) string {
	var b strings.Builder
	for i, c := range t.citations {
		b.WriteString("\n")
		line := fmt.Sprintf("  [%d] %s", i+1, c.DocumentName)
		if c.Page > 0 {
			line += fmt.Sprintf(", page %d", c.Page)
		}
		line += fmt.Sprintf(" (%.2f)", c.Score)
		b.WriteString(a.styles.Citation.Render(line))
	}

	b.WriteString("\n")
	confStyle := a.styles.ConfidenceHigh
	if t.confidence < 0.5 {
		confStyle = a.styles.ConfidenceLow
	}
	b.WriteString(confStyle.Render(fmt.Sprintf("  confidence %.2f", t.confidence)))
	return b.String()
}

func (a *App) statusLine() string {
	parts := []string{}
	if a.stats != nil {
		parts = append(parts, fmt.Sprintf("%d documents, %d chunks", totalDocs(a.stats), a.stats.Chunks))
	}
	if a.conversationID != "" {
		parts = append(parts, "conversation "+shortID(a.conversationID))
	}
	parts = append(parts, "enter send · ctrl+n new · esc quit")
	return a.styles.StatusBar.Width(max(20, a.width)).Render(strings.Join(parts, "  |  "))
}

func totalDocs(stats *domain.DocumentStats) int {
	total := 0
	for _, n := range stats.Documents {
		total += n
	}
	return total
}

// shortID abbreviates a uuid for the status bar.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
