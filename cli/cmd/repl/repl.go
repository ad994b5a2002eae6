package repl

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/bexpand/brace"
	"github.com/ardnew/bexpand/log"
)

const prompt = "➜ "

const (
	// DefaultPreview is the number of expansions previewed while typing.
	DefaultPreview = 8

	// maxPrint caps the expansions printed when a pattern is submitted.
	maxPrint = 10000
)

const helpHint = "Type a brace pattern · Enter expands · Tab cycles history · Esc clears · Ctrl+D quits"

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the command echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	logger     log.Logger
	opts       []brace.Option
	history    *History
	historyIdx int
	limit      int           // expansions previewed
	preview    []string      // leading expansions of the current input
	more       bool          // whether preview was truncated
	err        error         // parse or expand error of the current input
	matches    fuzzy.Matches // history entries matching the current input
	suggIdx    int           // selected match index
	tabActive  bool          // whether user is tab-cycling
	preTabText string        // input text before tab-cycling began
	width      int           // terminal width for ellipsization
	quitting   bool
}

// Run starts the REPL, keeping pattern history in cacheDir. Up to preview
// expansions of the pattern being typed are shown below the prompt.
func Run(
	ctx context.Context,
	cacheDir string,
	preview int,
	logger log.Logger,
	opts ...brace.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("preview", preview),
	)

	history := NewHistory(filepath.Join(cacheDir, HistoryFile))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, history, preview, logger, opts...)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	history *History,
	preview int,
	logger log.Logger,
	opts ...brace.Option,
) model {
	if preview < 1 {
		preview = DefaultPreview
	}

	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		logger:     logger,
		opts:       append([]brace.Option{brace.WithLogger(logger)}, opts...),
		history:    history,
		historyIdx: history.Len(),
		limit:      preview,
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.input.Value() == "":
		b.WriteString(hintStyle.Render(helpHint))
		b.WriteString("\n")

	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")

		if s := brace.Snippet(m.err); s != "" {
			b.WriteString(hintStyle.Render(strings.TrimSuffix(s, "\n")))
			b.WriteString("\n")
		}

	default:
		for _, s := range m.preview {
			b.WriteString(resultStyle.Render(s))
			b.WriteString("\n")
		}

		if m.more {
			b.WriteString(hintStyle.Render("…"))
			b.WriteString("\n")
		}
	}

	if len(m.matches) > 0 {
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.setInput(m.preTabText)

			return m, nil
		}

		m.historyIdx = m.history.Len()
		m.setInput("")

		return m, nil
	}

	// Any other key edits the input.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refresh(&m)

	return m, cmd
}

// setInput replaces the input text, moves the cursor to its end, and
// refreshes the preview and matches.
func (m *model) setInput(text string) {
	m.input.SetValue(text)
	m.input.SetCursor(len(text))
	refresh(m)
}

// cycle selects the next (dir > 0) or previous history match and places it
// in the input.
func (m model) cycle(dir int) model {
	if len(m.matches) == 0 {
		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + dir + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	text := m.matches[m.suggIdx].Str
	m.input.SetValue(text)
	m.input.SetCursor(len(text))
	refreshPreview(&m)

	return m
}

func (m model) historyPrev() model {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.Entry(m.historyIdx); err == nil {
			m.tabActive = false
			m.setInput(entry)
		}
	}

	return m
}

func (m model) historyNext() model {
	if m.historyIdx >= m.history.Len() {
		return m
	}

	m.tabActive = false

	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.Entry(m.historyIdx); err == nil {
			m.setInput(entry)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.setInput("")
	}

	return m
}

// refresh recomputes the preview and the history matches of the input.
func refresh(m *model) {
	refreshPreview(m)
	refreshMatches(m)
}

// refreshPreview expands the leading items of the current input.
func refreshPreview(m *model) {
	m.preview, m.more, m.err = nil, false, nil

	input := m.input.Value()
	if input == "" {
		return
	}

	for s, err := range brace.Expand(m.ctxFunc(), input, m.opts...) {
		if err != nil {
			m.err = err

			return
		}

		if len(m.preview) >= m.limit {
			m.more = true

			return
		}

		m.preview = append(m.preview, s)
	}
}

// refreshMatches fuzzy-matches the current input against history, most
// recent entries first.
func refreshMatches(m *model) {
	m.matches = nil
	m.suggIdx = -1

	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		return
	}

	candidates := slices.DeleteFunc(m.history.Recent(), func(s string) bool {
		return s == input
	})

	m.matches = fuzzy.Find(input, candidates)
}

func (m model) executeInput() (model, tea.Cmd) {
	input := m.input.Value()
	if strings.TrimSpace(input) == "" {
		return m, nil
	}

	if err := m.history.Add(input); err != nil {
		m.logger.WarnContext(
			m.ctxFunc(),
			"could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()
	m.tabActive = false
	m.setInput("")

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl expand",
		slog.String("input", input),
	)

	cmds := []tea.Cmd{tea.Println(formatCommand(input))}

	out, truncated, err := m.expandAll(input)
	if len(out) > 0 {
		cmds = append(cmds, tea.Println(resultStyle.Render(strings.Join(out, "\n"))))
	}

	if truncated {
		cmds = append(cmds, tea.Println(hintStyle.Render(
			"… output truncated after "+strconv.Itoa(maxPrint)+" items")))
	}

	if err != nil {
		msg := errorStyle.Render("error: " + err.Error())
		if s := brace.Snippet(err); s != "" {
			msg += "\n" + strings.TrimSuffix(s, "\n")
		}

		cmds = append(cmds, tea.Println(msg))
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl expand result",
		slog.Int("count", len(out)),
		slog.Bool("truncated", truncated),
		slog.Bool("failed", err != nil),
	)

	return m, tea.Sequence(cmds...)
}

// expandAll collects up to maxPrint expansions of input.
func (m model) expandAll(input string) (out []string, truncated bool, err error) {
	for s, err := range brace.Expand(m.ctxFunc(), input, m.opts...) {
		if err != nil {
			return out, false, err
		}

		if len(out) == maxPrint {
			return out, true, nil
		}

		out = append(out, s)
	}

	return out, false, nil
}

// renderCandidateBar builds the single-line suggestion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}
