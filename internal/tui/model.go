package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"incidentassist/internal/analytics"
	"incidentassist/internal/service"
)

// AssistPort is the TUI-facing subset of the assist service.
type AssistPort interface {
	Ask(query string) (*service.Answer, error)
}

// Model is the Bubble Tea model for the incident assistant TUI.
type Model struct {
	service  AssistPort
	input    textinput.Model
	viewport viewport.Model
	answer   *service.Answer
	status   string
	cursor   int
	ready    bool
	showing  view
}

type view int

const (
	viewAnswer view = iota
	viewIncidents
)

// New creates a new TUI model instance.
func New(svc AssistPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe the incident and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: svc, input: ti, viewport: vp, status: "Ready. Ask about an incident."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header + status + query box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = maxInt(3, vh-rh)
		m.viewport.SetContent(m.render())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.status = "Thinking..."
				ans, err := m.service.Ask(q)
				if err != nil {
					m.status = "Error: " + err.Error()
					m.answer = nil
				} else {
					m.answer = ans
					m.cursor = 0
					m.showing = viewAnswer
					m.status = fmt.Sprintf("%d relevant, %d non-relevant. Tab toggles incidents.",
						len(ans.Relevant), len(ans.NonRelevant))
				}
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "tab":
			if m.answer != nil {
				if m.showing == viewAnswer {
					m.showing = viewIncidents
				} else {
					m.showing = viewAnswer
				}
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "down":
			if m.showing == viewIncidents && m.answer != nil && len(m.answer.Relevant) > 0 {
				m.cursor = (m.cursor + 1) % len(m.answer.Relevant)
				m.viewport.SetContent(m.render())
				return m, nil
			}
		case "up":
			if m.showing == viewIncidents && m.answer != nil && len(m.answer.Relevant) > 0 {
				m.cursor = (m.cursor - 1 + len(m.answer.Relevant)) % len(m.answer.Relevant)
				m.viewport.SetContent(m.render())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Incident Assist")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	body := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) render() string {
	if m.answer == nil {
		return "No answer yet."
	}
	if m.showing == viewIncidents {
		return m.renderIncident()
	}
	return m.answer.Text + "\n\n" + renderSnapshot(m.answer.Snapshot, m.answer.Threshold)
}

func (m Model) renderIncident() string {
	relevant := m.answer.Relevant
	if len(relevant) == 0 {
		return "No relevant incidents."
	}
	inc := relevant[m.cursor]
	title := fmt.Sprintf("Incident %d/%d  %s  score=%.3f", m.cursor+1, len(relevant), inc.ID, inc.SimilarityScore)
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	writeLine(&b, "Description", inc.Description)
	writeLine(&b, "Closure Notes", inc.ClosureNotes)
	writeLine(&b, "Assignment Group", inc.AssignmentGroup)
	writeLine(&b, "CI Class", inc.CIClass)
	writeLine(&b, "Resolved By", inc.ResolvedBy)
	writeLine(&b, "State", inc.State)
	return b.String()
}

func renderSnapshot(s analytics.Snapshot, threshold float64) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Analytics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Relevant %d | Non-relevant %d | Closed %d | Open %d | Other %d\n",
		s.RelatedCount, s.NonRelatedCount, s.ClosedCount, s.OpenCount, s.OtherCount)
	fmt.Fprintf(&b, "Resolution rate %.1f%% (threshold %.3f)\n", s.ResolutionRatePct, threshold)
	writeEntries(&b, "Top resolvers", s.TopResolvers)
	writeEntries(&b, "Top groups", s.TopAssignmentGroups)
	writeEntries(&b, "Top CI classes", s.TopCIClasses)
	return b.String()
}

func writeEntries(b *strings.Builder, label string, entries []analytics.Entry) {
	if len(entries) == 0 {
		return
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Key, e.Count))
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(parts, ", "))
}

func writeLine(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
