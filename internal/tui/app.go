// Package tui is the terminal study client. It renders the state of a
// study session and translates keys into session commands; all
// scheduling and persistence stays behind the session.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tenfold-cards/tenfold/internal/study"
)

type loadedMsg struct {
	err error
}

type Model struct {
	session  *study.Session
	width    int
	height   int
	quitting bool
}

func NewModel(session *study.Session) Model {
	return Model{
		session: session,
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.session.Load(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		// failure leaves the session idle with the error recorded;
		// the View shows it and r retries
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "q" || key == "ctrl+c" {
		m.quitting = true
		if m.session.Status() == study.StatusStudying {
			m.session.Interrupt()
		}
		return m, tea.Quit
	}

	switch m.session.Status() {
	case study.StatusIdle:
		if key == "r" && m.session.Err() != nil {
			return m, m.load()
		}

	case study.StatusReady:
		if key == "enter" || key == " " {
			m.session.Start()
		}

	case study.StatusStudying:
		switch key {
		case "enter", " ":
			m.session.Reveal()
		case "y":
			if m.session.IsRevealed() {
				m.session.Answer(true)
			}
		case "n":
			if m.session.IsRevealed() {
				m.session.Answer(false)
			}
		case "esc":
			m.session.Interrupt()
		}

	case study.StatusCompleted, study.StatusInterrupted, study.StatusEmpty:
		if key == "enter" || key == " " {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tenfold") + "\n\n")

	switch m.session.Status() {
	case study.StatusLoading:
		b.WriteString(dimStyle.Render("  Loading your session...") + "\n")

	case study.StatusIdle:
		if err := m.session.Err(); err != nil {
			b.WriteString(errorStyle.Render("  Could not load the session.") + "\n")
			b.WriteString(dimStyle.Render("  "+err.Error()) + "\n\n")
			b.WriteString(helpStyle.Render("  r: retry  q: quit"))
		} else {
			b.WriteString(dimStyle.Render("  Starting...") + "\n")
		}

	case study.StatusEmpty:
		if m.session.HasAnyFlashcards() {
			b.WriteString("  Nothing due today. Come back tomorrow.\n\n")
		} else {
			b.WriteString("  You have no flashcards yet.\n")
			b.WriteString(dimStyle.Render("  Import a deck with `tenfold import` or add cards via the API.") + "\n\n")
		}
		b.WriteString(helpStyle.Render("  enter: exit"))

	case study.StatusReady:
		m.renderStart(&b)

	case study.StatusStudying:
		m.renderCard(&b)

	case study.StatusCompleted:
		m.renderSummary(&b, "Session complete")

	case study.StatusInterrupted:
		m.renderSummary(&b, "Session interrupted")
	}

	return b.String()
}

func (m Model) renderStart(b *strings.Builder) {
	stats := m.session.Statistics()
	fmt.Fprintf(b, "  %d cards queued: %s due for review, %s new\n\n",
		stats.TotalCards,
		reviewTag.Render(fmt.Sprintf("%d", stats.ReviewCards)),
		newTag.Render(fmt.Sprintf("%d", stats.NewCards)))
	b.WriteString(helpStyle.Render("  enter: start  q: quit"))
}

func (m Model) renderCard(b *strings.Builder) {
	card := m.session.CurrentCard()
	if card == nil {
		return
	}
	progress := m.session.Progress()

	tag := reviewTag.Render("review")
	if card.IsNew {
		tag = newTag.Render("new")
	}
	fmt.Fprintf(b, "  Card %d of %d  %s\n\n",
		progress.CurrentIndex+1, progress.TotalCards, tag)

	var body string
	if m.session.IsRevealed() {
		body = frontStyle.Render(card.Front) + "\n\n" + backStyle.Render(card.Back)
	} else {
		body = frontStyle.Render(card.Front)
	}
	b.WriteString(cardStyle.Width(m.cardWidth()).Render(body) + "\n\n")

	fmt.Fprintf(b, "  %s  %s\n\n",
		rememberedStyle.Render(fmt.Sprintf("✓ %d", progress.RememberedCount)),
		forgottenStyle.Render(fmt.Sprintf("✗ %d", progress.ForgottenCount)))

	if m.session.IsRevealed() {
		b.WriteString(helpStyle.Render("  y: remembered  n: forgot  esc: end early  q: quit"))
	} else {
		b.WriteString(helpStyle.Render("  enter: show answer  esc: end early  q: quit"))
	}
}

func (m Model) renderSummary(b *strings.Builder, heading string) {
	b.WriteString("  " + frontStyle.Render(heading) + "\n\n")

	summary, ok := m.session.Summary()
	if !ok {
		return
	}
	if summary.TotalReviewed == 0 {
		b.WriteString(dimStyle.Render("  No cards answered.") + "\n\n")
		b.WriteString(helpStyle.Render("  enter: exit"))
		return
	}

	fmt.Fprintf(b, "  Reviewed:   %d (%d new, %d review)\n",
		summary.TotalReviewed, summary.NewCardsReviewed, summary.ReviewCardsReviewed)
	fmt.Fprintf(b, "  Remembered: %s\n", rememberedStyle.Render(fmt.Sprintf("%d", summary.RememberedCount)))
	fmt.Fprintf(b, "  Forgotten:  %s\n", forgottenStyle.Render(fmt.Sprintf("%d", summary.ForgottenCount)))
	fmt.Fprintf(b, "  Success:    %d%%\n\n", summary.SuccessRate)
	b.WriteString(helpStyle.Render("  enter: exit"))
}

func (m Model) cardWidth() int {
	w := m.width - 4
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}
