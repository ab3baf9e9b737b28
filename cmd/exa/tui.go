package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	exa "github.com/erayack/exa-go"
	"github.com/erayack/exa-go/ansi"
)

var _ tea.Model = answerModel{}

// chunkMsg carries one streamed answer fragment to the model.
type chunkMsg struct {
	chunk exa.AnswerChunk
}

// doneMsg signals that the stream has ended.
type doneMsg struct {
	err error
}

// answerModel renders a streaming answer. While the stream is live it shows
// a spinner and the raw accumulated text; once the stream completes the
// answer is re-rendered as markdown with citation footnotes.
type answerModel struct {
	spinner spinner.Model
	theme   ansi.Theme
	query   string
	width   int

	chunks <-chan exa.AnswerChunk
	done   <-chan error

	// answer is a plain string, not a strings.Builder: bubbletea copies
	// the model on every Update and a Builder must not be used after a
	// copy.
	answer    string
	citations []exa.Citation
	finished  bool
	err       error
}

func newAnswerModel(query string, width int, theme ansi.Theme, chunks <-chan exa.AnswerChunk, done <-chan error) answerModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	return answerModel{
		spinner: sp,
		theme:   theme,
		query:   query,
		width:   width,
		chunks:  chunks,
		done:    done,
	}
}

// Answer returns the accumulated answer text.
func (m answerModel) Answer() string { return m.answer }

// Err returns the stream error, if any.
func (m answerModel) Err() error { return m.err }

// listenForChunk waits for the next stream event. The producer sends on
// done before closing the chunk channel, so completion is only reported
// once every fragment has been delivered.
func listenForChunk(chunks <-chan exa.AnswerChunk, done <-chan error) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-chunks
		if ok {
			return chunkMsg{chunk: chunk}
		}
		return doneMsg{err: <-done}
	}
}

// Init implements tea.Model.
func (m answerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listenForChunk(m.chunks, m.done))
}

// Update implements tea.Model.
func (m answerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case chunkMsg:
		m.answer += msg.chunk.Content
		m.citations = append(m.citations, msg.chunk.Citations...)
		return m, listenForChunk(m.chunks, m.done)

	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m answerModel) View() string {
	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		return errStyle.Render("error: "+m.err.Error()) + "\n"
	}
	if m.finished {
		return ansi.RenderAnswer(m.answer, m.citations, m.width, m.theme) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(urlStyle.Render(m.query))
	b.WriteString("\n\n")
	if m.answer != "" {
		b.WriteString(lipgloss.NewStyle().Width(m.width).Render(m.answer))
		b.WriteString("\n")
	}
	return b.String()
}
