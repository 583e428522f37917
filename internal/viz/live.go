package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bouncelab/internal/metrics"
	"github.com/san-kum/bouncelab/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
)

type TickMsg time.Time

// Model drives the live simulation view: one physics step per display
// tick, ball and walls rendered on a braille canvas.
type Model struct {
	driver  *sim.Driver
	energy  *metrics.Energy
	bounces *metrics.Bounces

	dt         float64
	fps        int
	name       string
	canvas     *Canvas
	heightHist []float64
	running    bool
	showGraph  bool
}

func NewModel(driver *sim.Driver, energy *metrics.Energy, bounces *metrics.Bounces, dt float64, fps int, name string) Model {
	return Model{
		driver:     driver,
		energy:     energy,
		bounces:    bounces,
		dt:         dt,
		fps:        fps,
		name:       name,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		heightHist: make([]float64, 0, historyCapacity),
		running:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.driver.Reset()
			m.bounces.Reset()
			m.heightHist = m.heightHist[:0]
		case "g":
			m.showGraph = !m.showGraph
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.driver.Step(m.dt)

	s := m.driver.Body().Snapshot()
	m.bounces.Observe(s, m.driver.Time())

	height := m.driver.Bounds().Floor(m.driver.Body().Radius) - s.Pos.Y
	m.heightHist = append(m.heightHist, height)
	if len(m.heightHist) > historyCapacity {
		m.heightHist = m.heightHist[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()

	subW := m.canvas.Width * 2
	subH := m.canvas.Height * 4
	bounds := m.driver.Bounds()
	scaleX := float64(subW-1) / bounds.Width
	scaleY := float64(subH-1) / bounds.Height

	m.canvas.DrawRect(0, 0, subW-1, subH-1)

	b := m.driver.Body()
	cx := int(b.Pos.X * scaleX)
	cy := int(b.Pos.Y * scaleY)
	r := int(b.Radius * scaleY)
	m.canvas.DrawCircle(cx, cy, r)
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	b := m.driver.Body()
	s := b.Snapshot()

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		sb.WriteString("RUNNING\n\n")
	} else {
		sb.WriteString("PAUSED\n\n")
	}

	if m.showGraph && len(m.heightHist) > 1 {
		chart := asciigraph.Plot(m.heightHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Height"))
		sb.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	sb.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.driver.Time())) + "\n")
	sb.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("(%.1f, %.1f)", s.Pos.X, s.Pos.Y)) + "\n")
	sb.WriteString(labelStyle.Render("Velocity") + valueStyle.Render(fmt.Sprintf("(%.1f, %.1f)", s.Vel.X, s.Vel.Y)) + "\n")
	sb.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.1f", s.Vel.Length())) + "\n")
	sb.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.1f", m.energy.Total(s))) + "\n")
	sb.WriteString(labelStyle.Render("Bounces") + valueStyle.Render(fmt.Sprintf("%.0f", m.bounces.Value())) + "\n")

	sb.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset G:Graph Q:Quit"))

	statsView := statsStyle.Render(sb.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// RunLive starts the bubbletea program for a configured driver.
func RunLive(driver *sim.Driver, energy *metrics.Energy, bounces *metrics.Bounces, dt float64, fps int, name string) error {
	p := tea.NewProgram(NewModel(driver, energy, bounces, dt, fps, name))
	_, err := p.Run()
	return err
}
