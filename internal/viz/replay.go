package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/catchsim/internal/catch"
	"github.com/san-kum/catchsim/internal/dataset"
	"github.com/san-kum/catchsim/internal/dynamo"
	"github.com/san-kum/catchsim/internal/physics"
)

const (
	maxSpeed     = 32
	sparkWidth   = 40
	progressSize = 40
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Replay steps through a stored run. The catch status of every frame is
// recomputed from the records, so legacy datasets replay the same way as
// new ones.
type Replay struct {
	title    string
	scenario dynamo.Scenario
	records  []dynamo.Record
	statuses []catch.Status
	outcome  catch.Outcome
	forces   []float64

	frame   int
	playing bool
	speed   int

	canvas *Canvas
	view   Viewport
}

func NewReplay(title string, sc dynamo.Scenario, table *dataset.Table, width, height int) Replay {
	eval := catch.New(sc.BallX, physics.SurfaceHeight(sc.BallX, sc.Angle()))
	statuses := make([]catch.Status, table.Len())
	for i, r := range table.Records {
		statuses[i] = eval.Observe(i, r.Time, r.TrainPosition, r.BallHeight)
	}
	forces, _ := table.Column("applied_force")

	canvas := NewCanvas(width, height)
	return Replay{
		title:    title,
		scenario: sc,
		records:  table.Records,
		statuses: statuses,
		outcome:  eval.Outcome(),
		forces:   forces,
		playing:  true,
		speed:    1,
		canvas:   canvas,
		view:     SceneViewport(canvas, sc, table.Records),
	}
}

func (m Replay) Init() tea.Cmd {
	return tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.AtEnd() {
				m.frame = 0
			}
			m.playing = !m.playing
		case "left", "h":
			m.playing = false
			m.seek(m.frame - 1)
		case "right", "l":
			m.playing = false
			m.seek(m.frame + 1)
		case "home", "g":
			m.seek(0)
		case "end", "G":
			m.seek(len(m.records) - 1)
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		}
	case TickMsg:
		if m.playing {
			m.seek(m.frame + m.speed)
			if m.AtEnd() {
				m.playing = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Replay) seek(frame int) {
	m.frame = min(max(frame, 0), max(len(m.records)-1, 0))
}

func (m Replay) AtEnd() bool            { return m.frame >= len(m.records)-1 }
func (m Replay) Outcome() catch.Outcome { return m.outcome }

// Status is the catch status at the current frame.
func (m Replay) Status() catch.Status {
	if len(m.statuses) == 0 {
		return catch.Pending
	}
	return m.statuses[m.frame]
}

func (m Replay) View() string {
	if len(m.records) == 0 {
		return "no records\n"
	}
	r := m.records[m.frame]

	m.canvas.Clear()
	DrawScene(m.canvas, m.view, m.scenario, r)

	var s strings.Builder
	s.WriteString(Title.Render(m.title) + "  " + RenderStatus(m.Status()) + "\n")
	s.WriteString(GlassPanel.Render(strings.TrimRight(m.canvas.String(), "\n")) + "\n")

	info := []string{
		MetricLabel.Render("time") + MetricValue.Render(fmt.Sprintf("%.2fs", r.Time)),
		MetricLabel.Render("train position") + MetricValue.Render(fmt.Sprintf("%.2fm", r.TrainPosition)),
		MetricLabel.Render("distance to ball") + MetricValue.Render(fmt.Sprintf("%.2fm", m.scenario.BallX-r.TrainPosition)),
		MetricLabel.Render("ball height") + MetricValue.Render(fmt.Sprintf("%.2fm", r.BallHeight)),
		MetricLabel.Render("applied force") + MetricValue.Render(fmt.Sprintf("%.1fN", r.Force)),
	}
	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, info...) + "\n\n")

	s.WriteString(SparklineChart(m.forces[:m.frame+1], sparkWidth) + "\n")
	progress := float64(m.frame) / float64(max(len(m.records)-1, 1))
	s.WriteString(ProgressBar(progress, progressSize) + fmt.Sprintf(" %d/%d x%d\n", m.frame+1, len(m.records), m.speed))

	s.WriteString(KeyHint.Render("space play/pause · ←/→ step · home/end · +/- speed · q quit") + "\n")
	return s.String()
}
