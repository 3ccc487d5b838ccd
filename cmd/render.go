package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/cpu"
	"github.com/ossim/ossim/sim/disk"
	"github.com/ossim/ossim/sim/paging"
	"github.com/ossim/ossim/sim/run"
)

// Color palette
var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#B4A9FF"}
	successColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#A6E3A1"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#F38BA8"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#7F849C"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			PaddingRight(2)

	cellStyle = lipgloss.NewStyle().PaddingRight(2)

	faultStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	hitStyle   = lipgloss.NewStyle().Foreground(successColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	summaryStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1).
			MarginTop(1)
)

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutcome prints an outcome in the selected output format.
func writeOutcome(w io.Writer, o *run.Outcome) error {
	if outputFormat == "json" {
		return writeJSON(w, o)
	}
	_, err := fmt.Fprintln(w, renderOutcome(o))
	return err
}

// renderOutcome draws the step table and summary for an outcome.
func renderOutcome(o *run.Outcome) string {
	switch {
	case o.Disk != nil:
		return renderDisk(o.Disk)
	case o.Paging != nil:
		return renderPaging(o.Paging)
	case o.CPU != nil:
		return renderCPU(o.CPU)
	}
	return o.String()
}

// renderTable lays out rows column by column; the first row is the header.
func renderTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	columns := make([]string, len(rows[0]))
	for c := range rows[0] {
		cells := make([]string, len(rows))
		for r, row := range rows {
			style := cellStyle
			if r == 0 {
				style = headerStyle
			}
			cells[r] = style.Render(row[c])
		}
		columns[c] = lipgloss.JoinVertical(lipgloss.Left, cells...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderDisk(res *disk.Result) string {
	rows := [][]string{{"#", "from", "to", "distance", "event"}}
	for i, m := range res.Movements {
		event := "service"
		switch {
		case m.Wrap && m.Service:
			event = "jump+service"
		case m.Wrap:
			event = "wrap"
		case !m.Service:
			event = "sweep"
		}
		distance := fmt.Sprint(m.Distance())
		if m.Wrap {
			distance = mutedStyle.Render("(" + distance + ")")
		}
		rows = append(rows, []string{fmt.Sprint(i + 1), fmt.Sprint(m.From), fmt.Sprint(m.To), distance, event})
	}
	title := titleStyle.Render(fmt.Sprintf("Disk scheduling: %s (%s)", res.Algorithm, res.Direction))
	summary := summaryStyle.Render(fmt.Sprintf("service order: %v\ntotal seek time: %d\naverage seek: %.2f",
		res.Order, res.TotalSeekTime, res.AverageSeekTime))
	return lipgloss.JoinVertical(lipgloss.Left, title, renderTable(rows), summary)
}

func renderPaging(res *paging.Result[string]) string {
	header := []string{"#", "page"}
	for i := 0; i < res.FrameCount; i++ {
		header = append(header, fmt.Sprintf("f%d", i))
	}
	header = append(header, "result")
	rows := [][]string{header}
	for _, s := range res.Steps {
		row := []string{fmt.Sprint(s.Position + 1), s.Page}
		for slot, f := range s.Frames {
			cell := f.String()
			if slot == s.Slot {
				cell = lipgloss.NewStyle().Bold(true).Render(cell)
			}
			row = append(row, cell)
		}
		result := hitStyle.Render("hit")
		if s.Fault {
			result = faultStyle.Render("fault")
			if s.Replaced {
				result += mutedStyle.Render(" evict " + *s.Victim)
			}
		}
		rows = append(rows, append(row, result))
	}
	title := titleStyle.Render(fmt.Sprintf("Page replacement: %s, %d frames", res.Algorithm, res.FrameCount))
	summary := summaryStyle.Render(fmt.Sprintf("page faults: %d\nhits: %d\nhit ratio: %s",
		res.PageFaults, res.Hits, sim.FormatPercent(res.HitRatio)))
	return lipgloss.JoinVertical(lipgloss.Left, title, renderTable(rows), summary)
}

// ganttWidth is the target bar width in cells.
const ganttWidth = 60

func renderCPU(res *cpu.Result) string {
	title := titleStyle.Render(fmt.Sprintf("CPU scheduling: %s", res.Algorithm))
	if res.Algorithm == cpu.RoundRobin {
		title = titleStyle.Render(fmt.Sprintf("CPU scheduling: %s (quantum %d)", res.Algorithm, res.Quantum))
	}

	rows := [][]string{{"process", "arrival", "burst", "start", "completion", "waiting", "turnaround", "response"}}
	for _, id := range processesByFirstDispatch(res) {
		m := res.PerProcess[id]
		rows = append(rows, []string{id,
			fmt.Sprint(m.ArrivalTime), fmt.Sprint(m.BurstTime), fmt.Sprint(m.StartTime),
			fmt.Sprint(m.CompletionTime), fmt.Sprint(m.WaitingTime), fmt.Sprint(m.TurnaroundTime),
			fmt.Sprint(m.ResponseTime)})
	}

	summary := summaryStyle.Render(fmt.Sprintf(
		"avg waiting: %.2f\navg turnaround: %.2f\navg response: %.2f\nmakespan: %d  idle: %d  utilization: %s\nthroughput: %.3f/unit  context switches: %d",
		res.AvgWaitingTime, res.AvgTurnaroundTime, res.AvgResponseTime,
		res.Makespan, res.IdleTime, sim.FormatPercent(res.Utilization),
		res.Throughput, res.ContextSwitches))
	return lipgloss.JoinVertical(lipgloss.Left, title, renderGantt(res), "", renderTable(rows), summary)
}

// renderGantt draws the schedule as one bar per interval, scaled to ganttWidth.
func renderGantt(res *cpu.Result) string {
	if len(res.Schedule) == 0 || res.Makespan == 0 {
		return mutedStyle.Render("(empty schedule)")
	}
	scale := float64(ganttWidth) / float64(res.Makespan)
	if scale > 4 {
		scale = 4
	}
	palette := []string{"#89B4FA", "#F9E2AF", "#A6E3A1", "#F5C2E7", "#94E2D5", "#FAB387"}
	colors := make(map[string]lipgloss.Color)
	for i, id := range processesByFirstDispatch(res) {
		colors[id] = lipgloss.Color(palette[i%len(palette)])
	}

	var bars, ticks strings.Builder
	var clock int64
	for _, iv := range res.Schedule {
		if iv.Start > clock {
			idle := int(float64(iv.Start-clock)*scale + 0.5)
			bars.WriteString(mutedStyle.Render(strings.Repeat("·", max(idle, 1))))
			ticks.WriteString(fmt.Sprintf("%-*d", max(idle, 1), clock))
		}
		width := max(int(float64(iv.End-iv.Start)*scale+0.5), len(iv.ProcessID))
		bar := lipgloss.NewStyle().
			Background(colors[iv.ProcessID]).
			Foreground(lipgloss.Color("#1E1E2E")).
			Width(width).
			Align(lipgloss.Center).
			Render(iv.ProcessID)
		bars.WriteString(bar)
		ticks.WriteString(fmt.Sprintf("%-*d", width, iv.Start))
		clock = iv.End
	}
	ticks.WriteString(fmt.Sprint(clock))
	return lipgloss.JoinVertical(lipgloss.Left, bars.String(), mutedStyle.Render(ticks.String()))
}

func processesByFirstDispatch(res *cpu.Result) []string {
	seen := make(map[string]bool, len(res.PerProcess))
	ids := make([]string, 0, len(res.PerProcess))
	for _, iv := range res.Schedule {
		if !seen[iv.ProcessID] {
			seen[iv.ProcessID] = true
			ids = append(ids, iv.ProcessID)
		}
	}
	return ids
}

// renderComparison draws the comparison rows with the winner highlighted.
func renderComparison(c *run.Comparison) string {
	rows := [][]string{{"algorithm", c.MetricName, "delta"}}
	for _, r := range c.Rows {
		name := r.Algorithm
		if r.Best {
			name = hitStyle.Render(name + " *")
		}
		rows = append(rows, []string{name, formatMetric(r.Metric), "+" + formatMetric(r.Delta)})
	}
	title := titleStyle.Render(fmt.Sprintf("Comparison: %s", c.Kind))
	return lipgloss.JoinVertical(lipgloss.Left, title, renderTable(rows),
		summaryStyle.Render("best: "+c.Best))
}

func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprint(int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
