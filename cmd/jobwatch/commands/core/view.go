package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/altuslabsxyz/jobwatch/internal/monitor"
	"github.com/altuslabsxyz/jobwatch/internal/output"
	"github.com/altuslabsxyz/jobwatch/internal/tui"
	"github.com/altuslabsxyz/jobwatch/internal/tui/components"
)

// viewResult is the structured form of a resolved view.
type viewResult struct {
	View  monitor.StageView `json:"view" yaml:"view"`
	Stage string            `json:"stage,omitempty" yaml:"stage,omitempty"`
	Bands []monitor.Band    `json:"bands" yaml:"bands"`
}

func newViewResult(view monitor.StageView) viewResult {
	stage := view.StageIndex
	if view.FailedStage > 0 {
		stage = view.FailedStage
	}
	return viewResult{
		View:  view,
		Stage: monitor.StageName(stage),
		Bands: view.Bands(),
	}
}

// writeViewTable prints the status line and the band table.
func writeViewTable(w io.Writer, view monitor.StageView) error {
	fmt.Fprintf(w, "Status:   %s\n", view.StatusMessage)
	fmt.Fprintf(w, "Progress: %s %s\n", output.Bar(int(view.Progress), output.BarWidth), output.Percent(view.Progress))
	switch {
	case view.FailedStage > 0:
		fmt.Fprintf(w, "Stage:    failed at %d/%d (%s)\n", view.FailedStage, monitor.StageCount, monitor.StageName(view.FailedStage))
	case view.StageIndex == monitor.StageAllComplete:
		fmt.Fprintf(w, "Stage:    all %d stages complete\n", monitor.StageCount)
	default:
		fmt.Fprintf(w, "Stage:    %d/%d (%s) %d%%\n", view.StageIndex, monitor.StageCount, monitor.StageName(view.StageIndex), view.StageProgress)
	}
	fmt.Fprintln(w)

	table := components.NewTableModel([]string{"#", "STAGE", "STATE", "PROGRESS"})
	rows := make([][]string, 0, monitor.StageCount)
	for _, b := range view.Bands() {
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.Index),
			b.Name,
			tui.BandIcon(b.State) + " " + strings.ToUpper(b.State.String()),
			fmt.Sprintf("%d%%", b.Percent),
		})
	}
	table.SetRows(rows)
	return tui.RenderTo(w, table)
}
