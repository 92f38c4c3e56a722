// Package report exports study progress as an .xlsx workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/mentor"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
)

const (
	ProgressSheet = "Progress"
	ActivitySheet = "Activity"
)

var (
	progressHeader = []any{"Topic", "Label", "Category", "Studied", "Best score (%)"}
	activityHeader = []any{"Time", "Type", "Topic", "Details"}
)

// Write renders the workbook for p over the catalog topics to w.
// Timestamps are shown in now's location.
func Write(w io.Writer, c *catalog.Catalog, p *progress.UserProgress, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProgressSheet); err != nil {
		return fmt.Errorf("naming progress sheet: %w", err)
	}
	if _, err := f.NewSheet(ActivitySheet); err != nil {
		return fmt.Errorf("creating activity sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	ov := progress.BuildOverview(c, p)
	if err := writeProgress(f, ov, bold, now); err != nil {
		return err
	}
	if err := writeActivity(f, c, p.RecentActivity, bold, now.Location()); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeProgress(f *excelize.File, ov progress.Overview, style int, now time.Time) error {
	if err := setRow(f, ProgressSheet, 1, progressHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(ProgressSheet, "A1", "E1", style); err != nil {
		return fmt.Errorf("styling progress header: %w", err)
	}

	for i, row := range ov.Topics {
		var best any
		if row.Attempted {
			best = row.BestScore
		}
		studied := "No"
		if row.Studied {
			studied = "Yes"
		}
		values := []any{row.Topic.Title, row.Label, string(row.Topic.Category), studied, best}
		if err := setRow(f, ProgressSheet, i+2, values); err != nil {
			return err
		}
	}

	summary := len(ov.Topics) + 3
	if err := setRow(f, ProgressSheet, summary, []any{"Overall mastery (%)", ov.OverallMastery}); err != nil {
		return err
	}
	if err := setRow(f, ProgressSheet, summary+1, []any{"Topics completed", fmt.Sprintf("%d/%d", ov.Completed, ov.TotalTopics)}); err != nil {
		return err
	}
	if err := setRow(f, ProgressSheet, summary+2, []any{"Exported", now.Format(time.RFC3339)}); err != nil {
		return err
	}
	if err := f.SetColWidth(ProgressSheet, "A", "A", 42); err != nil {
		return fmt.Errorf("sizing progress columns: %w", err)
	}

	if len(ov.Topics) == 0 {
		return nil
	}
	last := len(ov.Topics) + 1
	err := f.AddChart(ProgressSheet, "G2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$E$1", ProgressSheet),
			Categories: fmt.Sprintf("%s!$B$2:$B$%d", ProgressSheet, last),
			Values:     fmt.Sprintf("%s!$E$2:$E$%d", ProgressSheet, last),
		}},
		Title:  []excelize.RichTextRun{{Text: mentor.AppName + ": best quiz scores"}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
	if err != nil {
		return fmt.Errorf("adding score chart: %w", err)
	}
	return nil
}

func writeActivity(f *excelize.File, c *catalog.Catalog, entries []progress.Activity, style int, loc *time.Location) error {
	if err := setRow(f, ActivitySheet, 1, activityHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(ActivitySheet, "A1", "D1", style); err != nil {
		return fmt.Errorf("styling activity header: %w", err)
	}

	for i, a := range entries {
		topic := a.TopicID
		if t, ok := c.Lookup(a.TopicID); ok {
			topic = t.Title
		}
		values := []any{a.Time().In(loc).Format("2006-01-02 15:04"), string(a.Kind), topic, a.Details}
		if err := setRow(f, ActivitySheet, i+2, values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(ActivitySheet, "D", "D", 60); err != nil {
		return fmt.Errorf("sizing activity columns: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
