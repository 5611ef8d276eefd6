package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/importer"
	"github.com/markassist/markassist/internal/marks"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

func printRecords(w io.Writer, title string, recs []marks.Record) {
	heading.Fprintln(w, title)
	if len(recs) == 0 {
		warning.Fprintln(w, "No records found")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Student ID", "Assignment 1", "Assignment 2", "Exam", "Total", "Grade"})
	table.SetAutoWrapText(false)
	for i, r := range recs {
		grade := string(r.Grade)
		if r.Classify() != r.Grade {
			grade += " *"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.StudentID,
			strconv.Itoa(r.Assignment1),
			strconv.Itoa(r.Assignment2),
			strconv.Itoa(r.Exam),
			strconv.Itoa(r.Total),
			grade,
		})
	}
	table.Render()

	fmt.Fprintf(w, "%d record(s)\n", len(recs))
	for _, r := range recs {
		if r.Classify() != r.Grade {
			warning.Fprintln(w, "* stored grade differs from the classifier; run recompute to fix")
			break
		}
	}
}

func printSummary(w io.Writer, sum marks.Summary) {
	heading.Fprintln(w, "Grade distribution")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Grade", "Name", "Count", "Share"})
	for _, g := range grading.AllGrades() {
		n := sum.ByGrade[g]
		share := 0.0
		if sum.Count > 0 {
			share = float64(n) / float64(sum.Count) * 100
		}
		table.Append([]string{string(g), g.DisplayName(), strconv.Itoa(n), fmt.Sprintf("%.1f%%", share)})
	}
	table.SetFooter([]string{"", "Total", strconv.Itoa(sum.Count), ""})
	table.Render()

	fmt.Fprintf(w, "Mean total: %.2f\n", sum.MeanTotal)
	if sum.Stale > 0 {
		warning.Fprintf(w, "%d stored grade(s) differ from the classifier.\n", sum.Stale)
	}
}

func printImport(w io.Writer, res importer.Result, validateOnly bool) {
	if len(res.Failed) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Line", "Student ID", "Problem"})
		table.SetAutoWrapText(false)
		for _, f := range res.Failed {
			table.Append([]string{strconv.Itoa(f.Line), f.StudentID, f.Err.Error()})
		}
		table.Render()
	}

	switch {
	case validateOnly:
		fmt.Fprintf(w, "Checked %d row(s): %d valid, %d invalid.\n", res.Read, res.Read-len(res.Failed), len(res.Failed))
	case len(res.Failed) > 0:
		warning.Fprintf(w, "Imported %d of %d row(s); %d failed.\n", res.Inserted, res.Read, len(res.Failed))
	default:
		success.Fprintf(w, "Imported %d row(s).\n", res.Inserted)
	}
}
