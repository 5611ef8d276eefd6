package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/grading"
	"github.com/markassist/markassist/internal/marks"
)

var updateCmd = &cobra.Command{
	Use:   "update ID A1 A2 EXAM [TOTAL [GRADE]]",
	Short: "Overwrite one student's marks",
	Long: `Overwrites the marks of an existing student. TOTAL defaults to the sum of the
three components and GRADE to the classifier's grade for the new marks.`,
	Args: cobra.RangeArgs(4, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := recordFromArgs(args)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.repo().Command(cmd.Context(), marks.OpUpdateRecord, rec)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if n == 0 {
			warning.Fprintf(out, "No record for %s; nothing was changed.\n", rec.StudentID)
			return nil
		}
		printRecords(out, "Updated", []marks.Record{rec})
		return nil
	},
}

// recordFromArgs parses ID A1 A2 EXAM [TOTAL [GRADE]].
func recordFromArgs(args []string) (marks.Record, error) {
	invalid := func(reason string) error {
		return &marks.ErrValidation{Op: marks.OpUpdateRecord, Reason: reason}
	}

	rec := marks.Record{StudentID: strings.TrimSpace(args[0])}
	if rec.StudentID == "" {
		return marks.Record{}, invalid("student ID must not be empty")
	}

	names := []string{"assignment 1", "assignment 2", "exam", "total"}
	dst := []*int{&rec.Assignment1, &rec.Assignment2, &rec.Exam, &rec.Total}
	for i, s := range args[1:min(len(args), 5)] {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return marks.Record{}, invalid(fmt.Sprintf("%s: %q is not an integer", names[i], s))
		}
		*dst[i] = n
	}
	if len(args) < 5 {
		rec.Total = rec.Sum()
	}

	if len(args) == 6 {
		g := grading.Grade(strings.ToUpper(strings.TrimSpace(args[5])))
		if !g.Valid() {
			return marks.Record{}, invalid(fmt.Sprintf("unknown grade %q", args[5]))
		}
		rec.Grade = g
	} else {
		rec.Grade = rec.Classify()
	}
	return rec, nil
}
