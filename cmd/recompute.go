package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/markassist/markassist/internal/marks"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute [ID | --all]",
	Short: "Reassign grades from the stored marks",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		switch {
		case all && len(args) > 0:
			return errors.New("give either a student ID or --all, not both")
		case !all && len(args) != 1:
			return errors.New("give a student ID or --all")
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		if all {
			return recomputeAll(cmd, e)
		}
		return recomputeOne(cmd, e, args[0])
	},
}

func recomputeOne(cmd *cobra.Command, e *env, id string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	recs, err := e.repo().Run(ctx, marks.All{})
	if err != nil {
		return err
	}
	var (
		rec   marks.Record
		found bool
	)
	for _, r := range recs {
		if r.StudentID == id {
			rec, found = r, true
			break
		}
	}
	if !found {
		warning.Fprintf(out, "No record for %s.\n", id)
		return nil
	}

	_, g, err := e.wf.RecomputeOne(ctx, rec)
	if err != nil {
		return err
	}
	if g == rec.Grade {
		fmt.Fprintf(out, "%s: grade %s is unchanged.\n", id, g)
		return nil
	}
	success.Fprintf(out, "%s: %s → %s\n", id, rec.Grade, g)
	return nil
}

func recomputeAll(cmd *cobra.Command, e *env) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	before, err := e.repo().Run(ctx, marks.All{})
	if err != nil {
		return err
	}
	was := make(map[string]marks.Record, len(before))
	for _, r := range before {
		was[r.StudentID] = r
	}

	after, err := e.wf.RecomputeAll(ctx)
	if err != nil {
		var batch *marks.ErrBatch
		if errors.As(err, &batch) {
			failure.Fprintf(out, "Stopped after %d of %d records. Earlier grades were written.\n", batch.Done, batch.Total)
		}
		return err
	}

	changed := 0
	for _, r := range after {
		if old, ok := was[r.StudentID]; ok && old.Grade != r.Grade {
			fmt.Fprintf(out, "  %-12s %s → %s\n", r.StudentID, old.Grade, r.Grade)
			changed++
		}
	}
	success.Fprintf(out, "Recomputed %d record(s); %d grade(s) changed.\n", len(after), changed)
	return nil
}

func init() {
	recomputeCmd.Flags().Bool("all", false, "Recompute every record")
}
