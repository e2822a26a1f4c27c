package cli

import (
	"fmt"
	"time"

	"github.com/go-notes-nosql/internal/pkg/timebucket"
	"github.com/spf13/cobra"
)

// newBucketCmd prints which listing a note_date falls into for a caller's
// timezone, along with that caller's present-day window.
func newBucketCmd(now func() time.Time) *cobra.Command {
	var (
		at     int64
		tz     string
		nowArg int64
	)
	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Classify a note_date as past, present or future",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := now()
			if cmd.Flags().Changed("now") {
				ref = time.Unix(nowArg, 0)
			}
			date := ref.Unix()
			if cmd.Flags().Changed("at") {
				date = at
			}
			off := timebucket.ParseOffset(tz, ref)
			start := timebucket.DayStart(ref, off)
			b := timebucket.Classify(date, off, ref)
			fmt.Fprintf(cmd.OutOrStdout(), "%s offset=%d today=[%d,%d)\n", b, off, start, start+timebucket.SecondsPerDay)
			return nil
		},
	}
	cmd.Flags().Int64Var(&at, "at", 0, "note_date in unix seconds (defaults to now)")
	cmd.Flags().StringVar(&tz, "tz", "", "minutes east of UTC or an IANA zone name")
	cmd.Flags().Int64Var(&nowArg, "now", 0, "reference instant in unix seconds")
	return cmd
}
