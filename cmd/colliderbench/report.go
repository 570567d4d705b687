package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gekko3d/voxcollide/bench"
)

func printReport(w io.Writer, r bench.Report) error {
	fmt.Fprintf(w, "%d objects, %d frames, pattern %s, baseline %s\n\n",
		r.Scenario.Objects, r.Scenario.Frames, r.Scenario.Pattern, r.Baseline)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strategy\tinit\tavg frame\tmax frame\tvs baseline\tcolliders\tfaces\tcontacts\tfailed\theap\trss\t")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t\n",
			res.Strategy,
			round(res.InitTime),
			round(res.AvgFrameTime),
			round(res.MaxFrameTime),
			delta(res, r.Baseline),
			res.Metrics.ActiveColliders,
			res.Metrics.TotalFaces,
			res.Contacts,
			res.Metrics.FailedOps,
			bytes(res.HeapDelta),
			bytes(int64(res.RSS)),
		)
	}
	return tw.Flush()
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(time.Microsecond)
	}
	return d
}

func delta(res bench.Result, baseline string) string {
	if res.Strategy == baseline {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", res.DeltaPct)
}

func bytes(n int64) string {
	const unit = 1024
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	if n < unit {
		return fmt.Sprintf("%s%dB", sign, n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%s%.1f%ciB", sign, float64(n)/float64(div), "KMGTPE"[exp])
}
