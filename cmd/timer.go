package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/stopwatch"
)

// timerCmd represents the timer command
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Time how long a robot takes to score its first coral",
	Long: `Starts a stopwatch. Type l and Enter to record a lap, Enter alone to stop.
The result is printed in seconds, ready to pass to encode as timeToScoreCoral.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		assign, _ := cmd.Flags().GetBool("assign")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		elapsed := runTimer(ctx, stopwatch.New(), os.Stdin, os.Stderr)
		if assign {
			fmt.Printf("%s=%s\n", schema.TimeToScoreCoral, stopwatch.Seconds(elapsed))
		} else {
			fmt.Println(stopwatch.Seconds(elapsed))
		}
		return nil
	},
}

// runTimer runs sw until a blank line, EOF or ctx ends, redrawing the
// display on every tick.
func runTimer(ctx context.Context, sw *stopwatch.Stopwatch, in io.Reader, display io.Writer) time.Duration {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-loopCtx.Done():
				return
			}
		}
	}()

	sw.Toggle()
	ticks := sw.Ticks(loopCtx)
	laps := 0

	for {
		select {
		case d, ok := <-ticks:
			if !ok {
				ticks = nil
				continue
			}
			fmt.Fprintf(display, "\r%s", stopwatch.Format(d))
		case line, ok := <-lines:
			if ok && strings.EqualFold(line, "l") {
				laps++
				fmt.Fprintf(display, "\rlap %d  %s\n", laps, stopwatch.Format(sw.Lap()))
				continue
			}
			sw.Toggle()
			d := sw.Elapsed()
			fmt.Fprintf(display, "\r%s\n", stopwatch.Format(d))
			return d
		case <-ctx.Done():
			if sw.Running() {
				sw.Toggle()
			}
			fmt.Fprintln(display)
			return sw.Elapsed()
		}
	}
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.Flags().Bool("assign", false, "Print as timeToScoreCoral=<seconds>")
}
