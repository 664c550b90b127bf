package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/travelmate/ai/metrics"
	"github.com/hrygo/travelmate/ai/orchestrator"
	"github.com/hrygo/travelmate/ai/session"
)

const chatHelp = `Commands:
  /history            show the conversation so far
  /summary            show what the assistant knows about you
  /location LAT LNG   set your current location
  /metrics            show counters for this session
  /clear              forget the conversation
  /quit               leave`

var (
	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			detector, err := newDetector(p)
			if err != nil {
				return err
			}

			exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
			orch := orchestrator.Initialize(p.UserID,
				orchestrator.WithDetector(detector),
				orchestrator.WithMetrics(exporter),
				orchestrator.WithSessionOptions(session.WithMaxHistory(p.MaxHistory)),
			)
			return runChat(cmd.Context(), orch, exporter, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	detectCmd = &cobra.Command{
		Use:   "detect TEXT...",
		Short: "Print the intent detected for TEXT",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			detector, err := newDetector(p)
			if err != nil {
				return err
			}

			result := detector.Detect(strings.Join(args, " "), session.NewManager(p.UserID).Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
)

// runChat reads one turn per line from in until EOF or /quit.
// exporter may be nil, which disables /metrics.
func runChat(ctx context.Context, orch *orchestrator.Orchestrator, exporter *metrics.PrometheusExporter, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Hi! I'm your travel assistant. Type /help for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := runChatCommand(orch, exporter, line, out)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		resp, err := orch.Process(ctx, line)
		if err != nil {
			return err
		}
		printResponse(out, resp)
	}
}

func runChatCommand(orch *orchestrator.Orchestrator, exporter *metrics.PrometheusExporter, line string, out io.Writer) (bool, error) {
	cm := orch.ContextManager()
	fields := strings.Fields(line)

	switch fields[0] {
	case "/quit", "/exit":
		fmt.Fprintln(out, "Safe travels!")
		return true, nil
	case "/help":
		fmt.Fprintln(out, chatHelp)
	case "/history":
		for _, m := range cm.ConversationHistory() {
			fmt.Fprintf(out, "[%s] %s\n", m.Role, m.Content)
		}
	case "/summary":
		fmt.Fprintln(out, cm.Summary())
	case "/metrics":
		if exporter == nil {
			return false, errors.New("metrics are disabled")
		}
		text, err := exporter.ExportText()
		if err != nil {
			return false, errors.Wrap(err, "export metrics")
		}
		fmt.Fprint(out, text)
	case "/clear":
		cm.ClearHistory()
		fmt.Fprintln(out, "History cleared.")
	case "/location":
		if len(fields) != 3 {
			return false, errors.New("usage: /location LAT LNG")
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, errors.Wrap(err, "latitude")
		}
		lng, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return false, errors.Wrap(err, "longitude")
		}
		if err := cm.UpdateLocation(lat, lng); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Location set to %.4f, %.4f.\n", lat, lng)
	default:
		return false, errors.Errorf("unknown command %s", fields[0])
	}
	return false, nil
}

func printResponse(out io.Writer, resp *orchestrator.Response) {
	fmt.Fprintln(out, resp.Message)
	if resp.RequiresUserConfirmation {
		fmt.Fprintln(out, "(please confirm)")
	}
	for _, s := range resp.Suggestions {
		fmt.Fprintf(out, "  - %s\n", s)
	}
}
