package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"valuator/internal/adapters/remote"
	"valuator/internal/api"
	"valuator/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	userStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Bold(true)

	assistantStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	citationStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	summaryStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F59E0B")).
		Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444"))
)

const chatHelp = `commands:
  /summary             show the triangulated valuation
  /gut <narrative>     run a gut check on the current numbers
  /save <name>         save the valuation as a named deal
  /deals               list saved deals
  /load <deal-id>      restore a saved deal into this session
  /report <file>       write the report (.md, .html or .pdf)
  /quit                leave
anything else is sent to the copilot`

func newChatCmd() *cobra.Command {
	var (
		server    string
		sessionID string
		async     bool
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the valuation copilot of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := remote.New(server, timeout)
			r := &repl{client: c, out: cmd.OutOrStdout(), async: async}
			return r.run(cmd.Context(), cmd.InOrStdin(), sessionID)
		},
	}
	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "valuator server URL")
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session")
	cmd.Flags().BoolVar(&async, "async", false, "queue AI questions and poll for the answer")
	cmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "per-request timeout")
	return cmd
}

type repl struct {
	client *remote.Client
	out    io.Writer
	async  bool
	id     string
}

func (r *repl) run(ctx context.Context, in io.Reader, sessionID string) error {
	var (
		sess api.Session
		err  error
	)
	if sessionID != "" {
		sess, err = r.client.Session(ctx, sessionID)
	} else {
		sess, err = r.client.CreateSession(ctx)
	}
	if err != nil {
		return err
	}
	r.id = sess.ID

	fmt.Fprintln(r.out, titleStyle.Render("Startup Valuation Copilot"))
	fmt.Fprintf(r.out, "session %s (%s, %s). Type /help for commands.\n", sess.ID, sess.Context.Sector, sess.Context.Region)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, userStyle.Render("you> "))
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if err := r.handle(ctx, line); err != nil {
			fmt.Fprintln(r.out, errorStyle.Render("error: "+err.Error()))
		}
	}
}

func (r *repl) handle(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help":
		fmt.Fprintln(r.out, chatHelp)
	case "/summary":
		sess, err := r.client.Session(ctx, r.id)
		if err != nil {
			return err
		}
		r.printSummary(sess)
	case "/gut":
		res, err := r.client.GutCheck(ctx, r.id, arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "%s\n", assistantStyle.Render(fmt.Sprintf(
			"conviction %.0f/100, adjustment %s\n%s", res.ConvictionScore, money(res.SuggestedAdjustment), res.Reasoning)))
	case "/save":
		d, err := r.client.SaveDeal(ctx, r.id, arg)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "saved %q as %s\n", d.Name, d.ID)
	case "/deals":
		list, err := r.client.Deals(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(r.out, "no saved deals")
		}
		for _, d := range list {
			fmt.Fprintf(r.out, "%s  %s  %s\n", d.ID, d.Date, d.Name)
		}
	case "/load":
		sess, err := r.client.LoadDeal(ctx, r.id, arg)
		if err != nil {
			return err
		}
		r.printSummary(sess)
	case "/report":
		return r.writeReport(ctx, arg)
	default:
		return r.send(ctx, line)
	}
	return nil
}

func (r *repl) send(ctx context.Context, text string) error {
	resp, err := r.client.Send(ctx, r.id, text, !r.async)
	if err != nil {
		return err
	}
	for _, m := range resp.Messages {
		if m.Role == domain.RoleAssistant {
			r.printMessage(m)
		}
	}
	if resp.Pending {
		return r.poll(ctx)
	}
	return nil
}

// poll waits for the queued answer to show up in the transcript.
func (r *repl) poll(ctx context.Context) error {
	before, err := r.client.Transcript(ctx, r.id)
	if err != nil {
		return err
	}
	seen := len(before.Messages)
	if seen > 0 && before.Messages[seen-1].Role == domain.RoleAssistant {
		r.printMessage(before.Messages[seen-1])
		return nil
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(60 * time.Second)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			fmt.Fprintln(r.out, citationStyle.Render("(still thinking, the answer will appear in the transcript)"))
			return nil
		case <-ticker.C:
			t, err := r.client.Transcript(ctx, r.id)
			if err != nil {
				return err
			}
			for _, m := range t.Messages[seen:] {
				if m.Role == domain.RoleAssistant {
					r.printMessage(m)
					return nil
				}
			}
		}
	}
}

func (r *repl) printMessage(m domain.ChatMessage) {
	fmt.Fprintln(r.out, assistantStyle.Render(m.Content))
	if m.GroundingMetadata == nil {
		return
	}
	for _, c := range m.GroundingMetadata.GroundingChunks {
		if c.Web == nil {
			continue
		}
		label := c.Web.Title
		if c.Web.Domain != "" {
			label += " (" + c.Web.Domain + ")"
		}
		fmt.Fprintln(r.out, citationStyle.Render("  source: "+label+" "+c.Web.URI))
	}
}

func (r *repl) printSummary(s api.Session) {
	m := s.Summary.Methods
	lines := []string{
		fmt.Sprintf("%s / %s", s.Context.Sector, s.Context.Region),
		fmt.Sprintf("Berkus             %s", money(m.Berkus)),
		fmt.Sprintf("Scorecard          %s", money(m.Scorecard)),
		fmt.Sprintf("Risk Factor        %s", money(m.RiskFactor)),
		fmt.Sprintf("VC pre-money       %s", money(m.VCPreMoney)),
		fmt.Sprintf("Cost to duplicate  %s", money(m.CostToDuplicate)),
		fmt.Sprintf("Average            %s  (%s to %s)", money(s.Summary.Average), money(s.Summary.Low), money(s.Summary.High)),
	}
	if s.Summary.GutCheckAdjustment != 0 {
		lines = append(lines, fmt.Sprintf("Adjusted           %s", money(s.Summary.Adjusted)))
	}
	for _, w := range s.Summary.Warnings {
		lines = append(lines, errorStyle.Render(w))
	}
	fmt.Fprintln(r.out, summaryStyle.Render(strings.Join(lines, "\n")))
}

func (r *repl) writeReport(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("usage: /report <file.md|file.html|file.pdf>")
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	body, err := r.client.Report(ctx, r.id, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "wrote %s (%s)\n", path, humanize.Bytes(uint64(len(body))))
	return nil
}

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.Comma(int64(-v+0.5))
	}
	return "$" + humanize.Comma(int64(v+0.5))
}
