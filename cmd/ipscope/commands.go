package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/obegron/ipscope/internal/config"
	"github.com/obegron/ipscope/internal/criminalip"
	"github.com/obegron/ipscope/internal/dashboard"
	"github.com/obegron/ipscope/internal/errors"
	"github.com/obegron/ipscope/internal/export"
	"github.com/obegron/ipscope/internal/jsonvalue"
	"github.com/obegron/ipscope/internal/report"
	"github.com/obegron/ipscope/internal/server"
	"github.com/obegron/ipscope/internal/tree"
)

func newClient(cfg config.Config, noFallback bool, logger zerolog.Logger) *criminalip.Client {
	return criminalip.NewClient(criminalip.Config{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
		MockFallback: cfg.MockFallback && !noFallback,
	}, logger)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ─── dashboard ────────────────────────────────────────────────────────────────

type DashboardCmd struct {
	IP        string `help:"Target IP address to prefill." placeholder:"IP"`
	APIKey    string `name:"api-key" help:"Criminal IP API key (overrides config and environment)."`
	ExportDir string `help:"Directory for exported reports." type:"path"`
}

func (c *DashboardCmd) Run(g *Globals) error {
	logger, closeLog, err := g.logger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	m := dashboard.New(dashboard.Config{
		APIKey:    firstNonEmpty(c.APIKey, g.Config.APIKey),
		IP:        firstNonEmpty(c.IP, g.Config.DefaultIP),
		ExportDir: firstNonEmpty(c.ExportDir, g.Config.ExportDir),
		Logger:    logger,
	}, newClient(g.Config, false, logger))

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return errors.NewInputError("cannot run dashboard", err)
	}
	return nil
}

// ─── lookup ───────────────────────────────────────────────────────────────────

type LookupCmd struct {
	IP         string `arg:"" optional:"" help:"Target IP address (default from config)."`
	APIKey     string `name:"api-key" help:"Criminal IP API key (overrides config and environment)."`
	Format     string `short:"f" default:"table" enum:"table,tree,json,csv,txt,html" help:"Output format: ${enum}."`
	Output     string `short:"o" type:"path" help:"Write the report to a file instead of stdout."`
	NoFallback bool   `help:"Fail instead of showing demo data when the lookup fails."`
}

func (c *LookupCmd) Run(g *Globals) error {
	logger, closeLog, err := g.logger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ip := firstNonEmpty(c.IP, g.Config.DefaultIP)
	client := newClient(g.Config, c.NoFallback, logger)
	res, err := client.Analyze(ctx, firstNonEmpty(c.APIKey, g.Config.APIKey), ip)
	if err != nil {
		return err
	}
	if res.Mock {
		printWarning("lookup failed, showing demo data for %s", res.IP)
	}

	out, err := renderLookup(c.Format, ip, res, time.Now(), c.Output == "" && isTerminal())
	if err != nil {
		return err
	}

	if c.Output != "" {
		if err := os.WriteFile(c.Output, []byte(out), 0o644); err != nil {
			return errors.NewExportError(fmt.Sprintf("cannot create file %s", c.Output), err)
		}
		printSuccess("Report written to %s", c.Output)
		return nil
	}
	fmt.Println(strings.TrimRight(out, "\n"))
	return nil
}

// renderLookup renders an analysis for the terminal (table, tree) or as one
// of the export formats.
func renderLookup(format, ip string, res *criminalip.Result, now time.Time, color bool) (string, error) {
	switch format {
	case "table":
		return lookupTables(res, color)
	case "tree":
		out := tree.Render(res.Combined())
		if !color {
			out = ansi.Strip(out)
		}
		return out, nil
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	content, err := export.Render(f, ip, res.Combined(), now)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func lookupTables(res *criminalip.Result, color bool) (string, error) {
	sections := []struct {
		card, table, chart string
		report             jsonvalue.Value
	}{
		{"Malicious Risk Score", "Risk Indicators", "Risk Visualization", res.Malicious},
		{"Suspicious Activity Score", "Suspicious Indicators", "Activity Visualization", res.Suspicious},
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if score, ok := report.InboundScore(s.report); ok {
			b.WriteString(report.Card(s.card, score, color) + "\n\n")
		}
		table, err := report.IndicatorTable(s.table, s.report, report.FormatTable, color)
		if err != nil {
			return "", err
		}
		b.WriteString(table + "\n")
		b.WriteString(s.chart + "\n")
		b.WriteString(report.Chart(report.Bars(s.report), 30, color) + "\n")
	}
	return b.String(), nil
}

// ─── view ─────────────────────────────────────────────────────────────────────

type ViewCmd struct {
	File     string `arg:"" optional:"" help:"JSON or YAML file to read; stdin when omitted."`
	Selector string `arg:"" optional:"" help:"Path selector such as .malicious.score or .items.0."`
	Format   string `short:"f" default:"tree" enum:"tree,table,html,json" help:"Output format: ${enum}."`
	Details  bool   `short:"d" help:"Show container captions in table output."`
	Width    int    `short:"w" default:"80" help:"Maximum width for values in table output."`
}

func (c *ViewCmd) Run(g *Globals) error {
	logger, closeLog, err := g.logger(isTerminal())
	if err != nil {
		return err
	}
	defer closeLog()

	input, selector, err := readInput(c.File, c.Selector, os.Stdin)
	if err != nil {
		return err
	}
	v, err := parseInput(input)
	if err != nil {
		return err
	}
	v, err = jsonvalue.Select(v, selector)
	if err != nil {
		return err
	}

	switch c.Format {
	case "json":
		fmt.Println(string(jsonvalue.MarshalIndent(v, "  ")))
		return nil

	case "html":
		out, err := report.Nested(v, report.NestedOptions{Format: report.FormatHTML, Details: c.Details, MaxWidth: c.Width})
		if err != nil {
			return err
		}
		fmt.Println(report.HTMLStyle)
		fmt.Print(out)
		return nil

	case "table":
		tty := isTerminal()
		out, err := report.Nested(v, report.NestedOptions{Format: report.FormatTable, Details: c.Details, MaxWidth: c.Width, Color: tty})
		if err != nil {
			return err
		}
		// Use the interactive pager only when the tables overflow the terminal.
		if tty && contentWidth(out) > terminalWidth() {
			_, err := tea.NewProgram(dashboard.NewPager(out), tea.WithAltScreen()).Run()
			if err == nil {
				return nil
			}
			// fall back to regular output
			logger.Error().Err(err).Msg("interactive viewer failed")
		}
		fmt.Print(out)
		return nil
	}

	if !isTerminal() {
		fmt.Println(ansi.Strip(tree.Render(v)))
		return nil
	}
	viewer := dashboard.NewViewer(&v, tree.WithLogger(logger))
	if _, err := tea.NewProgram(viewer, tea.WithAltScreen()).Run(); err != nil {
		return errors.NewInputError("cannot run viewer", err)
	}
	return nil
}

// ─── serve ────────────────────────────────────────────────────────────────────

type ServeCmd struct {
	Listen     string `help:"Address to listen on (default from config)." placeholder:"ADDR"`
	NoFallback bool   `help:"Return errors instead of demo data when a lookup fails."`
}

func (c *ServeCmd) Run(g *Globals) error {
	logger, closeLog, err := g.logger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := firstNonEmpty(c.Listen, g.Config.Listen)
	printInfo("ipscope API listening on http://%s (ctrl+c to stop)", addr)
	return server.New(addr, newClient(g.Config, c.NoFallback, logger), logger).Run(ctx)
}

// ─── version ──────────────────────────────────────────────────────────────────

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	colorBold.Printf("ipscope version %s", version)
	colorMuted.Printf(" (%s %s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
