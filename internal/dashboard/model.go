// Package dashboard is the interactive terminal dashboard: the analysis
// form, the loading screen, and the results with their tabs and export
// dialog.
package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/obegron/ipscope/internal/criminalip"
	"github.com/obegron/ipscope/internal/errors"
	"github.com/obegron/ipscope/internal/export"
	"github.com/obegron/ipscope/internal/jsonvalue"
	"github.com/obegron/ipscope/internal/report"
	"github.com/obegron/ipscope/internal/tree"
)

const (
	progressInterval = 200 * time.Millisecond
	progressStep     = 10
	progressCap      = 90

	validationMessage = "Please enter both API key and target IP address"
)

type state uint8

const (
	stateForm state = iota
	stateLoading
	stateResults
)

type tab uint8

const (
	tabMalicious tab = iota
	tabSuspicious
	tabRaw
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabMalicious:
		return "Malicious Analysis"
	case tabSuspicious:
		return "Suspicious Analysis"
	}
	return "Raw Data"
}

const (
	fieldAPIKey = iota
	fieldIP
	fieldCount
)

// Analyzer runs one lookup. *criminalip.Client satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, apiKey, ip string) (*criminalip.Result, error)
}

// Config seeds the dashboard.
type Config struct {
	APIKey    string
	IP        string
	ExportDir string
	Logger    zerolog.Logger
	// Now and Clipboard are replaced in tests.
	Now       func() time.Time
	Clipboard func(string) error
}

type progressTickMsg struct{ seq int }

type analysisDoneMsg struct {
	seq    int
	result *criminalip.Result
	err    error
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	keys   KeyMap
	help   help.Model
	logger zerolog.Logger
	now    func() time.Time

	analyzer  Analyzer
	exportDir string

	state  state
	inputs []textinput.Model
	focus  int
	err    string

	spinner  spinner.Model
	progress progress.Model
	percent  int
	loadSeq  int
	cancel   context.CancelFunc

	target string
	result *criminalip.Result
	data   *jsonvalue.Value
	tab    tab
	pane   pane
	tree   tree.Model

	exporting bool
	exportIdx int
	status    string

	width  int
	height int
	ready  bool
}

// New builds the dashboard in its form state.
func New(cfg Config, analyzer Analyzer) Model {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IP == "" {
		cfg.IP = criminalip.DefaultTarget
	}
	logger := cfg.Logger.With().Str("component", "dashboard").Logger()

	apiKey := textinput.New()
	apiKey.Prompt = "› "
	apiKey.Placeholder = "Enter your Criminal IP API key"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '•'
	apiKey.SetValue(cfg.APIKey)

	ip := textinput.New()
	ip.Prompt = "› "
	ip.Placeholder = "e.g., " + criminalip.DefaultTarget
	ip.SetValue(cfg.IP)

	inputs := []textinput.Model{apiKey, ip}
	inputs[fieldAPIKey].Focus()

	treeOpts := []tree.Option{tree.WithLogger(logger)}
	if cfg.Clipboard != nil {
		treeOpts = append(treeOpts, tree.WithClipboard(cfg.Clipboard))
	}

	return Model{
		keys:      DefaultKeyMap(),
		help:      help.New(),
		logger:    logger,
		now:       cfg.Now,
		analyzer:  analyzer,
		exportDir: cfg.ExportDir,
		inputs:    inputs,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		progress:  progress.New(progress.WithGradient("#2563eb", "#60a5fa"), progress.WithWidth(40)),
		pane:      newPane(80, 10),
		tree:      tree.New(treeOpts...),
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Result returns the analysis on screen, or nil.
func (m Model) Result() *criminalip.Result { return m.result }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-8, 10), 60)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.stopLoading()
			return m, tea.Quit
		}
		if m.exporting {
			return m.updateExport(msg)
		}
		switch m.state {
		case stateForm:
			return m.updateForm(msg)
		case stateLoading:
			if key.Matches(msg, m.keys.Cancel) {
				m.stopLoading()
				m.state = stateForm
				m.percent = 0
				m.logger.Info().Msg("analysis cancelled")
			}
			return m, nil
		case stateResults:
			return m.updateResults(msg)
		}

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressTickMsg:
		if m.state != stateLoading || msg.seq != m.loadSeq {
			return m, nil
		}
		m.percent = min(m.percent+progressStep, progressCap)
		return m, progressTick(msg.seq)

	case analysisDoneMsg:
		if msg.seq != m.loadSeq || m.state != stateLoading {
			return m, nil
		}
		m.stopLoading()
		return m.finishAnalysis(msg), nil

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("export failed")
			m.status = errors.UserFriendlyError(msg.err)
		} else {
			m.logger.Info().Str("path", msg.path).Msg("export written")
			m.status = "Exported to " + msg.path
		}
		return m, nil
	}

	// Clipboard results and resets belong to the tree viewer.
	var cmd tea.Cmd
	m.tree, cmd = m.tree.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextField):
		return m, m.focusField((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.Cancel):
		if m.result != nil {
			m.state = stateResults
			m.layout()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// submit validates the form and starts the lookup, the progress ticker and
// the spinner.
func (m Model) submit() (tea.Model, tea.Cmd) {
	apiKey := strings.TrimSpace(m.inputs[fieldAPIKey].Value())
	ip := strings.TrimSpace(m.inputs[fieldIP].Value())
	if apiKey == "" || ip == "" {
		m.err = validationMessage
		return m, nil
	}

	m.err = ""
	m.status = ""
	m.target = ip
	m.state = stateLoading
	m.percent = 0
	m.loadSeq++

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.logger.Info().Str("ip", ip).Msg("analysis started")
	return m, tea.Batch(
		m.spinner.Tick,
		progressTick(m.loadSeq),
		analyzeCmd(ctx, m.analyzer, m.loadSeq, apiKey, ip),
	)
}

func (m *Model) stopLoading() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func progressTick(seq int) tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg {
		return progressTickMsg{seq: seq}
	})
}

func analyzeCmd(ctx context.Context, a Analyzer, seq int, apiKey, ip string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.Analyze(ctx, apiKey, ip)
		return analysisDoneMsg{seq: seq, result: res, err: err}
	}
}

func (m Model) finishAnalysis(msg analysisDoneMsg) Model {
	if msg.err != nil {
		m.state = stateForm
		m.percent = 0
		m.err = "Analysis failed: " + errors.UserFriendlyError(msg.err)
		return m
	}

	m.percent = 100
	m.state = stateResults
	m.result = msg.result
	combined := msg.result.Combined()
	m.data = &combined
	m.tab = tabMalicious
	m.tree = m.tree.SetValue(m.data)
	if msg.result.Mock {
		m.status = "Lookup failed, showing demo data"
	}
	m.layout()
	return m
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		m.setTab((m.tab + 1) % tabCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.setTab((m.tab + tabCount - 1) % tabCount)
		return m, nil
	case key.Matches(msg, m.keys.TabOne):
		m.setTab(tabMalicious)
		return m, nil
	case key.Matches(msg, m.keys.TabTwo):
		m.setTab(tabSuspicious)
		return m, nil
	case key.Matches(msg, m.keys.TabThree):
		m.setTab(tabRaw)
		return m, nil
	case key.Matches(msg, m.keys.Export):
		m.exporting = true
		m.exportIdx = 0
		return m, nil
	case key.Matches(msg, m.keys.NewAnalysis):
		m.state = stateForm
		return m, m.focusField(fieldAPIKey)
	}

	var cmd tea.Cmd
	if m.tab == tabRaw {
		m.tree, cmd = m.tree.Update(msg)
	} else {
		m.pane, cmd = m.pane.Update(msg, m.keys)
	}
	return m, cmd
}

func (m *Model) setTab(t tab) {
	if m.tab == t {
		return
	}
	m.tab = t
	m.layout()
}

func (m Model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.exporting = false
	case key.Matches(msg, m.keys.DialogUp):
		m.exportIdx = (m.exportIdx + len(export.Formats) - 1) % len(export.Formats)
	case key.Matches(msg, m.keys.DialogDown):
		m.exportIdx = (m.exportIdx + 1) % len(export.Formats)
	case key.Matches(msg, m.keys.Submit):
		m.exporting = false
		return m, exportCmd(m.exportDir, export.Formats[m.exportIdx], m.target, *m.data, m.now())
	}
	return m, nil
}

func exportCmd(dir string, f export.Format, ip string, data jsonvalue.Value, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := export.Write(dir, f, ip, data, now)
		return exportDoneMsg{path: path, err: err}
	}
}

// layout sizes the pane and tree to the space left under the chrome and
// re-renders the active tab.
func (m *Model) layout() {
	if m.state != stateResults || m.result == nil {
		return
	}
	used := lipgloss.Height(m.headerView()) +
		lipgloss.Height(m.cardsView()) +
		lipgloss.Height(m.tabsView()) +
		lipgloss.Height(m.footerView())
	body := max(m.height-used, 3)

	switch m.tab {
	case tabRaw:
		m.tree = m.tree.SetSize(m.width, body)
	default:
		m.pane.SetSize(m.width, body)
		m.pane.SetContent(m.tabContent(m.tab))
	}
}

// tabContent renders the indicator table and chart of one report.
func (m Model) tabContent(t tab) string {
	rep, tableTitle, chartTitle := m.result.Malicious, "Risk Indicators", "Risk Visualization"
	if t == tabSuspicious {
		rep, tableTitle, chartTitle = m.result.Suspicious, "Suspicious Indicators", "Activity Visualization"
	}

	table, err := report.IndicatorTable("", rep, report.FormatTable, true)
	if err != nil {
		m.logger.Error().Err(err).Msg("cannot render indicator table")
		table = errorStyle.Render(err.Error())
	}

	return sectionStyle.Render(tableTitle) + "\n" +
		strings.TrimRight(table, "\n") + "\n\n" +
		sectionStyle.Render(chartTitle) + "\n" +
		report.Chart(report.Bars(rep), 30, true)
}
