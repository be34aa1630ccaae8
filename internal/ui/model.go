package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tabxml/internal/converter"
	"tabxml/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	statePreview
	stateProcessing
	stateComplete
	stateError
)

// PreviewRows is the number of data rows shown before converting.
const PreviewRows = 15

type Model struct {
	state        state
	filepicker   filepicker.Model
	selectedFile string
	tableData    *types.Table
	preview      table.Model
	opts         converter.Options
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	data *types.Table
	err  error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(opts converter.Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#7DD3FC"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#7DD3FC"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#38BDF8")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	prog := progress.New(progress.WithGradient("#38BDF8", "#7DD3FC"))

	return Model{
		state:      stateFilePicker,
		filepicker: fp,
		opts:       opts,
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case statePreview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "esc", "backspace":
				m.state = stateFilePicker
				m.tableData = nil
				return m, nil
			case "enter":
				m.state = stateProcessing
				return m.convertFile()
			default:
				var cmd tea.Cmd
				m.preview, cmd = m.preview.Update(msg)
				return m, cmd
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.tableData = msg.data
		m.preview = buildPreview(msg.data)
		m.state = statePreview
		return m, nil

	case conversionResultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := converter.LoadTable(path)
		return fileLoadedMsg{data: data, err: err}
	}
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	// Capture for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	selectedFile := m.selectedFile
	opts := m.opts

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := converter.ConvertFile(selectedFile, "", opts, progressChan)
				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(), // Start progress bar animation
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return res
			}
			return nil
		}

		return progressMsg(p)
	}
}

// buildPreview renders the loaded table's headers and first rows.
func buildPreview(data *types.Table) table.Model {
	cols := make([]table.Column, len(data.Headers))
	for i, h := range data.Headers {
		width := len(h)
		for j := 0; j < len(data.Rows) && j < PreviewRows; j++ {
			if i < len(data.Rows[j]) && len(data.Rows[j][i]) > width {
				width = len(data.Rows[j][i])
			}
		}
		if width > 24 {
			width = 24
		}
		if width < 4 {
			width = 4
		}
		cols[i] = table.Column{Title: h, Width: width}
	}

	rows := make([]table.Row, 0, PreviewRows)
	for i := 0; i < len(data.Rows) && i < PreviewRows; i++ {
		rows = append(rows, table.Row(data.Rows[i]))
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#38BDF8")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#0C4A6E"))
	t.SetStyles(s)

	return t
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case statePreview:
		return m.viewPreview()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📄 tabxml - Spreadsheet to XML Converter"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV or XLSX file to convert"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📄 Data Preview"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	shown := len(m.tableData.Rows)
	if shown > PreviewRows {
		shown = PreviewRows
	}
	s.WriteString(fmt.Sprintf("%d column(s), %d row(s), showing first %d\n\n",
		len(m.tableData.Headers), len(m.tableData.Rows), shown))

	s.WriteString(m.preview.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("↑/↓: scroll • enter: convert • esc: pick another file • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📄 Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Converting table to XML...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20 // Leave room for padding and borders
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	inputPath := m.result.InputFile
	if len(inputPath) > maxPathLen {
		inputPath = "..." + inputPath[len(inputPath)-maxPathLen+3:]
	}

	outputPath := m.result.OutputFile
	if len(outputPath) > maxPathLen {
		outputPath = "..." + outputPath[len(outputPath)-maxPathLen+3:]
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", inputPath))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", outputPath)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Rows converted: %d (%d columns)\n", m.result.Rows, len(m.result.Columns)))
	s.WriteString(fmt.Sprintf("Execution time: %.2fs\n", m.result.Elapsed.Seconds()))
	s.WriteString("\n")

	for _, w := range m.result.Warnings {
		s.WriteString(WarningStyle.Render(fmt.Sprintf("⚠ %s", w)))
		s.WriteString("\n")
	}
	if len(m.result.Warnings) > 0 {
		s.WriteString("\n")
	}

	if m.result.Report.OK {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ %s", m.result.Report.Message)))
	} else {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %s", m.result.Report.Message)))
	}
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())

	var fe *converter.FormatError
	if errors.As(m.err, &fe) {
		s.WriteString("\n\n")
		s.WriteString("Problem detected in the following raw XML snippet:")
		s.WriteString("\n")
		s.WriteString(SubtitleStyle.Render(fe.Excerpt))
	}

	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
