// Package console implements the interactive terminal client for the patient
// records API. It keeps the record list, the add-patient form and the
// loading and error flags, and reconciles them with API responses.
package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ehr/patientdesk/internal/client"
)

// API is the subset of client.Client the console needs.
type API interface {
	List(ctx context.Context) ([]client.Patient, error)
	Create(ctx context.Context, name string, age int, condition string) (*client.Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type focus int

const (
	focusName focus = iota
	focusAge
	focusCondition
	focusList
	focusCount
)

const (
	msgLoadFailed   = "Failed to load patients"
	msgAddFailed    = "Failed to add patient"
	msgDeleteFailed = "Failed to delete patient"
)

type operation int

const (
	opLoad operation = iota
	opCreate
	opDelete
)

// -- Messages --

type patientsLoadedMsg struct{ items []client.Patient }

type patientCreatedMsg struct{ patient client.Patient }

type patientDeletedMsg struct{ id uuid.UUID }

type opFailedMsg struct {
	op  operation
	err error
}

// Model is the bubbletea model for the console.
type Model struct {
	api    API
	logger zerolog.Logger

	records      []client.Patient
	loading      bool
	errorMessage string

	inputs [3]textinput.Model
	focus  focus
	cursor int

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  styles
}

// New returns a model that loads the record list as soon as it starts.
func New(api API, logger zerolog.Logger) Model {
	m := Model{
		api:     api,
		logger:  logger,
		records: []client.Patient{},
		loading: true,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    defaultKeyMap(),
		styles:  defaultStyles(),
	}

	placeholders := [3]string{"Name", "Age", "Condition"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 64
		ti.Width = 32
		m.inputs[i] = ti
	}
	m.inputs[focusAge].CharLimit = 4
	m.inputs[focusName].Focus()

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.loadPatients())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case patientsLoadedMsg:
		m.loading = false
		m.records = msg.items
		m.clampCursor()
		return m, nil

	case patientCreatedMsg:
		m.records = append([]client.Patient{msg.patient}, m.records...)
		for i := range m.inputs {
			m.inputs[i].Reset()
		}
		return m, nil

	case patientDeletedMsg:
		kept := make([]client.Patient, 0, len(m.records))
		for _, p := range m.records {
			if p.ID != msg.id {
				kept = append(kept, p)
			}
		}
		m.records = kept
		m.clampCursor()
		return m, nil

	case opFailedMsg:
		m.errorMessage = failureMessage(msg.op, msg.err)
		if msg.op == opLoad {
			m.loading = false
		}
		m.logger.Error().Err(msg.err).Str("message", m.errorMessage).Msg("operation failed")
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	if m.focus != focusList {
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
		return m.updateFocusedInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Delete):
		if len(m.records) == 0 {
			return m, nil
		}
		m.errorMessage = ""
		return m, m.deletePatient(m.records[m.cursor].ID)
	case key.Matches(msg, m.keys.Reload):
		m.errorMessage = ""
		if m.loading {
			return m, m.loadPatients()
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadPatients())
	}
	return m, nil
}

// submit sends the form as a create request. Age text must parse as an
// integer; otherwise no request is made.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.errorMessage = ""

	name := m.inputs[focusName].Value()
	condition := m.inputs[focusCondition].Value()
	age, err := strconv.Atoi(strings.TrimSpace(m.inputs[focusAge].Value()))
	if err != nil {
		m.errorMessage = msgAddFailed + ": age must be a whole number"
		return m, nil
	}

	return m, m.createPatient(name, age, condition)
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if focus(i) == f {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m Model) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == focusList {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// -- Commands --

func (m Model) loadPatients() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		items, err := api.List(context.Background())
		if err != nil {
			return opFailedMsg{op: opLoad, err: err}
		}
		return patientsLoadedMsg{items: items}
	}
}

func (m Model) createPatient(name string, age int, condition string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		p, err := api.Create(context.Background(), name, age, condition)
		if err != nil {
			return opFailedMsg{op: opCreate, err: err}
		}
		return patientCreatedMsg{patient: *p}
	}
}

func (m Model) deletePatient(id uuid.UUID) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		if err := api.Delete(context.Background(), id); err != nil {
			return opFailedMsg{op: opDelete, err: err}
		}
		return patientDeletedMsg{id: id}
	}
}

// failureMessage turns an operation error into the text shown to the user.
// Server-provided messages are appended; transport errors are not.
func failureMessage(op operation, err error) string {
	var prefix string
	switch op {
	case opLoad:
		prefix = msgLoadFailed
	case opCreate:
		prefix = msgAddFailed
	default:
		prefix = msgDeleteFailed
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Sprintf("%s: %s", prefix, apiErr.Message)
	}
	return prefix
}
