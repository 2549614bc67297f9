// Package picker is the terminal avatar picker. It drives a Session with
// the arrow keys and only lets the user continue once the avatar is ready.
package picker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"avatar-picker/internal/avatar"
	"avatar-picker/internal/catalog"
)

// Session is the part of avatar.Session the picker drives.
type Session interface {
	Catalog() *catalog.Catalog
	State() avatar.State
	SetSex(sex string) error
	SetBodyByBodyNumber(n int) error
	SetBodyByHeadNumber(n int) error
	SetItemByName(name string) error
	RemoveItemByLocation(loc string) error
	SetSkinByName(name string) error
	Missing() []string
	Ready() bool
	Progress() (settled, total int)
	Subscribe(fn func(avatar.Snapshot)) (cancel func())
}

// Run shows the picker until the user continues or quits. It reports
// whether the user continued with a ready avatar.
func Run(ctx context.Context, s Session) (bool, error) {
	m := New(s)
	defer m.Close()
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	return final.(Model).Confirmed(), nil
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	readyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

type rowKind int

const (
	rowSex rowKind = iota
	rowBody
	rowHead
	rowSkin
	rowItem
)

type row struct {
	kind     rowKind
	location string // rowItem only
}

func (r row) label() string {
	switch r.kind {
	case rowSex:
		return "sex"
	case rowBody:
		return "body"
	case rowHead:
		return "head"
	case rowSkin:
		return "skin"
	}
	return r.location
}

type snapshotMsg avatar.Snapshot

// Model is the bubbletea model of the picker.
type Model struct {
	s    Session
	cat  *catalog.Catalog
	rows []row
	idx  int

	snaps  chan avatar.Snapshot
	cancel func()

	status    string
	confirmed bool
}

// New builds a picker over s and subscribes to its changes. Call Close
// when done.
func New(s Session) Model {
	cat := s.Catalog()
	rows := []row{{kind: rowSex}, {kind: rowBody}, {kind: rowHead}, {kind: rowSkin}}
	for _, loc := range cat.Locations() {
		rows = append(rows, row{kind: rowItem, location: loc})
	}

	snaps := make(chan avatar.Snapshot, 1)
	cancel := s.Subscribe(func(snap avatar.Snapshot) {
		// Keep only the latest snapshot.
		select {
		case <-snaps:
		default:
		}
		select {
		case snaps <- snap:
		default:
		}
	})
	return Model{s: s, cat: cat, rows: rows, snaps: snaps, cancel: cancel}
}

// Close stops the session subscription.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Confirmed reports whether the user continued with a ready avatar.
func (m Model) Confirmed() bool { return m.confirmed }

func (m Model) Init() tea.Cmd {
	return m.waitSnapshot()
}

func (m Model) waitSnapshot() tea.Cmd {
	snaps := m.snaps
	return func() tea.Msg {
		return snapshotMsg(<-snaps)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		return m, m.waitSnapshot()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			m.idx = (m.idx + len(m.rows) - 1) % len(m.rows)
		case "down", "j":
			m.idx = (m.idx + 1) % len(m.rows)
		case "left", "h":
			m.status = describe(m.cycle(-1))
		case "right", "l":
			m.status = describe(m.cycle(1))
		case "x", "backspace", "delete":
			if r := m.rows[m.idx]; r.kind == rowItem {
				m.status = describe(m.s.RemoveItemByLocation(r.location))
			}
		case "enter":
			if m.s.Ready() {
				m.confirmed = true
				return m, tea.Quit
			}
			m.status = m.blocked()
		}
	}
	return m, nil
}

func (m Model) blocked() string {
	if missing := m.s.Missing(); len(missing) > 0 {
		return "missing " + strings.Join(missing, ", ")
	}
	settled, total := m.s.Progress()
	return fmt.Sprintf("loading %d/%d bodies", settled, total)
}

func describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, avatar.ErrBodyNotLoaded):
		return "that body is still loading"
	case errors.Is(err, avatar.ErrIncompleteSkin):
		return "that skin is still loading"
	}
	return err.Error()
}

// cycle moves the current row's selection dir steps through its options.
func (m Model) cycle(dir int) error {
	r := m.rows[m.idx]
	st := m.s.State()
	opts, cur := m.options(r, st)
	if len(opts) == 0 {
		return nil
	}
	i := slices.Index(opts, cur)
	if i < 0 && dir < 0 {
		i = 0
	}
	next := opts[((i+dir)%len(opts)+len(opts))%len(opts)]
	if next == cur {
		return nil
	}

	switch r.kind {
	case rowSex:
		return m.s.SetSex(next)
	case rowBody:
		n, _ := strconv.Atoi(next)
		return m.s.SetBodyByBodyNumber(n)
	case rowHead:
		n, _ := strconv.Atoi(next)
		return m.s.SetBodyByHeadNumber(n)
	case rowSkin:
		return m.s.SetSkinByName(next)
	}
	if next == "" {
		return m.s.RemoveItemByLocation(r.location)
	}
	return m.s.SetItemByName(next)
}

// options returns the choices of row r and the current one.
func (m Model) options(r row, st avatar.State) ([]string, string) {
	switch r.kind {
	case rowSex:
		return m.cat.Sexes(), st.Sex
	case rowBody, rowHead:
		var nums []int
		for _, b := range m.cat.Bodies() {
			sex, body, head, ok := catalog.ParseBodyName(b.Name)
			if !ok || sex != st.Sex {
				continue
			}
			n := body
			if r.kind == rowHead {
				if body != st.BodyNumber {
					continue
				}
				n = head
			}
			if !slices.Contains(nums, n) {
				nums = append(nums, n)
			}
		}
		slices.Sort(nums)
		out := make([]string, len(nums))
		for i, n := range nums {
			out[i] = strconv.Itoa(n)
		}
		if r.kind == rowHead {
			return out, strconv.Itoa(st.HeadNumber)
		}
		return out, strconv.Itoa(st.BodyNumber)
	}

	body, ok := m.cat.FindBody(st.SelectedBody)
	if !ok {
		return nil, ""
	}
	if r.kind == rowSkin {
		return body.Skins, st.ActiveSkin
	}
	out := []string{""}
	for _, name := range body.Items {
		if it, ok := m.cat.FindItem(name); ok && it.Location == r.location {
			out = append(out, name)
		}
	}
	return out, st.VisibleItems[r.location]
}

func (m Model) View() string {
	st := m.s.State()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose your avatar"))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		cursor := "  "
		if i == m.idx {
			cursor = cursorStyle.Render("> ")
		}
		_, cur := m.options(r, st)
		value := valueStyle.Render(cur)
		if cur == "" {
			value = dimStyle.Render("none")
		}
		b.WriteString(cursor + labelStyle.Render(r.label()) + value + "\n")
	}

	b.WriteString("\n")
	settled, total := m.s.Progress()
	if settled < total {
		b.WriteString(dimStyle.Render(fmt.Sprintf("loading bodies %d/%d", settled, total)) + "\n")
	}
	if m.status != "" {
		b.WriteString(warnStyle.Render(m.status) + "\n")
	}
	if m.s.Ready() {
		b.WriteString(readyStyle.Render("[enter] continue") + "\n")
	}
	b.WriteString(dimStyle.Render("↑/↓ select  ←/→ change  x remove  q quit"))
	return b.String()
}
