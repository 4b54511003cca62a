package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kenmiya/gurume/internal/model"
	"github.com/kenmiya/gurume/internal/tui/styles"
)

// Field indices — fieldRange is a virtual field (not a textinput)
const (
	fieldKeyword = iota
	fieldRange
	fieldLat
	fieldLng
	fieldCount
)

// Default search point when the user leaves lat/lng blank (Tokyo Station).
const (
	defaultLat = 35.6812
	defaultLng = 139.7671
)

type SearchModel struct {
	inputs    []textinput.Model
	rangeCode int
	focused   int
	err       string
}

func NewSearchModel() SearchModel {
	inputs := make([]textinput.Model, fieldCount)

	inputs[fieldKeyword] = newInput("sushi, ramen, izakaya...", 40)
	inputs[fieldRange] = textinput.New() // placeholder, never used
	inputs[fieldLat] = newInput(fmt.Sprintf("%.4f", defaultLat), 15)
	inputs[fieldLng] = newInput(fmt.Sprintf("%.4f", defaultLng), 15)

	m := SearchModel{
		inputs:    inputs,
		rangeCode: 3,
		focused:   fieldKeyword,
	}
	m.inputs[fieldKeyword].Focus()
	return m
}

func newInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Width = width
	return ti
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }

		case "up", "shift+tab":
			m.err = ""
			m.focusField((m.focused + fieldCount - 1) % fieldCount)
			return m, nil

		case "down", "tab":
			m.err = ""
			m.focusField((m.focused + 1) % fieldCount)
			return m, nil

		case "left":
			if m.focused == fieldRange && m.rangeCode > model.RangeMin {
				m.rangeCode--
				return m, nil
			}

		case "right":
			if m.focused == fieldRange && m.rangeCode < model.RangeMax {
				m.rangeCode++
				return m, nil
			}

		case "enter":
			if cmd := m.submit(); cmd != nil {
				return m, cmd
			}
			return m, nil
		}
	}

	// Update focused textinput (skip the virtual range field)
	var cmd tea.Cmd
	if m.focused != fieldRange {
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	}
	return m, cmd
}

func (m *SearchModel) focusField(idx int) {
	if m.focused != fieldRange {
		m.inputs[m.focused].Blur()
	}
	m.focused = idx
	if idx != fieldRange {
		m.inputs[idx].Focus()
	}
}

func (m *SearchModel) submit() tea.Cmd {
	coord := model.Coordinate{Lat: defaultLat, Lng: defaultLng}

	if v := strings.TrimSpace(m.inputs[fieldLat].Value()); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil || lat < -90 || lat > 90 {
			m.err = "latitude must be a number between -90 and 90"
			return nil
		}
		coord.Lat = lat
	}
	if v := strings.TrimSpace(m.inputs[fieldLng].Value()); v != "" {
		lng, err := strconv.ParseFloat(v, 64)
		if err != nil || lng < -180 || lng > 180 {
			m.err = "longitude must be a number between -180 and 180"
			return nil
		}
		coord.Lng = lng
	}

	params := model.SearchParams{
		Range:   m.rangeCode,
		Keyword: strings.TrimSpace(m.inputs[fieldKeyword].Value()),
	}
	if err := params.Validate(); err != nil {
		m.err = err.Error()
		return nil
	}

	return func() tea.Msg {
		return StartSearchMsg{Coord: coord, Params: params}
	}
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("New Search"))
	b.WriteString("\n\n")

	b.WriteString(m.renderField(fieldKeyword, "Keyword", m.inputs[fieldKeyword].View()))
	b.WriteString(m.renderField(fieldRange, "Radius", m.renderRange()))
	b.WriteString(m.renderField(fieldLat, "Latitude", m.inputs[fieldLat].View()))
	b.WriteString(m.renderField(fieldLng, "Longitude", m.inputs[fieldLng].View()))

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("✗ " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("tab next field • ←→ radius • enter search • esc back"))

	border := styles.Border
	if m.err == "" {
		border = styles.FocusedBorder
	}
	return border.Render(b.String())
}

func (m SearchModel) renderField(idx int, label, value string) string {
	marker := "  "
	labelStyle := styles.Label
	if idx == m.focused {
		marker = "> "
		labelStyle = labelStyle.Foreground(styles.Primary)
	}
	return fmt.Sprintf("%s%s %s\n", marker, labelStyle.Render(label), value)
}

func (m SearchModel) renderRange() string {
	var parts []string
	for code := model.RangeMin; code <= model.RangeMax; code++ {
		label := model.RangeLabel(code)
		if code == m.rangeCode {
			parts = append(parts, styles.ActiveItem.Render("["+label+"]"))
		} else {
			parts = append(parts, styles.InactiveItem.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " "))
}
