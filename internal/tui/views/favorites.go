package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kenmiya/gurume/internal/engine/storage"
	"github.com/kenmiya/gurume/internal/model"
	"github.com/kenmiya/gurume/internal/tui/styles"
)

type FavoritesModel struct {
	favorites *storage.Store
	items     []model.Shop
	cursor    int
	toast     string
}

func NewFavoritesModel(favorites *storage.Store) FavoritesModel {
	return FavoritesModel{
		favorites: favorites,
		items:     favorites.List(),
	}
}

func (m FavoritesModel) Init() tea.Cmd {
	return nil
}

func (m FavoritesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case toastExpiredMsg:
		m.toast = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case "d", "backspace":
			if m.cursor < len(m.items) {
				err := m.favorites.Remove(m.items[m.cursor].ID)
				m.items = m.favorites.List()
				if m.cursor >= len(m.items) && m.cursor > 0 {
					m.cursor--
				}
				if err != nil {
					m.toast = "Could not remove favorite"
					return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
						return toastExpiredMsg{}
					})
				}
			}

		case "enter":
			if m.cursor < len(m.items) {
				shop := m.items[m.cursor]
				return m, func() tea.Msg {
					return ShowDetailMsg{Shop: shop}
				}
			}
		}
	}
	return m, nil
}

// Refresh re-reads the store; the App calls it when returning from detail,
// where a favorite may have been toggled off.
func (m FavoritesModel) Refresh() FavoritesModel {
	m.items = m.favorites.List()
	if m.cursor >= len(m.items) && m.cursor > 0 {
		m.cursor = len(m.items) - 1
	}
	return m
}

func (m FavoritesModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Favorites"))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("No favorites yet. Press f on a shop to save it."))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	for i, shop := range m.items {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		meta := shop.GenreName
		if shop.StationName != "" {
			meta += " • " + shop.StationName + " sta."
		}
		metaStr := lipgloss.NewStyle().Foreground(styles.Muted).Render("  " + meta)

		b.WriteString(fmt.Sprintf("%s%s%s%s\n",
			cursor, styles.FavoriteMark.Render("♥ "), style.Render(shop.Name), metaStr))
	}

	if m.toast != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("✗ " + m.toast))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("enter detail • d remove • esc back"))

	return styles.Border.Render(b.String())
}
