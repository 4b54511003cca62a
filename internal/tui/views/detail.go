package views

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	enginegeo "github.com/kenmiya/gurume/internal/engine/geo"
	"github.com/kenmiya/gurume/internal/engine/hours"
	"github.com/kenmiya/gurume/internal/engine/storage"
	"github.com/kenmiya/gurume/internal/model"
	"github.com/kenmiya/gurume/internal/tui/styles"
)

type toastExpiredMsg struct{}

type DetailModel struct {
	favorites *storage.Store
	shop      model.Shop
	origin    *model.Coordinate
	toast     string
}

func NewDetailModel(favorites *storage.Store, msg ShowDetailMsg) DetailModel {
	return DetailModel{
		favorites: favorites,
		shop:      msg.Shop,
		origin:    msg.Origin,
	}
}

func (m DetailModel) Init() tea.Cmd {
	return nil
}

func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case toastExpiredMsg:
		m.toast = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return DetailClosed{} }

		case "f":
			nowFav, err := m.favorites.Toggle(m.shop)
			switch {
			case err != nil:
				m.toast = "Could not update favorites"
			case nowFav:
				m.toast = "Added to favorites"
			default:
				m.toast = "Removed from favorites"
			}
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return toastExpiredMsg{}
			})
		}
	}
	return m, nil
}

func (m DetailModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(m.shop.Name))
	if m.favorites.IsFavorite(m.shop.ID) {
		b.WriteString(" " + styles.FavoriteMark.Render("♥"))
	}
	b.WriteString("\n")

	if m.shop.Catch != "" {
		b.WriteString(styles.Subtitle.Render(m.shop.Catch))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.field("Genre", m.shop.GenreName))
	b.WriteString(m.field("Budget", m.shop.BudgetName))
	b.WriteString(m.field("Address", m.shop.Address))
	b.WriteString(m.field("Station", m.shop.StationName))
	b.WriteString(m.field("Access", m.shop.Access))
	b.WriteString(m.renderHours())
	if m.origin != nil {
		dest := model.Coordinate{Lat: m.shop.Lat, Lng: m.shop.Lng}
		b.WriteString(m.field("Distance", enginegeo.DistanceText(m.origin, dest)))
	}
	b.WriteString(m.field("Capacity", m.shop.Capacity.String()))
	b.WriteString(m.field("Card", m.shop.Card))
	b.WriteString(m.field("Parking", m.shop.Parking))
	b.WriteString(m.field("Website", m.shop.WebsiteURL))

	if m.toast != "" {
		b.WriteString("\n")
		b.WriteString(styles.Subtitle.Render("✓ " + m.toast))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("f toggle favorite • esc back"))

	return styles.Border.Render(b.String())
}

func (m DetailModel) field(label, value string) string {
	if value == "" {
		return ""
	}
	return styles.Label.Render(label) + " " + styles.Value.Render(value) + "\n"
}

func (m DetailModel) renderHours() string {
	if m.shop.Open == "" {
		return ""
	}
	line := styles.Label.Render("Hours") + " " + styles.Value.Render(m.shop.Open)

	switch hours.Evaluate(m.shop.Open, time.Now()) {
	case hours.StatusOpen:
		line += "  " + styles.OpenBadge.Render("● open now")
	case hours.StatusClosed:
		line += "  " + styles.ClosedBadge.Render("○ closed now")
	}
	return line + "\n"
}
