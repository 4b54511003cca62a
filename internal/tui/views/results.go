package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	enginegeo "github.com/kenmiya/gurume/internal/engine/geo"
	"github.com/kenmiya/gurume/internal/engine/search"
	"github.com/kenmiya/gurume/internal/engine/storage"
	"github.com/kenmiya/gurume/internal/model"
	"github.com/kenmiya/gurume/internal/tui/styles"
)

type snapshotMsg struct {
	snap search.Snapshot
}

type placeResolvedMsg struct {
	name string
}

type favoritesChangedMsg struct {
	err error
}

type ResultsModel struct {
	paginator *search.Paginator
	favorites *storage.Store
	coord     model.Coordinate
	params    model.SearchParams
	place     string

	snap   search.Snapshot
	cursor int
	height int
	toast  string
}

func NewResultsModel(paginator *search.Paginator, favorites *storage.Store, msg StartSearchMsg) ResultsModel {
	return ResultsModel{
		paginator: paginator,
		favorites: favorites,
		coord:     msg.Coord,
		params:    msg.Params,
		snap:      search.Snapshot{IsLoading: true, CanLoadMore: true},
		height:    24,
	}
}

func (m ResultsModel) Init() tea.Cmd {
	return tea.Batch(m.startSearchCmd(), m.resolvePlaceCmd())
}

func (m ResultsModel) startSearchCmd() tea.Cmd {
	paginator, coord, params := m.paginator, m.coord, m.params
	return func() tea.Msg {
		paginator.StartSearch(context.Background(), coord, params)
		return snapshotMsg{snap: paginator.Snapshot()}
	}
}

func (m ResultsModel) loadMoreCmd(shopID string) tea.Cmd {
	paginator, coord := m.paginator, m.coord
	return func() tea.Msg {
		paginator.RequestMoreIfAtEnd(context.Background(), shopID, coord)
		return snapshotMsg{snap: paginator.Snapshot()}
	}
}

func (m ResultsModel) resolvePlaceCmd() tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		name, err := enginegeo.ReverseGeocode(context.Background(), coord)
		if err != nil {
			return placeResolvedMsg{}
		}
		return placeResolvedMsg{name: name}
	}
}

func (m ResultsModel) toggleFavoriteCmd(shop model.Shop) tea.Cmd {
	favorites := m.favorites
	return func() tea.Msg {
		_, err := favorites.Toggle(shop)
		return favoritesChangedMsg{err: err}
	}
}

func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = msg.snap
		if m.cursor >= len(m.snap.Shops) {
			m.cursor = max(0, len(m.snap.Shops)-1)
		}
		return m, nil

	case placeResolvedMsg:
		m.place = msg.name
		return m, nil

	case favoritesChangedMsg:
		if msg.err != nil {
			m.toast = "Could not update favorites"
			return m, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return toastExpiredMsg{}
			})
		}
		return m, nil

	case toastExpiredMsg:
		m.toast = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToSearch{} }

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "j":
			if m.cursor < len(m.snap.Shops)-1 {
				m.cursor++
			}
			// Reaching the last rendered row is the load-more trigger.
			if len(m.snap.Shops) > 0 && m.cursor == len(m.snap.Shops)-1 {
				return m, m.loadMoreCmd(m.snap.Shops[m.cursor].ID)
			}
			return m, nil

		case "r":
			// Explicit retry after a failed page: same trigger as scrolling.
			if len(m.snap.Shops) > 0 && m.snap.ErrMessage != "" {
				return m, m.loadMoreCmd(m.snap.Shops[len(m.snap.Shops)-1].ID)
			}
			if len(m.snap.Shops) == 0 {
				return m, m.startSearchCmd()
			}
			return m, nil

		case "c":
			paginator := m.paginator
			return m, func() tea.Msg {
				paginator.ClearError()
				return snapshotMsg{snap: paginator.Snapshot()}
			}

		case "f":
			if m.cursor < len(m.snap.Shops) {
				return m, m.toggleFavoriteCmd(m.snap.Shops[m.cursor])
			}
			return m, nil

		case "enter":
			if m.cursor < len(m.snap.Shops) {
				shop := m.snap.Shops[m.cursor]
				origin := m.coord
				return m, func() tea.Msg {
					return ShowDetailMsg{Shop: shop, Origin: &origin}
				}
			}
			return m, nil
		}
	}
	return m, nil
}

func (m ResultsModel) View() string {
	var b strings.Builder

	where := m.place
	if where == "" {
		where = fmt.Sprintf("%.4f, %.4f", m.coord.Lat, m.coord.Lng)
	}
	title := fmt.Sprintf("Results near %s", where)
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	cond := fmt.Sprintf("radius %s", model.RangeLabel(m.params.Range))
	if m.params.Keyword != "" {
		cond += fmt.Sprintf(" • keyword %q", m.params.Keyword)
	}
	if m.snap.Available > 0 {
		cond += fmt.Sprintf(" • %d/%d shops", len(m.snap.Shops), m.snap.Available)
	}
	b.WriteString(styles.Subtitle.Render(cond))
	b.WriteString("\n\n")

	switch {
	case m.snap.IsLoading && len(m.snap.Shops) == 0:
		b.WriteString(styles.InactiveItem.Render("searching..."))
		b.WriteString("\n")
	case len(m.snap.Shops) == 0 && m.snap.ErrMessage == "":
		b.WriteString(styles.InactiveItem.Render("No shops found. Try a wider radius."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderRows())
	}

	if m.snap.ErrMessage != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("✗ " + m.snap.ErrMessage))
		b.WriteString(styles.StatusBar.Render("  r retry • c dismiss"))
		b.WriteString("\n")
	}

	if m.toast != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("✗ " + m.toast))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "↑↓ navigate • enter detail • f favorite • esc back"
	if m.snap.IsLoading {
		help = "loading next page... • " + help
	} else if !m.snap.CanLoadMore && len(m.snap.Shops) > 0 {
		help = "end of results • " + help
	}
	b.WriteString(styles.StatusBar.Render(help))

	return styles.Border.Render(b.String())
}

// renderRows windows the accumulated list around the cursor so long result
// sets fit the terminal.
func (m ResultsModel) renderRows() string {
	visible := m.height - 12
	if visible < 5 {
		visible = 5
	}

	top := 0
	if m.cursor >= visible {
		top = m.cursor - visible + 1
	}

	var b strings.Builder
	end := min(top+visible, len(m.snap.Shops))
	for i := top; i < end; i++ {
		b.WriteString(m.renderRow(i))
	}
	if end < len(m.snap.Shops) || m.snap.CanLoadMore {
		b.WriteString(styles.InactiveItem.Render("  ..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ResultsModel) renderRow(i int) string {
	shop := m.snap.Shops[i]

	cursor := "  "
	nameStyle := styles.InactiveItem
	if i == m.cursor {
		cursor = "> "
		nameStyle = styles.ActiveItem
	}

	fav := "  "
	if m.favorites.IsFavorite(shop.ID) {
		fav = styles.FavoriteMark.Render("♥ ")
	}

	meta := []string{shop.GenreName}
	if d := enginegeo.DistanceText(&m.coord, model.Coordinate{Lat: shop.Lat, Lng: shop.Lng}); d != "" {
		meta = append(meta, d)
	}
	if shop.StationName != "" {
		meta = append(meta, shop.StationName+" sta.")
	}

	metaStr := lipgloss.NewStyle().Foreground(styles.Muted).
		Render("  " + strings.Join(meta, " • "))

	return fmt.Sprintf("%s%s%s%s\n", cursor, fav, nameStyle.Render(shop.Name), metaStr)
}
