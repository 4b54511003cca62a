package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phuslu/log"

	"github.com/kenmiya/gurume/internal/engine/hotpepper"
	"github.com/kenmiya/gurume/internal/engine/search"
	"github.com/kenmiya/gurume/internal/engine/storage"
	"github.com/kenmiya/gurume/internal/tui/views"
)

type viewID int

const (
	viewHome viewID = iota
	viewSearch
	viewResults
	viewDetail
	viewFavorites
	viewRecent
)

// App is the root bubbletea model. It owns the engine components and swaps
// between views on navigation messages.
type App struct {
	paginator *search.Paginator
	favorites *storage.Store

	currentView viewID
	detailFrom  viewID // view to return to when detail closes
	width       int
	height      int

	home    views.HomeModel
	search  views.SearchModel
	results views.ResultsModel
	detail  views.DetailModel
	favs    views.FavoritesModel
	recent  views.RecentModel
}

func NewApp(paginator *search.Paginator, favorites *storage.Store) App {
	return App{
		paginator:   paginator,
		favorites:   favorites,
		currentView: viewHome,
		home:        views.NewHomeModel(),
		search:      views.NewSearchModel(),
	}
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.NavigateToHome:
		a.currentView = viewHome
		return a, nil

	case views.NavigateToSearch:
		a.currentView = viewSearch
		a.search = views.NewSearchModel()
		return a, a.search.Init()

	case views.NavigateToFavorites:
		a.currentView = viewFavorites
		a.favs = views.NewFavoritesModel(a.favorites)
		return a, a.favs.Init()

	case views.NavigateToRecent:
		a.currentView = viewRecent
		var entries []views.RecentEntry
		for _, e := range loadRecent() {
			entries = append(entries, views.RecentEntry{
				Coord:  coordOf(e),
				Params: paramsOf(e),
				RanAt:  e.RanAt,
			})
		}
		a.recent = views.NewRecentModel(entries)
		return a, a.recent.Init()

	case views.StartSearchMsg:
		a.currentView = viewResults
		a.results = views.NewResultsModel(a.paginator, a.favorites, msg)
		saveRecent(msg.Coord, msg.Params)
		return a, tea.Batch(a.results.Init(), a.sizeCmd())

	case views.ShowDetailMsg:
		a.detailFrom = a.currentView
		a.currentView = viewDetail
		a.detail = views.NewDetailModel(a.favorites, msg)
		return a, a.detail.Init()

	case views.DetailClosed:
		a.currentView = a.detailFrom
		if a.currentView == viewFavorites {
			a.favs = a.favs.Refresh()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewSearch:
		var m tea.Model
		m, cmd = a.search.Update(msg)
		a.search = m.(views.SearchModel)
	case viewResults:
		var m tea.Model
		m, cmd = a.results.Update(msg)
		a.results = m.(views.ResultsModel)
	case viewDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(views.DetailModel)
	case viewFavorites:
		var m tea.Model
		m, cmd = a.favs.Update(msg)
		a.favs = m.(views.FavoritesModel)
	case viewRecent:
		var m tea.Model
		m, cmd = a.recent.Update(msg)
		a.recent = m.(views.RecentModel)
	}

	return a, cmd
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewHome:
		content = a.home.View()
	case viewSearch:
		content = a.search.View()
	case viewResults:
		content = a.results.View()
	case viewDetail:
		content = a.detail.View()
	case viewFavorites:
		content = a.favs.View()
	case viewRecent:
		content = a.recent.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run wires the engine and starts the TUI.
func Run(apiKey, dbPath string, logger *log.Logger) error {
	client := hotpepper.NewClient(apiKey, hotpepper.WithLogger(logger))
	paginator := search.NewPaginator(client, logger)

	store, err := storage.NewStore(dbPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	p := tea.NewProgram(NewApp(paginator, store), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
