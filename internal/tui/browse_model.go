package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/listctl/internal/loader"
	"github.com/rshade/listctl/internal/logging"
	"github.com/rshade/listctl/internal/pagination"
	"github.com/rshade/listctl/internal/records"
	"github.com/rshade/listctl/internal/tui/listview"
)

// Deleter removes a record at its origin.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Messages for BrowseModel.
type (
	loadedMsg          loader.Result
	reloadRequestedMsg struct{}
	deletedMsg         struct {
		record records.Record
		err    error
	}
)

// BrowseOption configures a BrowseModel.
type BrowseOption func(*BrowseModel)

// WithDeleter routes deletes through d. Without one, deletes only remove
// the record from the view.
func WithDeleter(d Deleter) BrowseOption {
	return func(m *BrowseModel) { m.deleter = d }
}

// WithReloads reloads the dataset whenever ch delivers.
func WithReloads(ch <-chan struct{}) BrowseOption {
	return func(m *BrowseModel) { m.reloads = ch }
}

// WithToastTTL overrides ToastTTL.
func WithToastTTL(d time.Duration) BrowseOption {
	return func(m *BrowseModel) { m.toastTTL = d }
}

// BrowseModel is the Bubble Tea model for paging through one kind of record.
//
// All list state lives in the pagination controller; the model only maps
// keys to controller operations and renders its outputs.
type BrowseModel struct {
	ctx  context.Context
	kind records.Kind
	log  zerolog.Logger

	ctrl    *pagination.Controller[records.Record]
	loader  *loader.Loader
	deleter Deleter
	reloads <-chan struct{}

	state     ViewState
	loaded    bool
	reloading bool
	err       error

	rows       *listview.Model[records.Record]
	search     textinput.Model
	showSearch bool
	statuses   []string
	statusIdx  int // 0 means all statuses

	pendingDelete *records.Record

	loading  *LoadingState
	help     help.Model
	keys     KeyMap
	toast    *Toast
	toastSeq int
	toastTTL time.Duration

	width  int
	height int
}

// NewBrowseModel creates a browser that starts by loading the dataset.
func NewBrowseModel(
	ctx context.Context,
	kind records.Kind,
	ctrl *pagination.Controller[records.Record],
	ld *loader.Loader,
	opts ...BrowseOption,
) *BrowseModel {
	m := &BrowseModel{
		ctx:      ctx,
		kind:     kind,
		log:      logging.ComponentLogger(*logging.FromContext(ctx), "tui"),
		ctrl:     ctrl,
		loader:   ld,
		state:    ViewStateLoading,
		search:   newSearchInput(kind),
		statuses: records.KnownStatuses(kind),
		loading:  NewLoadingState(fmt.Sprintf("Loading %s...", kind)),
		help:     help.New(),
		keys:     DefaultKeyMap(),
		toastTTL: ToastTTL,
		width:    defaultWidth,
		height:   defaultHeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rows = listview.New(ctrl.PageSlice(), m.rowsHeight(), m.width, renderRecord)
	return m
}

func newSearchInput(kind records.Kind) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("Search %s by name...", kind)
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	ti.Prompt = "/ "
	return ti
}

// Init starts the first load and the spinner.
func (m *BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.startLoad(), m.waitForReload())
}

// State returns the current view state.
func (m *BrowseModel) State() ViewState { return m.state }

// Err returns the fatal load error, if any.
func (m *BrowseModel) Err() error { return m.err }

// Controller returns the pagination controller driving the view.
func (m *BrowseModel) Controller() *pagination.Controller[records.Record] { return m.ctrl }

// Toast returns the toast on screen, or nil.
func (m *BrowseModel) Toast() *Toast { return m.toast }

// Update handles messages and updates the model state.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.rows.SetSize(m.rowsHeight(), m.width)
		return m, nil
	case loadedMsg:
		return m.handleLoaded(loader.Result(msg))
	case deletedMsg:
		return m.handleDeleted(msg)
	case reloadRequestedMsg:
		return m, tea.Batch(m.startLoad(), m.waitForReload())
	case toastExpiredMsg:
		if msg.id == m.toastSeq {
			m.toast = nil
		}
		return m, nil
	}

	if m.state == ViewStateLoading || m.reloading {
		if cmd := m.loading.Update(msg); cmd != nil {
			return m, cmd
		}
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.showSearch {
			return m.updateSearch(msg)
		}
		return m, nil
	}

	switch m.state {
	case ViewStateList:
		if m.showSearch {
			return m.handleSearchKey(keyMsg)
		}
		return m.handleListKey(keyMsg)
	case ViewStateConfirmDelete:
		return m.handleConfirmKey(keyMsg)
	case ViewStateLoading, ViewStateError, ViewStateQuitting:
		if key.Matches(keyMsg, m.keys.Quit) {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *BrowseModel) startLoad() tea.Cmd {
	if m.loaded {
		m.reloading = true
	}
	_, run := m.loader.Start(m.ctx)
	return func() tea.Msg { return loadedMsg(run()) }
}

func (m *BrowseModel) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadRequestedMsg{}
	}
}

func (m *BrowseModel) handleLoaded(res loader.Result) (tea.Model, tea.Cmd) {
	if !m.loader.Accept(res) {
		return m, nil
	}
	m.reloading = false

	if res.Err != nil {
		m.log.Error().Ctx(m.ctx).Err(res.Err).Str("kind", string(m.kind)).Msg("load failed")
		if !m.loaded {
			m.err = res.Err
			m.state = ViewStateError
			return m, tea.Quit
		}
		return m, m.showToast(ToastError, "Reload failed: "+res.Err.Error())
	}

	reload := m.loaded
	m.ctrl.Load(res.Records)
	m.loaded = true
	m.state = ViewStateList
	m.search.SetValue("")
	if m.showSearch {
		m.closeSearch()
	}
	m.statusIdx = 0
	m.rows.SetSelected(0)
	m.refreshRows()

	if reload {
		return m, m.showToast(ToastInfo, fmt.Sprintf("Reloaded %d %s", m.ctrl.Len(), m.kind))
	}
	return m, nil
}

func (m *BrowseModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = ViewStateQuitting
		return m, tea.Quit
	case key.Matches(msg, m.keys.Search):
		m.showSearch = true
		m.rows.SetSize(m.rowsHeight(), m.width)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Status):
		m.cycleStatus()
	case key.Matches(msg, m.keys.Next):
		m.ctrl.NextPage()
	case key.Matches(msg, m.keys.Previous):
		m.ctrl.PreviousPage()
	case key.Matches(msg, m.keys.First):
		m.ctrl.FirstPage()
	case key.Matches(msg, m.keys.Last):
		m.ctrl.LastPage()
	case key.Matches(msg, m.keys.Jump):
		m.jumpToShownPage(int(msg.Runes[0] - '0'))
	case key.Matches(msg, m.keys.Delete):
		if item := m.rows.SelectedItem(); item != nil {
			rec := *item
			m.pendingDelete = &rec
			m.state = ViewStateConfirmDelete
		}
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m, m.startLoad()
	case key.Matches(msg, m.keys.ClearAll):
		m.search.SetValue("")
		m.statusIdx = 0
		m.ctrl.ClearFilter()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.rows.SetSize(m.rowsHeight(), m.width)
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		m.rows.Update(msg)
		return m, nil
	default:
		return m, nil
	}
	m.refreshRows()
	return m, nil
}

func (m *BrowseModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.EndSearch):
		m.closeSearch()
		return m, nil
	case key.Matches(msg, m.keys.AbortInput):
		m.search.SetValue("")
		m.ctrl.SetSearchTerm("")
		m.closeSearch()
		m.refreshRows()
		return m, nil
	}
	return m.updateSearch(msg)
}

func (m *BrowseModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.ctrl.SetSearchTerm(after)
		m.refreshRows()
	}
	return m, cmd
}

func (m *BrowseModel) closeSearch() {
	m.showSearch = false
	m.search.Blur()
	m.rows.SetSize(m.rowsHeight(), m.width)
}

func (m *BrowseModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		rec := *m.pendingDelete
		m.pendingDelete = nil
		m.state = ViewStateList
		return m, m.deleteCmd(rec)
	case key.Matches(msg, m.keys.Cancel):
		m.pendingDelete = nil
		m.state = ViewStateList
	case key.Matches(msg, m.keys.Quit):
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	return m, nil
}

func (m *BrowseModel) deleteCmd(rec records.Record) tea.Cmd {
	if m.deleter == nil {
		return func() tea.Msg { return deletedMsg{record: rec} }
	}
	d, ctx := m.deleter, m.ctx
	return func() tea.Msg {
		return deletedMsg{record: rec, err: d.Delete(ctx, rec.ID)}
	}
}

func (m *BrowseModel) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	entry := logging.NewAuditEntry("delete", string(m.kind), msg.record.ID)
	entry.Success = msg.err == nil
	entry.Err = msg.err
	logging.AuditLoggerFromContext(m.ctx).Log(m.ctx, entry)

	if msg.err != nil {
		m.log.Warn().Ctx(m.ctx).Err(msg.err).Str("record_id", msg.record.ID).Msg("delete failed")
		return m, m.showToast(ToastError, fmt.Sprintf("Could not delete %q: %v", msg.record.Name, msg.err))
	}

	if !m.ctrl.RemoveRecord(msg.record.ID) {
		return m, nil
	}
	m.refreshRows()

	text := fmt.Sprintf("Deleted %q", msg.record.Name)
	if m.deleter == nil {
		text = fmt.Sprintf("Removed %q from this view", msg.record.Name)
	}
	return m, m.showToast(ToastInfo, text)
}

func (m *BrowseModel) showToast(level ToastLevel, text string) tea.Cmd {
	m.toastSeq++
	m.toast = &Toast{Level: level, Text: text}
	return expireToast(m.toastSeq, m.toastTTL)
}

func (m *BrowseModel) cycleStatus() {
	m.statusIdx = (m.statusIdx + 1) % (len(m.statuses) + 1)
	if m.statusIdx == 0 {
		m.ctrl.SetStatusFilter(nil)
		return
	}
	m.ctrl.SetStatusFilter([]string{m.statuses[m.statusIdx-1]})
}

// jumpToShownPage goes to the n-th page number in the page strip.
func (m *BrowseModel) jumpToShownPage(n int) {
	pages := pagination.Pages(m.ctrl.PageWindow())
	if n < 1 || n > len(pages) {
		return
	}
	m.ctrl.GoToPage(pages[n-1])
}

func (m *BrowseModel) refreshRows() {
	m.rows.SetItems(m.ctrl.PageSlice())
}

func (m *BrowseModel) rowsHeight() int {
	h := m.height - chromeHeight
	if m.help.ShowAll {
		h -= len(m.keys.FullHelp())
	}
	return max(h, minRows)
}

// View renders the current view.
func (m *BrowseModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return errorStyle.Render(fmt.Sprintf("Error loading %s: %v", m.kind, m.err)) + "\n"
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateList, ViewStateConfirmDelete:
		return m.renderList()
	default:
		return ""
	}
}

func (m *BrowseModel) renderList() string {
	parts := []string{m.renderTitle(), headerStyle.Render(recordHeader())}

	switch {
	case m.ctrl.NoRecords():
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("No %s yet.", m.kind)))
	case m.ctrl.Empty():
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("No %s match the current filter.", m.kind)))
	case len(m.ctrl.PageSlice()) == 0:
		parts = append(parts, subtleStyle.Render(fmt.Sprintf(
			"Page %d is past the last page (%d). Press g or G.", m.ctrl.CurrentPage(), m.ctrl.TotalPages())))
	default:
		parts = append(parts, m.rows.View())
	}

	parts = append(parts, RenderPageStrip(m.ctrl.PageWindow(), m.ctrl.CurrentPage(), m.ctrl.TotalPages()))

	switch {
	case m.state == ViewStateConfirmDelete && m.pendingDelete != nil:
		parts = append(parts, confirmStyle.Render(fmt.Sprintf("Delete %q? [y/N]", m.pendingDelete.Name)))
	case m.toast != nil:
		parts = append(parts, m.toast.View())
	case m.reloading:
		parts = append(parts, m.loading.View()+" reloading...")
	}

	if m.showSearch {
		parts = append(parts, m.search.View())
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *BrowseModel) renderTitle() string {
	meta := m.ctrl.Meta()
	title := titleStyle.Render(kindTitle(m.kind))

	var info []string
	if meta.Start > 0 {
		info = append(info, fmt.Sprintf("%d-%d of %d", meta.Start, meta.End, meta.TotalItems))
	} else {
		info = append(info, fmt.Sprintf("0 of %d", meta.TotalItems))
	}
	if m.ctrl.FilteredLen() != m.ctrl.Len() {
		info = append(info, fmt.Sprintf("%d total", m.ctrl.Len()))
	}
	status := "all"
	if m.statusIdx > 0 {
		status = m.statuses[m.statusIdx-1]
	}
	info = append(info, "status: "+status)
	if term := m.search.Value(); term != "" {
		info = append(info, fmt.Sprintf("search: %q", term))
	}
	return title + "  " + subtleStyle.Render(strings.Join(info, " · "))
}

func kindTitle(kind records.Kind) string {
	switch kind {
	case records.KindGroups:
		return "Broadcast groups"
	case records.KindFlows:
		return "Flows"
	default:
		return string(kind)
	}
}
