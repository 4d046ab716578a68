package app

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/patternware/satchel/pkg/bag"
	"github.com/patternware/satchel/pkg/config"
	"github.com/patternware/satchel/pkg/share"
	"github.com/patternware/satchel/pkg/text"
	"github.com/patternware/satchel/pkg/types"
	v1 "github.com/patternware/satchel/pkg/types/v1"
	"github.com/patternware/satchel/pkg/ui"
	"github.com/patternware/satchel/pkg/view"
)

// selectionState is the state of the currently selected item.
type selectionState int

const (
	selectionIdle selectionState = iota
	selectionSettingNote
	selectionPromptingRemove
	selectionViewingDetail
)

type refreshMsg struct{}
type storePollMsg struct{}

type Application struct {
	*config.Config

	UseAltScreen bool

	store    *bag.Store
	pipeline *view.Pipeline
	filter   view.FilterState

	keys      applicationKeyMap
	list      list.Model
	noteInput textinput.Model
	viewport  viewport.Model

	selection selectionState
	detail    string
	width     int
	height    int
	quitting  bool
}

func (m Application) Init() tea.Cmd {
	cmds := []tea.Cmd{refreshCmd(), storePollCmd()}
	if m.UseAltScreen {
		cmds = append(cmds, tea.EnterAltScreen)
	}
	return tea.Batch(cmds...)
}

func refreshCmd() tea.Cmd {
	return func() tea.Msg { return refreshMsg{} }
}

// storePollCmd re-renders periodically so snapshots applied by the storage
// watcher (another instance wrote the bag) become visible.
func storePollCmd() tea.Cmd {
	return tea.Every(2*time.Second, func(time.Time) tea.Msg {
		return storePollMsg{}
	})
}

func (m Application) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		topGap, rightGap, bottomGap, leftGap := appStyle.GetPadding()
		m.list.SetSize(msg.Width-leftGap-rightGap, msg.Height-topGap-bottomGap)
		m.viewport.Width = msg.Width - leftGap - rightGap
		m.viewport.Height = msg.Height - topGap - bottomGap
		return m, nil

	case refreshMsg, storePollMsg:
		cmds = append(cmds, m.refresh())
		if _, ok := msg.(storePollMsg); ok {
			cmds = append(cmds, storePollCmd())
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch m.selection {
		case selectionSettingNote:
			return m.updateNoteInput(msg)
		case selectionPromptingRemove:
			return m.updateRemovePrompt(msg)
		case selectionViewingDetail:
			return m.updateDetail(msg)
		}

		// Don't match any of the keys below if we're actively filtering.
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Open):
			if item, ok := m.list.SelectedItem().(bagItem); ok {
				m.selection = selectionViewingDetail
				m.detail = m.renderDetail(item.row.Item)
				m.viewport.SetContent(m.detail)
			}
			return m, nil

		case key.Matches(msg, m.keys.Note):
			if item, ok := m.list.SelectedItem().(bagItem); ok {
				m.selection = selectionSettingNote
				m.noteInput.SetValue(item.row.Item.Notes)
				m.noteInput.CursorEnd()
				m.noteInput.Focus()
				return m, textinput.Blink
			}
			return m, nil

		case key.Matches(msg, m.keys.Remove):
			if _, ok := m.list.SelectedItem().(bagItem); ok {
				m.selection = selectionPromptingRemove
			}
			return m, nil

		case key.Matches(msg, m.keys.MoveUp):
			return m, m.moveSelected(-1)

		case key.Matches(msg, m.keys.MoveDown):
			return m, m.moveSelected(1)

		case key.Matches(msg, m.keys.ToggleSort):
			if m.filter.Sort == view.SortAZ {
				m.filter.SetSort(view.SortZA)
			} else {
				m.filter.SetSort(view.SortAZ)
			}
			return m, m.refresh()

		case key.Matches(msg, m.keys.ToggleGroup):
			m.filter.ManualOrder = false
			m.filter.GroupByTheme = !m.filter.GroupByTheme
			return m, m.refresh()

		case key.Matches(msg, m.keys.CycleTag):
			m.cycleFilter(tagDimension)
			return m, m.refresh()

		case key.Matches(msg, m.keys.CycleAud):
			m.cycleFilter(audienceDimension)
			return m, m.refresh()

		case key.Matches(msg, m.keys.ClearAll):
			m.filter.Reset()
			cmds = append(cmds, m.refresh())
			cmds = append(cmds, m.list.NewStatusMessage(statusMessageStyle("Filters cleared")))
			return m, tea.Batch(cmds...)

		case key.Matches(msg, m.keys.Share):
			u, err := share.BuildURL(m.Config.BaseURL, m.store.Items())
			if err != nil {
				return m, m.list.NewStatusMessage(errorMessageStyle(err.Error()))
			}
			return m, m.list.NewStatusMessage(statusMessageStyle(text.EmojiShared + " " + u.String()))
		}
	}

	newlist, cmd := m.list.Update(msg)
	m.list = newlist
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Application) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	switch m.selection {
	case selectionViewingDetail:
		return appStyle.Render(m.viewport.View())
	case selectionSettingNote:
		return appStyle.Render(m.list.View() + "\n" + m.noteInput.View())
	case selectionPromptingRemove:
		prompt := ui.FaintRedFg(text.EmojiQuestion + " Remove this pattern from your bag? (y/N)")
		return appStyle.Render(m.list.View() + "\n" + prompt)
	}

	return appStyle.Render(m.list.View())
}

func (m Application) updateNoteInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if item, ok := m.list.SelectedItem().(bagItem); ok {
			m.store.UpdateNotes(item.row.Item.Pattern.ID, m.noteInput.Value())
		}
		m.selection = selectionIdle
		m.noteInput.Blur()
		return m, m.refresh()
	case "esc":
		m.selection = selectionIdle
		m.noteInput.Blur()
		return m, nil
	}

	newInput, cmd := m.noteInput.Update(msg)
	m.noteInput = newInput
	return m, cmd
}

func (m Application) updateRemovePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" {
		if item, ok := m.list.SelectedItem().(bagItem); ok {
			m.store.Remove(item.row.Item.Pattern.ID)
		}
	}
	// Any other key cancels removal.
	m.selection = selectionIdle
	return m, m.refresh()
}

func (m Application) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.selection = selectionIdle
		return m, nil
	}
	newViewport, cmd := m.viewport.Update(msg)
	m.viewport = newViewport
	return m, cmd
}

// moveSelected swaps the selected item with its neighbor, entering manual
// order first. Manual order suppresses filters and grouping, so after the
// transition the list indexes the bag's own order.
func (m *Application) moveSelected(delta int) tea.Cmd {
	selected, ok := m.list.SelectedItem().(bagItem)
	if !ok {
		return nil
	}

	if !m.filter.ManualOrder {
		m.filter.BeginManualOrder()
	}

	items := m.store.Items()
	i := indexByID(items, selected.row.Item.Pattern.ID)
	j := i + delta
	if i < 0 || j < 0 || j >= len(items) {
		return m.refresh()
	}

	items[i], items[j] = items[j], items[i]
	m.store.SetItems(items)

	cmd := m.refresh()
	// Keep the cursor on the item that moved.
	if delta < 0 {
		m.list.CursorUp()
	} else {
		m.list.CursorDown()
	}
	return cmd
}

type filterDimension int

const (
	tagDimension filterDimension = iota
	audienceDimension
)

// cycleFilter advances the single-selection filter for one dimension
// through every taxonomy title present in the bag, then back to "no
// filter". Entering a filter leaves manual order.
func (m *Application) cycleFilter(dim filterDimension) {
	m.filter.ManualOrder = false

	options := m.taxonomyOptions(dim)
	current := m.filter.TagIDs
	if dim == audienceDimension {
		current = m.filter.AudienceIDs
	}

	next := nextOption(options, current)
	selected := map[types.ID]bool{}
	if next != "" {
		selected[next] = true
	}

	if dim == audienceDimension {
		m.filter.AudienceIDs = selected
	} else {
		m.filter.TagIDs = selected
	}
}

// taxonomyOptions lists the distinct taxonomy ids present in the bag for
// one dimension, ordered by title for a stable cycle.
func (m *Application) taxonomyOptions(dim filterDimension) []types.ID {
	seen := map[types.ID]string{}
	for _, it := range m.store.Items() {
		refs := it.Pattern.Tags
		if dim == audienceDimension {
			refs = it.Pattern.Audiences
		}
		for _, r := range refs {
			seen[r.ID] = r.Title
		}
	}

	ids := make([]types.ID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if seen[ids[i]] == seen[ids[j]] {
			return ids[i] < ids[j]
		}
		return seen[ids[i]] < seen[ids[j]]
	})
	return ids
}

func nextOption(options []types.ID, current map[types.ID]bool) types.ID {
	if len(options) == 0 {
		return ""
	}
	if len(current) == 0 {
		return options[0]
	}
	for i, id := range options {
		if current[id] {
			if i+1 < len(options) {
				return options[i+1]
			}
			return "" // wrapped: back to no filter
		}
	}
	return options[0]
}

func indexByID(items []v1.CollectedItem, id types.ID) int {
	for i := range items {
		if items[i].Pattern.ID == id {
			return i
		}
	}
	return -1
}

// refresh recomputes the projection and pushes it into the list.
func (m *Application) refresh() tea.Cmd {
	projection := m.pipeline.Apply(m.store.Items(), m.filter)

	var items []list.Item
	if projection.Grouped {
		for _, g := range projection.Groups {
			for _, r := range g.Rows {
				items = append(items, bagItem{row: r, group: g.Label})
			}
		}
	} else {
		for _, r := range projection.Rows {
			items = append(items, bagItem{row: r})
		}
	}

	m.list.Title = m.listTitle(projection)
	return m.list.SetItems(items)
}

func (m *Application) listTitle(projection view.Projection) string {
	if !m.store.Hydrated() {
		return text.EmojiBag + " Carrier bag (loading…)"
	}

	count := m.store.Len()
	title := fmt.Sprintf("%s Carrier bag · %d patterns", text.EmojiBag, count)
	if count == 1 {
		title = text.EmojiBag + " Carrier bag · 1 pattern"
	}

	switch {
	case projection.Manual:
		title += " · manual order"
	case len(projection.Flatten()) != count:
		title += fmt.Sprintf(" · %d shown", len(projection.Flatten()))
	}
	return title
}
