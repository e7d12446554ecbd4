package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Banh-Canh/cinedeck/internal/nav"
	"github.com/Banh-Canh/cinedeck/pkg/playback"
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E8E3F3")).
			Background(lipgloss.Color("#1a1b26")).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#3b4261")).
			Padding(0, 2).
			Margin(0).
			Bold(true)

	headerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#bb9af7")).
				Bold(true)

	headerStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#9ece6a"))

	headerDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3b4261"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bb9af7")).
			Background(lipgloss.Color("#1f2335")).
			Padding(0, 1).
			Bold(true)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#bb9af7")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7aa2f7")).
			Underline(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#bb9af7")).
			Background(lipgloss.Color("#24283b")).
			Padding(1, 2)
)

var listHelp = strings.Join([]string{
	"↑↓/jk: navigate",
	"←→/PgUp/PgDn: page",
	"g/G: top/bottom",
	"Enter/p: play",
	"/: search",
	"t: themes",
	"c: categories",
	"a: all movies",
	"h/Bksp: back",
	"q: quit",
}, " • ")

var searchHelp = strings.Join([]string{
	"type to search",
	"↑↓/Tab: pick suggestion",
	"Enter: search",
	"Esc: leave search",
}, " • ")

var menuHelp = strings.Join([]string{
	"↑↓/jk: navigate",
	"Enter: open",
	"Esc: cancel",
}, " • ")

var modalHelp = strings.Join([]string{
	"Esc/q/x: close",
	"click outside to close",
}, " • ")

func (m model) View() string {
	if m.player.modal.State() == playback.Open {
		return m.renderModal()
	}

	header := m.renderHeader()
	searchBar := m.renderSearchBar()

	leftWidth := m.leftWidth()
	rightWidth := m.rightWidth()
	contentHeight := m.contentHeight()

	var leftPane string
	switch {
	case m.focus == themeMenuFocus || m.focus == categoryMenuFocus:
		leftPane = m.renderMenu(leftWidth, contentHeight)
	case m.ctrl.SuggestionsVisible():
		leftPane = m.renderSuggestions(leftWidth, contentHeight)
	default:
		leftPane = m.renderItemList(leftWidth, contentHeight)
	}
	rightPane := m.renderDetails(rightWidth, contentHeight)

	leftStyle := lipgloss.NewStyle().
		Width(leftWidth).
		Height(contentHeight).
		Border(lipgloss.RoundedBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color("#3b4261"))

	rightStyle := lipgloss.NewStyle().
		Width(rightWidth).
		Height(contentHeight).
		Border(lipgloss.RoundedBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("#3b4261"))

	content := lipgloss.JoinHorizontal(lipgloss.Top, leftStyle.Render(leftPane), rightStyle.Render(rightPane))
	return lipgloss.JoinVertical(lipgloss.Left, header, searchBar, content, m.renderHelp())
}

func (m model) leftWidth() int {
	return (m.width / 2) - 2
}

func (m model) rightWidth() int {
	return m.width - m.leftWidth() - 2
}

// contentHeight leaves room for the header, the search bar and the help line.
func (m model) contentHeight() int {
	return max(5, m.height-5)
}

func (m model) renderHeader() string {
	appName := headerTitleStyle.Render("󰚯 CINEDECK")

	state := m.ctrl.State()
	var icon string
	switch state.Kind {
	case nav.SearchView:
		icon = "󰍉 "
	case nav.ThemeView, nav.CategoryView:
		icon = "󰉖 "
	default:
		icon = "󰉕 "
	}
	divider := headerDividerStyle.Render(" │ ")
	leftSide := appName + divider + icon + state.Heading + divider + dimStyle.Render(m.ctrl.Address())

	var status string
	if p := m.player.modal.Provider(); p != nil {
		status = headerStatusStyle.Render("󰐊 " + p.Name())
	} else {
		status = noticeStyle.Render("󰐊 no player")
	}

	usedSpace := lipgloss.Width(leftSide) + lipgloss.Width(status)
	spacer := strings.Repeat(" ", max(1, m.width-usedSpace-4))
	return headerStyle.Width(m.width).Render(leftSide + spacer + status)
}

func (m model) renderSearchBar() string {
	bar := m.search.View()
	if m.focus != searchFocus && m.search.Value() == "" {
		bar = dimStyle.Render("󰍉 Press / to search")
	}
	if m.notice != "" {
		bar += "  " + noticeStyle.Render(m.notice)
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(bar)
}

func (m model) renderItemList(width, height int) string {
	var content strings.Builder

	title := m.ctrl.State().Heading
	if len(title) > width-4 && width > 7 {
		title = title[:width-7] + "..."
	}
	content.WriteString(titleStyle.Width(width - 4).Render(title))
	content.WriteString("\n")

	units := m.results.Units()
	if len(units) == 0 {
		content.WriteString(noticeStyle.Render(m.results.Placeholder()))
		return content.String()
	}

	availableLines := max(1, height-3)
	start := m.viewportOffset
	end := min(start+availableLines, len(units))

	maxItemWidth := max(10, width-6)
	for i := start; i < end; i++ {
		u := units[i]
		itemText := u.Name
		if u.Year != "" {
			itemText += " (" + u.Year + ")"
		}
		if lipgloss.Width(itemText) > maxItemWidth {
			itemText = lipgloss.NewStyle().MaxWidth(maxItemWidth-1).Render(itemText) + "…"
		}

		if i == m.cursor {
			content.WriteString(selectedStyle.Render(" ▶ " + itemText + " "))
		} else {
			content.WriteString(itemStyle.Render("   " + itemText))
		}
		if i < end-1 {
			content.WriteString("\n")
		}
	}

	if start > 0 {
		content.WriteString("\n" + dimStyle.Render("  ↑ more titles above"))
	}
	if end < len(units) {
		content.WriteString("\n" + dimStyle.Render("  ↓ more titles below"))
	}
	return content.String()
}

func (m model) renderSuggestions(width, height int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Width(width - 4).Render("Suggestions"))
	for i, t := range m.ctrl.Suggestions() {
		if i >= height-2 {
			break
		}
		content.WriteString("\n")
		if i == m.suggestionCursor {
			content.WriteString(selectedStyle.Render(" ▶ " + t.Name + " "))
		} else {
			content.WriteString(itemStyle.Render("   " + t.Name))
		}
	}
	return content.String()
}

func (m model) renderMenu(width, height int) string {
	title := "Themes"
	if m.focus == categoryMenuFocus {
		title = "Categories"
	}
	var content strings.Builder
	content.WriteString(titleStyle.Width(width - 4).Render(title))

	entries := m.menuEntries()
	start := 0
	if visible := height - 2; m.menuCursor >= visible {
		start = m.menuCursor - visible + 1
	}
	for i := start; i < len(entries) && i-start < height-2; i++ {
		content.WriteString("\n")
		if i == m.menuCursor {
			content.WriteString(selectedStyle.Render(" ▶ " + entries[i] + " "))
		} else {
			content.WriteString(itemStyle.Render("   " + entries[i]))
		}
	}
	return content.String()
}

func (m model) renderDetails(width, height int) string {
	unit, ok := m.results.At(m.cursor)
	if !ok {
		return dimStyle.Render("Select a title to view details")
	}

	var details strings.Builder
	linesUsed := 0
	maxLines := height - 2

	details.WriteString(titleStyle.Width(width - 4).Render("Details"))
	details.WriteString("\n")
	linesUsed++

	if unit.Image != "" && maxLines > 12 {
		w, h := thumbnailSize(width, height)
		if thumb := m.thumbnailCache[thumbnailKey(unit.TitleID, w, h)]; thumb != "" {
			details.WriteString(thumb)
			details.WriteString("\n\n")
			linesUsed += lipgloss.Height(thumb) + 1
		}
	}

	lines := []string{fmt.Sprintf("Name: %s", unit.Name)}
	if unit.Theme != "" {
		lines = append(lines, fmt.Sprintf("Theme: %s", unit.Theme))
	}
	if unit.Type != "" {
		lines = append(lines, fmt.Sprintf("Type: %s", unit.Type))
	}
	if unit.Year != "" {
		lines = append(lines, fmt.Sprintf("Year: %s", unit.Year))
	}
	if unit.Length != "" {
		lines = append(lines, fmt.Sprintf("Length: %s", unit.Length))
	}
	for _, line := range lines {
		if linesUsed >= maxLines {
			return details.String()
		}
		if len(line) > width-4 && width > 7 {
			line = line[:width-7] + "..."
		}
		details.WriteString(infoStyle.Render(line))
		details.WriteString("\n")
		linesUsed++
	}

	if linesUsed < maxLines-1 {
		details.WriteString("\n")
		details.WriteString(dimStyle.Render("Press Enter to play"))
	}
	return details.String()
}

// modalBounds returns the position and outer size of the player overlay.
func (m model) modalBounds() (x, y, w, h int) {
	w = max(20, min(m.width-4, 72))
	h = max(8, min(m.height-4, 18))
	return max(0, (m.width-w)/2), max(0, (m.height-h)/2), w, h
}

func (m model) renderModal() string {
	snap := m.player.modal.Snapshot()
	x, y, w, h := m.modalBounds()
	inner := w - 6 // border and padding

	var body strings.Builder
	body.WriteString(titleStyle.Render(snap.Title.Name))
	body.WriteString("\n")

	meta := []string{}
	for _, v := range []string{snap.Title.Theme, snap.Title.Type, snap.Title.YearString(), snap.Title.Length} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		body.WriteString(dimStyle.Render(strings.Join(meta, " · ")))
		body.WriteString("\n")
	}
	body.WriteString("\n")

	content := snap.Content
	body.WriteString(infoStyle.Render("Player: " + snap.Provider))
	body.WriteString("\n")
	if content.Status != "" {
		body.WriteString(headerStatusStyle.Render(content.Status))
		body.WriteString("\n")
	}
	if content.Src != "" {
		body.WriteString(lipgloss.NewStyle().Width(inner).Render(linkStyle.Render(content.Src)))
		body.WriteString("\n")
		body.WriteString(dimStyle.Render("Open this address in a browser to watch."))
		body.WriteString("\n")
	}
	body.WriteString("\n")
	body.WriteString(dimStyle.Render(modalHelp))

	box := modalStyle.
		Width(w - 2).
		Height(h - 2).
		MaxHeight(h).
		Render(body.String())
	return lipgloss.NewStyle().MarginLeft(x).MarginTop(y).Render(box)
}

func (m model) renderHelp() string {
	help := listHelp
	switch m.focus {
	case searchFocus:
		help = searchHelp
	case themeMenuFocus, categoryMenuFocus:
		help = menuHelp
	}
	if lipgloss.Width(help) > m.width-2 {
		return dimStyle.Render(lipgloss.NewStyle().Width(m.width - 2).Render(help))
	}
	return dimStyle.Render(help)
}
