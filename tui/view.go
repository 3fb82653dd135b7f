// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/vodhound/vodhound/icon"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/util"
)

// recordsHeaderHeight reserves room above the records list for the bucket tab bar.
const recordsHeaderHeight = 2

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)

	activeTabStyle   = lipgloss.NewStyle().Foreground(style.Base).Background(style.Accent).Padding(0, 1).MarginRight(1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(style.Subtext).Padding(0, 1).MarginRight(1)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case resumeState:
		output = b.viewResume()
	case sourcesState:
		output = b.viewSources()
	case searchState:
		output = b.viewSearch()
	case searchingState:
		output = b.viewSearching()
	case recordsState:
		output = b.viewRecords()
	case detailState:
		output = b.viewDetail()
	case errorState:
		output = b.viewError()
	default:
		output = fmt.Sprintf("unhandled state %d", b.state)
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	lines := []string{style.Title("Loading"), "", b.spinnerC.View() + " " + b.progressStatus}
	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewResume() string {
	snapshot := b.pendingSnapshot
	if snapshot == nil {
		return b.renderLines(true, []string{style.Title("Resume Session")})
	}

	var records int
	for _, bucket := range snapshot.Buckets {
		records += len(bucket.Records)
	}

	age := time.Since(time.UnixMilli(snapshot.PersistedAt)).Round(time.Minute)
	saved := "moments ago"
	if age >= time.Minute {
		saved = fmt.Sprintf("%s ago", age)
	}

	return b.renderLines(
		true,
		[]string{
			style.Title("Resume Session"),
			"",
			fmt.Sprintf("%s %s", icon.Get(icon.Search), style.Bold(snapshot.Keyword)),
			style.Faint(fmt.Sprintf("%s across %s, saved %s",
				util.Quantify(records, "record", "records"),
				util.Quantify(len(snapshot.Buckets), "site", "sites"),
				saved)),
		},
	)
}

func (b *statefulBubble) viewSources() string {
	return listExtraPaddingStyle.Render(b.sourcesC.View())
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search Videos"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint(fmt.Sprintf("%s %s (tab to accept)", icon.Get(icon.Question), suggestion)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewSearching() string {
	var ratio float64
	if b.totalSources > 0 {
		ratio = float64(b.doneSources) / float64(b.totalSources)
	}

	lines := []string{
		style.Title("Searching"),
		"",
		b.spinnerC.View() + " " + b.progressStatus,
		b.progressC.ViewAs(ratio),
		"",
	}

	// The ticker keeps the most recent completions in view.
	rows := b.outcomeRows
	if max := b.height - len(lines) - 1; max > 0 && len(rows) > max {
		rows = rows[len(rows)-max:]
	}

	return b.renderLines(true, append(lines, rows...))
}

func (b *statefulBubble) formatOutcomeRow(outcome source.Outcome) string {
	if outcome.Err != nil {
		return fmt.Sprintf("%s %s %s",
			icon.Get(icon.Fail),
			style.Bold(outcome.DisplayName),
			style.Fg(style.Red)(outcome.Err.Error()))
	}

	return fmt.Sprintf("%s %s %s %s",
		icon.Get(icon.Success),
		style.Bold(outcome.DisplayName),
		util.Quantify(len(outcome.Records), "record", "records"),
		style.Faint(outcome.Elapsed.Round(time.Millisecond).String()))
}

func (b *statefulBubble) viewRecords() string {
	var tabs []string
	active := b.store.Active()
	for _, info := range b.store.AvailableBuckets() {
		label := fmt.Sprintf("%s %d", info.Name, info.Count)
		if info.Name == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	header := lipgloss.NewStyle().
		MaxWidth(util.Max(b.listWidth, 0)).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))

	return listExtraPaddingStyle.Render(header + "\n\n" + b.recordsC.View())
}

func (b *statefulBubble) viewDetail() string {
	if b.selectedRecord == nil {
		return listExtraPaddingStyle.Render(b.playC.View())
	}

	header := strings.Join(b.detailHeader, "\n")
	return listExtraPaddingStyle.Render(header + "\n" + b.playC.View())
}

// renderDetailHeader lays out the metadata panel shown above the episodes
// list. The result is one entry per terminal row so the list height math
// stays honest.
func (b *statefulBubble) renderDetailHeader(record *source.Record) []string {
	width := util.Min(b.listWidth, 100)
	if width <= 0 {
		width = 80
	}

	lines := []string{
		style.Title(record.Title) + " " + style.Faint(record.Platform),
		"",
	}

	var meta []string
	for _, part := range []string{record.Year, record.Area, record.TypeName, record.Status} {
		if part != "" {
			meta = append(meta, part)
		}
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, " • "))
	}

	if record.Actor != "" {
		cast := strings.Split(wrap.String("Cast: "+record.Actor, width), "\n")
		if len(cast) > 2 {
			cast = cast[:2]
			cast[1] += style.Faint(" ...")
		}
		for _, line := range cast {
			lines = append(lines, style.Faint(line))
		}
	}

	if record.Description != "" {
		desc := strings.Split(wrap.String(record.Description, width), "\n")
		if len(desc) > 3 {
			desc = desc[:3]
			desc[2] += style.Faint(" ...")
		}
		lines = append(lines, "")
		lines = append(lines, desc...)
	}

	lines = append(lines, "")
	return lines
}

func (b *statefulBubble) viewError() string {
	failure := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("196")).
		Render("Critical Failure: " + b.lastError.Error())

	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " An error occurred:",
		"",
		wrap.String(failure, b.width),
	})
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	body := strings.Join(lines, "\n")

	if addHelp {
		if fill := b.height - len(lines); fill > 0 {
			body += strings.Repeat("\n", fill)
		}
		body += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(body)
}
