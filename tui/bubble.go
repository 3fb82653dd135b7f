// Package tui renders the full-screen interactive mode on top of bubbletea.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/internal/ui"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/provider"
	"github.com/vodhound/vodhound/search"
	"github.com/vodhound/vodhound/session"
	"github.com/vodhound/vodhound/source"
	"github.com/vodhound/vodhound/style"
	"github.com/vodhound/vodhound/util"
)

// statefulBubble is the root bubbletea model: the workflow state machine plus
// every child component and the session plumbing they share.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool
	busy          bool // Guards against re-triggering async ops on key repeat.

	keymap *statefulKeymap

	// child widgets
	spinnerC  spinner.Model
	inputC    textinput.Model
	sourcesC  list.Model
	recordsC  list.Model
	playC     list.Model
	progressC progress.Model
	helpC     help.Model

	store        *session.Store
	gateway      *session.Gateway
	orchestrator *search.Orchestrator

	selectedProviders map[*provider.Provider]struct{}
	selectedSources   []source.Source
	selectedRecord    *source.Record

	sourcesLoadedChannel chan []source.Source
	errorChannel         chan error

	// fan-out search in flight
	outcomes     <-chan source.Outcome
	cancelSearch context.CancelFunc
	doneSources  int
	totalSources int
	outcomeRows  []string

	progressStatus  string
	pendingKeyword  string
	pendingSnapshot *session.Snapshot
	lastError       error

	detailHeader []string

	width, height         int
	listWidth, listHeight int
	searchSuggestion      mo.Option[string]
	notifier              *ui.Model

	options *Options
}

// raiseError stops any spinners and switches to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.stopLoading()
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState switches to s, remembering the current state for previousState.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !b.state.transient() {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates new terminal dimensions to every child component.
func (b *statefulBubble) resize(width, height int) {
	frameX, frameY := paddingStyle.GetFrameSize()
	listX, listY := listExtraPaddingStyle.GetFrameSize()

	b.width = width - frameX
	b.height = height - frameY
	b.listWidth = width - listX
	b.listHeight = height - listY

	// The records list shares its screen with the bucket tab bar, the play
	// list with the detail header.
	b.sourcesC.SetSize(b.listWidth, b.listHeight)
	b.recordsC.SetSize(b.listWidth, b.listHeight-recordsHeaderHeight)
	b.playC.SetSize(b.listWidth, util.Max(b.listHeight-len(b.detailHeader), 5))

	for _, c := range []*list.Model{&b.sourcesC, &b.recordsC, &b.playC} {
		c.Help.Width = b.listWidth
	}

	b.progressC.Width = b.listWidth
	b.helpC.Width = b.listWidth

	if b.selectedRecord != nil {
		b.syncDetail()
	}
}

func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading, b.busy = true, true
	return tea.Batch(b.recordsC.StartSpinner(), b.playC.StartSpinner())
}

func (b *statefulBubble) stopLoading() tea.Cmd {
	b.loading, b.busy = false, false
	b.recordsC.StopSpinner()
	b.playC.StopSpinner()
	return nil
}

// newBubble wires the initial model: components, keymap, session store and
// the channels async work reports through.
func newBubble(options *Options) *statefulBubble {
	bubble := &statefulBubble{
		keymap: newStatefulKeymap(),

		store:   session.New(),
		gateway: session.NewGateway(),

		sourcesLoadedChannel: make(chan []source.Source),
		errorChannel:         make(chan error),

		selectedProviders: make(map[*provider.Provider]struct{}),

		notifier: &ui.Model{},
		options:  options,
	}

	newList := func(title string, accent lipgloss.Color, single, plural string) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(1)
		delegate.ShowDescription = true
		selected := lipgloss.NewStyle().
			Foreground(style.Accent).
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.Accent).
			Padding(0, 0, 0, 1)
		delegate.Styles.SelectedTitle = selected
		delegate.Styles.SelectedDesc = selected
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))

		l := list.New(nil, delegate, 0, 0)
		l.KeyMap = bubble.keymap.forList()
		l.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		l.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		l.Title = title
		l.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(accent).Padding(0, 1)
		l.Styles.NoItems = paddingStyle
		l.StatusMessageLifetime = time.Hour * 999
		l.SetShowPagination(false)
		l.SetShowStatusBar(false)
		l.SetStatusBarItemName(single, plural)

		return l
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.Accent)

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search Videos (v%s)", constant.Version)
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)
	bubble.inputC.Focus()

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	bubble.sourcesC = newList("Collection Sites", style.Accent, "site", "sites")
	bubble.recordsC = newList("Results", style.Lavender, "video", "videos")
	bubble.playC = newList("Episodes", style.Peach, "episode", "episodes")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}
