// Package view composes the channel set, user settings and push connection
// state into render-ready grids and serves them to the presentation layer.
package view

import (
	"log/slog"
	"sync"

	"multistream/internal/channelset"
	"multistream/internal/grid"
	"multistream/internal/platform/logger"
	"multistream/internal/platform/metrics"
	"multistream/internal/push"
	"multistream/internal/settings"
)

// Slot is one visible stream.
type Slot struct {
	Name  string `json:"name"`
	Embed string `json:"embed"`
}

// View is an immutable snapshot of everything the presentation layer draws.
type View struct {
	Channels     []Slot            `json:"channels"`
	Grid         grid.Matrix[Slot] `json:"grid"`
	LastRow      int               `json:"lastRow"`
	Orientation  grid.Orientation  `json:"orientation"`
	Title        string            `json:"title"`
	Path         string            `json:"path"`
	Empty        bool              `json:"empty"`
	SettingsOpen bool              `json:"settingsOpen"`
	Connection   string            `json:"connection"`
}

// Controller rebuilds the View whenever the channel set, the settings or
// the connection state change.
type Controller struct {
	store    *channelset.Store
	settings *settings.Settings
	embed    EmbedFunc
	log      *slog.Logger
	metrics  *metrics.Metrics

	mu           sync.Mutex
	channels     channelset.Set
	settingsOpen bool
	connection   push.State
	view         View
	subscribers  map[int]func(View)
	nextID       int
	unsubscribe  []func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithEmbed sets how player URLs are derived from channel names.
func WithEmbed(fn EmbedFunc) Option {
	return func(c *Controller) { c.embed = fn }
}

// WithLogger sets the logger. Defaults to discarding output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithMetrics enables the channel gauges.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// New returns a Controller over store and s. Call Start before use.
func New(store *channelset.Store, s *settings.Settings, opts ...Option) *Controller {
	c := &Controller{
		store:       store,
		settings:    s,
		embed:       TwitchEmbed("localhost"),
		subscribers: make(map[int]func(View)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.OrDiscard(c.log)
	return c
}

// Start subscribes to the store and settings and seeds the channel set from
// initialPath. A View is published even when initialPath leaves the set
// unchanged.
func (c *Controller) Start(initialPath string) {
	unsubStore := c.store.Subscribe(c.onChannels)
	unsubSettings := c.settings.Subscribe(c.onSettings)

	c.mu.Lock()
	c.unsubscribe = append(c.unsubscribe, unsubStore, unsubSettings)
	c.mu.Unlock()

	c.Load(initialPath)
	c.onSettings()
}

// Stop removes the controller's subscriptions.
func (c *Controller) Stop() {
	c.mu.Lock()
	fns := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Load replaces the channel set with the names encoded in path.
func (c *Controller) Load(path string) {
	names := ParsePath(path)
	c.log.Info("loading channels from path", slog.String("path", path), slog.Int("count", len(names)))
	c.store.Dispatch(channelset.ReplaceAllAction{Names: names})
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Subscribe registers fn to receive every new View. fn is called with the
// controller locked and must not block or call back into the controller.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Rotate moves the first channel to the end of the set.
func (c *Controller) Rotate() {
	c.store.Dispatch(channelset.RotateAction{})
}

// OpenSettings marks the settings surface as open.
func (c *Controller) OpenSettings() {
	c.setSettingsOpen(true)
}

// CloseSettings marks the settings surface as closed.
func (c *Controller) CloseSettings() {
	c.setSettingsOpen(false)
}

// UpdateOrientation validates and stores the orientation.
func (c *Controller) UpdateOrientation(value string) error {
	return c.settings.SetOrientation(value)
}

// UpdateIgnoreList stores the comma-separated ignore list.
func (c *Controller) UpdateIgnoreList(value string) error {
	return c.settings.SetIgnoreList(value)
}

// UpdateColumnCount validates and stores the fixed row size. On error the
// previous value is kept.
func (c *Controller) UpdateColumnCount(value string) error {
	return c.settings.SetNumberOfColumns(value)
}

// SetConnectionState records the push connection state. It is meant to be
// registered with push.Listener.OnStateChange.
func (c *Controller) SetConnectionState(s push.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connection == s {
		return
	}
	c.connection = s
	c.rebuildLocked()
}

func (c *Controller) setSettingsOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settingsOpen == open {
		return
	}
	c.settingsOpen = open
	c.rebuildLocked()
}

// onChannels runs with the store locked.
func (c *Controller) onChannels(set channelset.Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = set
	c.rebuildLocked()
}

func (c *Controller) onSettings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuildLocked()
}

// rebuildLocked recomputes the view from scratch and publishes it.
// Caller must hold c.mu.
func (c *Controller) rebuildLocked() {
	ignored := c.settings.IgnoredChannels()

	slots := make([]Slot, 0, c.channels.Len())
	names := make([]string, 0, c.channels.Len())
	for _, ch := range c.channels.Channels() {
		if _, skip := ignored[ch.Name]; skip {
			continue
		}
		slots = append(slots, Slot{Name: ch.Name, Embed: c.embed(ch.Name)})
		names = append(names, ch.Name)
	}

	matrix := grid.Layout(slots, grid.Spec{
		Orientation:  c.settings.Orientation(),
		FixedRowSize: c.settings.NumberOfColumns(),
	})

	c.view = View{
		Channels:     slots,
		Grid:         matrix,
		LastRow:      matrix.LastRow(),
		Orientation:  matrix.Orientation,
		Title:        Title(names),
		Path:         FormatPath(names),
		Empty:        len(slots) == 0,
		SettingsOpen: c.settingsOpen,
		Connection:   c.connection.String(),
	}

	if c.metrics != nil {
		c.metrics.SetLiveChannels(c.channels.Len())
		c.metrics.SetVisibleChannels(len(slots))
	}
	c.log.Debug("view updated",
		slog.String("path", c.view.Path),
		slog.Int("live", c.channels.Len()),
		slog.Int("visible", len(slots)),
		slog.Int("rows", len(matrix.Rows)))

	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.subscribers[id]; ok {
			fn(c.view)
		}
	}
}
