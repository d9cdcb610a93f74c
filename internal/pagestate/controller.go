// Package pagestate drives the interactive state of a generated community
// page: the active tab, the content language, the colour theme and the
// outline panel. A Controller owns that state and pushes every change through
// a Renderer so the same logic runs against a browser DOM, a parsed HTML tree
// or a test fake.
package pagestate

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// OutsideClickDelay is how long the controller waits after opening the
// outline before it starts listening for clicks outside the panel, so the
// click that opened it is not seen.
const OutsideClickDelay = 100 * time.Millisecond

var (
	ErrUnknownTab = errors.New("pagestate: unknown tab")
	ErrNoEntry    = errors.New("pagestate: no such outline entry")
	ErrNoAnchor   = errors.New("pagestate: outline entry has no anchor")
)

// Options configures a Controller.
type Options struct {
	Renderer    Renderer
	Scheduler   Scheduler
	Preferences *Preferences
	Locale      LocaleSource
	// DefaultTheme applies when no theme has been saved. Defaults to Light.
	DefaultTheme Theme
	// Tabs lists the content sections in indicator order. The first one is
	// active initially. Defaults to DefaultTabs.
	Tabs   []Tab
	Logger *slog.Logger
}

// Controller is the page state machine. It is not safe for concurrent use;
// every page instance owns its own controller.
type Controller struct {
	r      Renderer
	sched  Scheduler
	prefs  *Preferences
	tabs   []Tab
	logger *slog.Logger

	language    Language
	theme       Theme
	tab         Tab
	outlineOpen bool
	entries     []OutlineEntry

	cancelAttach func()
	detach       func()
}

// New resolves the initial state from saved preferences and the locale
// signal. It does not touch the renderer; call Sync for that.
func New(opts Options) (*Controller, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("pagestate: renderer is required")
	}
	c := &Controller{
		r:      opts.Renderer,
		sched:  opts.Scheduler,
		prefs:  opts.Preferences,
		tabs:   slices.Clone(opts.Tabs),
		logger: opts.Logger,
	}
	if c.sched == nil {
		c.sched = ImmediateScheduler{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.prefs == nil {
		c.prefs = NewPreferences(nil, "", c.logger)
	}
	if len(c.tabs) == 0 {
		c.tabs = slices.Clone(DefaultTabs)
	}

	if lang, ok := ParseLanguage(c.prefs.Load(PrefLanguage, "")); ok {
		c.language = lang
	} else {
		locale := ""
		if opts.Locale != nil {
			locale = opts.Locale()
		}
		c.language = DetectLanguage(locale)
	}

	c.theme = Light
	if opts.DefaultTheme == Dark {
		c.theme = Dark
	}
	if theme, ok := ParseTheme(c.prefs.Load(PrefTheme, string(c.theme))); ok {
		c.theme = theme
	}

	c.tab = c.tabs[0]
	return c, nil
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return State{
		Language:    c.language,
		Theme:       c.theme,
		Tab:         c.tab,
		OutlineOpen: c.outlineOpen,
	}
}

// Tabs returns the registered tabs.
func (c *Controller) Tabs() []Tab { return slices.Clone(c.tabs) }

// Outline returns the entries built when the outline was last opened, or nil
// while it is closed.
func (c *Controller) Outline() []OutlineEntry {
	if !c.outlineOpen {
		return nil
	}
	return slices.Clone(c.entries)
}

// Sync pushes the complete state to the renderer.
func (c *Controller) Sync() {
	c.applyTheme()
	c.applyLabels()
	for _, t := range c.tabs {
		c.applyVariants(t)
	}
	c.showTab(c.tab)
	if !c.outlineOpen {
		c.skip(c.r.SetVisible(OutlinePanelID, false), OutlinePanelID)
	}
}

// SelectTab activates t. Switching tabs always closes the outline since its
// entries belong to the previous tab.
func (c *Controller) SelectTab(t Tab) error {
	if !slices.Contains(c.tabs, t) {
		return fmt.Errorf("%w: %q", ErrUnknownTab, t)
	}
	c.showTab(t)
	if c.outlineOpen {
		c.closeOutline()
	}
	return nil
}

// ToggleTheme flips between light and dark and persists the choice.
func (c *Controller) ToggleTheme() {
	c.theme = c.theme.Other()
	c.applyTheme()
	c.prefs.Save(PrefTheme, string(c.theme))
}

// ToggleLanguage flips the content language. Every region's variants are
// swapped, not just the visible one, so hidden tabs are already correct when
// selected. ReconcileLanguage is queued on the scheduler to settle the active
// region once the bulk swap is done.
func (c *Controller) ToggleLanguage() {
	c.language = c.language.Other()
	for _, t := range c.tabs {
		c.applyVariants(t)
	}
	c.applyLabels()
	c.prefs.Save(PrefLanguage, string(c.language))
	c.sched.Defer(c.ReconcileLanguage)
	if c.outlineOpen {
		c.rebuildOutline()
	}
}

// ReconcileLanguage is the settle step queued by ToggleLanguage. It re-applies
// the active tab's region and indicator, as SelectTab(current) would, so the
// visible variant matches the current language. Unlike SelectTab it does not
// close an open outline: the tab is unchanged and ToggleLanguage has already
// rebuilt the outline for the new language.
func (c *Controller) ReconcileLanguage() {
	c.showTab(c.tab)
}

// ToggleOutline opens the outline panel when closed and closes it when open.
func (c *Controller) ToggleOutline() {
	if c.outlineOpen {
		c.closeOutline()
		return
	}
	c.openOutline()
}

// CloseOutline closes the outline panel. Closing a closed panel is a no-op.
func (c *Controller) CloseOutline() {
	c.closeOutline()
}

// JumpTo scrolls to the i-th outline entry and closes the panel. Entries
// without an anchor are listed but inert.
func (c *Controller) JumpTo(i int) error {
	if !c.outlineOpen || i < 0 || i >= len(c.entries) {
		return fmt.Errorf("%w: %d", ErrNoEntry, i)
	}
	e := c.entries[i]
	if !e.Scrollable() {
		return fmt.Errorf("%w: %q", ErrNoAnchor, e.Label)
	}
	c.skip(c.r.ScrollTo(e.AnchorID), e.AnchorID)
	c.closeOutline()
	return nil
}

// Close releases listeners installed by the controller.
func (c *Controller) Close() {
	c.closeOutline()
}

func (c *Controller) showTab(t Tab) {
	for _, other := range c.tabs {
		c.skip(c.r.SetActive(TabID(other), other == t), TabID(other))
		c.skip(c.r.SetVisible(RegionID(other), other == t), RegionID(other))
	}
	c.tab = t
	c.applyVariants(t)
}

func (c *Controller) applyVariants(t Tab) {
	c.skip(c.r.SetVisible(VariantID(t, c.language), true), VariantID(t, c.language))
	other := c.language.Other()
	c.skip(c.r.SetVisible(VariantID(t, other), false), VariantID(t, other))
}

func (c *Controller) applyTheme() {
	c.skip(c.r.SetAttribute(RootElement, ThemeAttribute, string(c.theme)), RootElement)
	c.skip(c.r.SetText(ThemeIconID, c.theme.Icon()), ThemeIconID)
}

func (c *Controller) applyLabels() {
	lb := LabelsFor(c.language)
	for _, t := range c.tabs {
		c.skip(c.r.SetText(TabLabelID(t), lb.TabLabel(t)), TabLabelID(t))
	}
	c.skip(c.r.SetText(NavBlogID, lb.Blog), NavBlogID)
	c.skip(c.r.SetText(NavBackID, lb.Back), NavBackID)
	c.skip(c.r.SetText(OutlineTitleID, lb.Outline), OutlineTitleID)
	c.skip(c.r.SetText(LanguageLabelID, lb.LanguageSwitch), LanguageLabelID)
	c.skip(c.r.SetAttribute(RootElement, LangAttribute, lb.HTMLLang), RootElement)
}

func (c *Controller) openOutline() {
	c.rebuildOutline()
	c.skip(c.r.SetVisible(OutlinePanelID, true), OutlinePanelID)
	c.outlineOpen = true
	c.cancelAttach = c.sched.After(OutsideClickDelay, c.attachOutsideClick)
}

func (c *Controller) attachOutsideClick() {
	c.cancelAttach = nil
	if !c.outlineOpen || c.detach != nil {
		return
	}
	detach, err := c.r.OnOutsideClick(OutlinePanelID, c.closeOutline)
	if err != nil {
		c.skip(err, OutlinePanelID)
		return
	}
	c.detach = detach
}

func (c *Controller) rebuildOutline() {
	entries, err := BuildOutline(c.r, c.tab, c.language)
	if err != nil {
		c.skip(err, VariantID(c.tab, c.language))
		entries = nil
	}
	c.entries = entries
	c.skip(c.r.RenderOutline(entries), OutlineContent)
}

func (c *Controller) closeOutline() {
	if c.cancelAttach != nil {
		c.cancelAttach()
		c.cancelAttach = nil
	}
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
	if c.outlineOpen {
		c.skip(c.r.SetVisible(OutlinePanelID, false), OutlinePanelID)
	}
	c.outlineOpen = false
	c.entries = nil
}

// skip logs a failed renderer update. Missing elements are expected on
// pages that omit parts of the chrome.
func (c *Controller) skip(err error, id string) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrNoElement) {
		c.logger.Debug("skipping update for missing element", "id", id)
		return
	}
	c.logger.Warn("renderer update failed", "id", id, "error", err)
}
