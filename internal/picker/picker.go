// Package picker implements the authorization/fetch orchestration for
// the store file picker.
//
// The picker coordinates three fallible processes: the remote listing
// call, the popup authorization handshake, and user-driven navigation.
// It owns at most one authorization window at a time and publishes its
// state to the view shell after every transition; the view shell never
// mutates picker state directly.
package picker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lmspick-dev/lmspick/internal/authwin"
	"github.com/lmspick-dev/lmspick/internal/observability"
	"github.com/lmspick-dev/lmspick/internal/store"
)

// Lister is the slice of the store client the picker consumes.
type Lister interface {
	ListFiles(ctx context.Context, path string) ([]store.Entry, error)
}

// State is the picker's published view state. Authorizing and Loading
// are not mutually exclusive: while the post-authorization retry is in
// flight both are set, and the view shell must render that sensibly.
type State struct {
	Authorizing bool
	Loading     bool
	Path        string
	Files       []store.Entry
}

// Title returns the dialog title for this state.
func (s State) Title(storeName string) string {
	if s.Authorizing {
		return "Authorizing"
	}

	return "Select file from " + storeName
}

// Options configures a Picker.
type Options struct {
	// Lister lists files in the store.
	Lister Lister

	// Windows opens authorization windows.
	Windows authwin.Opener

	// WindowConfig is passed to Windows.Open for every new window.
	WindowConfig authwin.Config

	// StartPath is the initial directory. Root is the empty string.
	StartPath string

	// OnState is invoked after every state transition with a snapshot.
	// It runs with the picker's lock held and must not call back into
	// the Picker; hand the snapshot off (e.g. onto a channel) instead.
	OnState func(State)

	// OnSelect is invoked with the full slash-joined path when the user
	// picks a file. Terminal; the picker does not fetch again.
	OnSelect func(path string)

	// OnCancel is invoked when the flow is abandoned: explicit cancel,
	// or a failed post-authorization retry.
	OnCancel func()
}

// Picker is the orchestration state machine.
//
// Methods may be called from the view shell's command goroutines; the
// internal mutex protects the state and the window slot. Overlapping
// fetches from rapid navigation are intentionally not cancelled or
// sequenced: both complete, and whichever resolves last wins.
type Picker struct {
	lister   Lister
	opener   authwin.Opener
	winCfg   authwin.Config
	onState  func(State)
	onSelect func(string)
	onCancel func()

	mu    sync.Mutex
	state State
	win   authwin.Window
}

// New creates a Picker. Nil callbacks are replaced with no-ops.
func New(opts Options) *Picker {
	p := &Picker{
		lister:   opts.Lister,
		opener:   opts.Windows,
		winCfg:   opts.WindowConfig,
		onState:  opts.OnState,
		onSelect: opts.OnSelect,
		onCancel: opts.OnCancel,
		state:    State{Path: opts.StartPath},
	}

	if p.onState == nil {
		p.onState = func(State) {}
	}
	if p.onSelect == nil {
		p.onSelect = func(string) {}
	}
	if p.onCancel == nil {
		p.onCancel = func() {}
	}

	return p
}

// State returns a snapshot of the current state.
func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// EnsureAccess is the entry operation: run on mount and again whenever
// the user asks to see the authorization window.
//
// If a window is already open the call only focuses it and returns; a
// duplicate gesture never opens a second window. Otherwise a window is
// opened before the first listing call (the open must stay tied to the
// triggering gesture, even when it turns out to be unnecessary), and is
// closed exactly once on every exit path.
//
// A first fetch failing with the authorization kind suspends until the
// window closes, then retries once. A failed retry invokes OnCancel and
// returns nil; the error is logged, not surfaced. Any other first-fetch
// error propagates after cleanup.
func (p *Picker) EnsureAccess(ctx context.Context) error {
	p.mu.Lock()
	if p.win != nil {
		win := p.win
		p.mu.Unlock()
		win.Focus()

		return nil
	}
	p.mu.Unlock()

	win, err := p.opener.Open(p.winCfg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.win != nil {
		// A concurrent gesture won the slot while we were opening.
		existing := p.win
		p.mu.Unlock()
		win.Close()
		existing.Focus()

		return nil
	}
	p.win = win
	p.mu.Unlock()

	defer func() {
		win.Close()

		p.mu.Lock()
		if p.win == win {
			p.win = nil
		}
		p.mu.Unlock()
	}()

	err = p.fetch(ctx)
	if err == nil {
		return nil
	}

	if !store.IsAuthError(err) {
		return err
	}

	p.setAuthorizing(true)

	if waitErr := win.Authorize(ctx); waitErr != nil {
		return waitErr
	}

	if retryErr := p.fetch(ctx); retryErr != nil {
		// Terminal: close the dialog, keep the detail in the log.
		// Authorizing is deliberately left set at this point.
		observability.FromContext(ctx).Warn("listing retry after authorization failed",
			slog.String("error", retryErr.Error()))
		p.onCancel()

		return nil
	}

	p.setAuthorizing(false)

	return nil
}

// ChangePath replaces the current path and fetches the new directory.
// Setting the path to its current value is a no-op: exactly one fetch
// per distinct consecutive path value.
//
// Note that a fetch triggered here does not run the authorization flow;
// if the token expires mid-session the error propagates to the caller.
func (p *Picker) ChangePath(ctx context.Context, path string) error {
	p.mu.Lock()
	if p.state.Path == path {
		p.mu.Unlock()
		return nil
	}
	p.state.Path = path
	p.publishLocked()
	p.mu.Unlock()

	return p.fetch(ctx)
}

// Select handles a user pick. Directories descend via ChangePath; files
// invoke OnSelect with the completed path and end the flow. The path is
// built by literal concatenation: no separator normalization.
func (p *Picker) Select(ctx context.Context, entry store.Entry) error {
	p.mu.Lock()
	full := p.state.Path + "/" + entry.Name
	p.mu.Unlock()

	if entry.IsDir() {
		return p.ChangePath(ctx, full)
	}

	p.onSelect(full)

	return nil
}

// Cancel force-closes any live authorization window and notifies the
// owner. Safe to call at any point in the flow.
func (p *Picker) Cancel() {
	p.mu.Lock()
	win := p.win
	p.win = nil
	p.mu.Unlock()

	if win != nil {
		win.Close()
	}

	p.onCancel()
}

// fetch lists the current directory. Loading is set for the duration
// and cleared only when the listing resolves successfully; a failed
// fetch leaves it set for the entry flow to deal with.
func (p *Picker) fetch(ctx context.Context) error {
	p.mu.Lock()
	p.state.Loading = true
	path := p.state.Path
	p.publishLocked()
	p.mu.Unlock()

	files, err := p.lister.ListFiles(ctx, path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.state.Loading = false
	p.state.Files = files
	p.publishLocked()
	p.mu.Unlock()

	return nil
}

func (p *Picker) setAuthorizing(v bool) {
	p.mu.Lock()
	p.state.Authorizing = v
	p.publishLocked()
	p.mu.Unlock()
}

// publishLocked snapshots the state for the view shell. Caller holds mu.
func (p *Picker) publishLocked() {
	p.onState(p.state)
}
