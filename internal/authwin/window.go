// Package authwin owns the authorization popup window lifecycle.
//
// The store's file API is unusable until the user completes an
// out-of-band grant in a browser window. This package opens that
// window, waits for it to finish (the grant page redirects back to a
// localhost callback), and tears the whole thing down again. A window
// is opened synchronously with the user gesture that asked for it and
// closed exactly once, no matter how the flow exits.
package authwin

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Config carries what the authorization page needs to render.
type Config struct {
	// AuthorizeURL builds the page URL given the callback redirect URI.
	// The store client supplies this so the token never passes through
	// this package's own state.
	AuthorizeURL func(redirectURI string) string

	// CallbackPort is the fixed local callback port. Zero picks a free port.
	CallbackPort int
}

// Window is a live authorization popup.
type Window interface {
	// Focus brings an already-open window to the foreground. Idempotent;
	// repeated calls have no further effect.
	Focus()

	// Authorize blocks until the window closes (grant completed or user
	// gave up) or ctx is cancelled. There is no timeout of its own.
	Authorize(ctx context.Context) error

	// Close force-closes the window. Safe to call whether or not the
	// window is still open; the release runs exactly once.
	Close()
}

// Opener creates windows. The picker depends on this interface so tests
// can substitute a fake.
type Opener interface {
	// Open launches a new window. It must do its work inside this call,
	// not lazily, so that opening stays tied to the triggering gesture.
	Open(cfg Config) (Window, error)
}

// BrowserOpener opens real browser windows.
type BrowserOpener struct {
	// Launch overrides how URLs are opened. Defaults to LaunchBrowser.
	Launch func(url string) error
}

// Open acquires the window handle: it starts the localhost callback
// listener and computes the authorization page URL. The visible browser
// launch is deferred to Authorize (or Focus), so a handle that turns
// out to be unnecessary is acquired and released without the user ever
// seeing a window.
func (b *BrowserOpener) Open(cfg Config) (Window, error) {
	if cfg.AuthorizeURL == nil {
		return nil, fmt.Errorf("authwin: missing authorize URL builder")
	}

	launch := b.Launch
	if launch == nil {
		launch = LaunchBrowser
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", cfg.CallbackPort))
	if err != nil {
		return nil, fmt.Errorf("start auth callback listener: %w", err)
	}

	w := &browserWindow{
		launch: launch,
		done:   make(chan struct{}),
	}

	redirectURI := fmt.Sprintf("http://%s/callback", listener.Addr().String())
	w.url = cfg.AuthorizeURL(redirectURI)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(rw, callbackPage)
		w.signalDone()
	})

	w.server = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		// ErrServerClosed is the normal Close path.
		_ = w.server.Serve(listener)
	}()

	return w, nil
}

type browserWindow struct {
	url    string
	launch func(url string) error
	server *http.Server

	done     chan struct{}
	doneOnce sync.Once
	launched sync.Once
	closed   sync.Once
}

func (w *browserWindow) signalDone() {
	w.doneOnce.Do(func() { close(w.done) })
}

// Focus re-launches the authorization URL; browsers foreground the
// existing tab rather than opening a second one.
func (w *browserWindow) Focus() {
	w.launched.Do(func() {})
	_ = w.launch(w.url)
}

// Authorize opens the browser window (first call only) and waits for
// the grant page to hit the callback, for the window to be closed out
// from under us, or for ctx cancellation.
func (w *browserWindow) Authorize(ctx context.Context) error {
	var launchErr error

	w.launched.Do(func() { launchErr = w.launch(w.url) })
	if launchErr != nil {
		return fmt.Errorf("open authorization window: %w", launchErr)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts the callback listener and releases any Authorize waiter.
func (w *browserWindow) Close() {
	w.closed.Do(func() {
		w.signalDone()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = w.server.Shutdown(ctx)
	})
}

// callbackPage is shown in the popup once the grant completes.
const callbackPage = `<!DOCTYPE html>
<html>
<head><title>lmspick</title></head>
<body>
<p>Authorization complete. You can close this window and return to the terminal.</p>
<script>window.close();</script>
</body>
</html>
`
