// Package notify emits toast-style notifications to subscribed sinks.
//
// The notifier only formats and fans out; deciding when to notify is left to
// callers.
package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Notification kinds
const (
	TypeSuccess = "success"
	TypeError   = "error"
)

var ErrUnknownType = errors.New("unknown notification type")

// Position anchors notifications on screen
type Position struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// TypeStyle styles one notification kind
type TypeStyle struct {
	Type       string `json:"type"`
	Background string `json:"background"`
	Icon       bool   `json:"icon"`
}

// Options configures a Notifier
type Options struct {
	Duration time.Duration
	Position Position
	Types    []TypeStyle
}

// DefaultOptions returns the application's toast settings
func DefaultOptions() Options {
	return Options{
		Duration: 3000 * time.Millisecond,
		Position: Position{X: "right", Y: "top"},
		Types: []TypeStyle{
			{Type: TypeSuccess, Background: "#ffbf00", Icon: false},
			{Type: TypeError, Background: "#ff0000", Icon: false},
		},
	}
}

// Notification is a single emitted message
type Notification struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Message    string        `json:"message"`
	Background string        `json:"background"`
	Icon       bool          `json:"icon"`
	Duration   time.Duration `json:"duration"`
	Position   Position      `json:"position"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Sink receives emitted notifications
type Sink interface {
	Deliver(n Notification) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(n Notification) error

// Deliver calls f(n)
func (f SinkFunc) Deliver(n Notification) error { return f(n) }

// Notifier builds notifications and fans them out to sinks
type Notifier struct {
	opts   Options
	styles map[string]TypeStyle

	mu    sync.RWMutex
	sinks []Sink
}

// New returns a notifier styling notifications with opts
func New(opts Options) *Notifier {
	styles := make(map[string]TypeStyle, len(opts.Types))
	for _, s := range opts.Types {
		styles[s.Type] = s
	}
	return &Notifier{opts: opts, styles: styles}
}

// Options returns a copy of the configuration the notifier was built with
func (n *Notifier) Options() Options {
	opts := n.opts
	opts.Types = append([]TypeStyle(nil), n.opts.Types...)
	return opts
}

// Subscribe adds a sink; it receives every later notification
func (n *Notifier) Subscribe(s Sink) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sinks = append(n.sinks, s)
}

// Success emits a success notification
func (n *Notifier) Success(message string) (Notification, error) {
	return n.Open(TypeSuccess, message)
}

// Error emits an error notification
func (n *Notifier) Error(message string) (Notification, error) {
	return n.Open(TypeError, message)
}

// Open emits a notification of the given type to every sink.
// Sink failures are joined; delivery continues past a failing sink.
func (n *Notifier) Open(typ, message string) (Notification, error) {
	return n.OpenWith(typ, message)
}

// OpenWith is Open with extra sinks that receive only this notification,
// after the subscribed ones. Request-scoped shells pass their own sink here.
func (n *Notifier) OpenWith(typ, message string, extra ...Sink) (Notification, error) {
	style, ok := n.styles[typ]
	if !ok {
		return Notification{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	note := Notification{
		ID:         ulid.Make().String(),
		Type:       typ,
		Message:    message,
		Background: style.Background,
		Icon:       style.Icon,
		Duration:   n.opts.Duration,
		Position:   n.opts.Position,
		CreatedAt:  time.Now().UTC(),
	}

	n.mu.RLock()
	sinks := append([]Sink(nil), n.sinks...)
	n.mu.RUnlock()
	sinks = append(sinks, extra...)

	var errs []error
	for _, s := range sinks {
		if err := s.Deliver(note); err != nil {
			errs = append(errs, err)
		}
	}

	return note, errors.Join(errs...)
}

// WriterSink prints notifications as "[type] message" lines
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink printing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Deliver writes one line for n
func (s *WriterSink) Deliver(n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintf(s.w, "[%s] %s\n", n.Type, n.Message)
	return err
}
