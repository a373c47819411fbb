package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/nwillis/tagcast/internal/bridge"
	"github.com/nwillis/tagcast/internal/broker"
	"github.com/nwillis/tagcast/internal/hashtag"
	"github.com/nwillis/tagcast/internal/infrastructure/logging"
	"github.com/nwillis/tagcast/internal/infrastructure/telemetry"
)

// anonymousUser is the author name used when none is configured.
const anonymousUser = "anonymous"

// defaultDrainInterval is the fallback drain cadence when none is configured.
const defaultDrainInterval = 150 * time.Millisecond

// Role identifies which app a loop is running for.
type Role string

// App roles.
const (
	RolePublisher  Role = "publisher"
	RoleSubscriber Role = "subscriber"
)

// Session is the slice of the broker session the feed loop drives.
// *broker.Session satisfies it; tests substitute a fake.
type Session interface {
	Connect(host string, port int) error
	Disconnect()
	Publish(topic, payload string) error
	Subscribe(topic string) error
	Unsubscribe(topic string) error
}

// Options configures an App.
type Options struct {
	Session Session
	Events  *bridge.Bridge
	Logger  *logging.Logger

	// Telemetry may be nil; all writes become no-ops.
	Telemetry *telemetry.Client

	// Out receives rendered feed lines. Defaults to os.Stdout.
	Out io.Writer

	// DrainInterval is the event-drain cadence. Defaults to 150ms.
	DrainInterval time.Duration

	// DefaultHost and DefaultPort are used by a bare "connect" command.
	DefaultHost string
	DefaultPort int

	// Username is the initial author name for posts (publisher only).
	Username string
}

// App is one interactive feed loop. All fields below opts are owned by the
// goroutine running Run and must not be touched from outside it.
type App struct {
	role    Role
	session Session
	events  *bridge.Bridge
	log     *logging.Logger
	tel     *telemetry.Client
	out     io.Writer

	drainInterval time.Duration
	defaultHost   string
	defaultPort   int

	// Consumer-owned state.
	status    broker.ConnectionState
	host      string
	port      int
	username  string
	following map[string]struct{}
}

// NewPublisher creates the tagpub app loop.
func NewPublisher(opts Options) *App {
	return newApp(RolePublisher, opts)
}

// NewSubscriber creates the tagsub app loop.
func NewSubscriber(opts Options) *App {
	return newApp(RoleSubscriber, opts)
}

func newApp(role Role, opts Options) *App {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	interval := opts.DrainInterval
	if interval <= 0 {
		interval = defaultDrainInterval
	}
	username := opts.Username
	if username == "" {
		username = anonymousUser
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	return &App{
		role:          role,
		session:       opts.Session,
		events:        opts.Events,
		log:           log.With("component", "feed", "role", string(role)),
		tel:           opts.Telemetry,
		out:           out,
		drainInterval: interval,
		defaultHost:   opts.DefaultHost,
		defaultPort:   opts.DefaultPort,
		status:        broker.StateDisconnected,
		host:          opts.DefaultHost,
		port:          opts.DefaultPort,
		username:      username,
		following:     make(map[string]struct{}),
	}
}

// Run drives the loop until the context is cancelled, input reaches EOF, or
// the user quits. It is the single goroutine allowed to mutate app state.
func (a *App) Run(ctx context.Context, input io.Reader) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go readLines(input, lines, done)

	ticker := time.NewTicker(a.drainInterval)
	defer ticker.Stop()

	a.printf("tagcast %s — type 'help' for commands", a.role)

	for {
		select {
		case <-ctx.Done():
			a.session.Disconnect()
			return nil
		case <-ticker.C:
			a.drainEvents()
		case line, ok := <-lines:
			if !ok {
				a.session.Disconnect()
				return nil
			}
			if quit := a.handleCommand(line); quit {
				a.session.Disconnect()
				return nil
			}
		}
	}
}

// readLines feeds input lines into ch and closes it on EOF. The done channel
// releases a pending send when the loop has already returned, so the reader
// goroutine never outlives Run.
func readLines(input io.Reader, ch chan<- string, done <-chan struct{}) {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		select {
		case ch <- scanner.Text():
		case <-done:
			return
		}
	}
	close(ch)
}

// drainEvents empties the bridge and applies each event in order.
func (a *App) drainEvents() {
	events := a.events.Drain()
	if len(events) == 0 {
		return
	}

	a.tel.WriteFeedMetric(string(a.role), "drain_batch", float64(len(events)))

	for _, ev := range events {
		a.applyEvent(ev)
	}
}

// applyEvent updates consumer-owned state for one bridge event.
func (a *App) applyEvent(ev bridge.Event) {
	switch ev.Kind {
	case bridge.KindConnected:
		a.status = broker.StateConnected
		a.printf("connected to broker.")
		a.tel.WriteSessionEvent(string(a.role), ev.Kind.String())
		a.resubscribeAll()

	case bridge.KindDisconnected:
		a.status = broker.StateDisconnected
		a.printf("disconnected from broker.")
		a.tel.WriteSessionEvent(string(a.role), ev.Kind.String())

	case bridge.KindConnectionError:
		a.status = broker.StateError
		a.printf("connection failed: %s", ev.Reason)
		a.tel.WriteSessionEvent(string(a.role), ev.Kind.String())

	case bridge.KindMessageArrived:
		a.printf("[%s] %s", ev.Message.Topic, ev.Message.Payload)
		a.tel.WriteFeedMetric(string(a.role), "messages_received", 1)
	}
}

// resubscribeAll re-applies the full followed-tag set after a transition
// into Connected, so reconnects preserve the user's subscriptions.
func (a *App) resubscribeAll() {
	for _, tag := range a.followedTags() {
		a.applySubscribe(tag)
	}
}

// applySubscribe issues one broker subscribe for a followed tag.
// Failures are feed lines only; the tag stays followed for the next cycle.
func (a *App) applySubscribe(tag string) {
	topic := hashtag.Topic(tag)
	if err := a.session.Subscribe(topic); err != nil {
		a.log.Warn("subscribe failed", "topic", topic, "error", err)
		a.printf("subscribe failed for '%s': %v", topic, err)
		return
	}
	a.printf("subscribed to '%s'", topic)
}

// followedTags returns the followed set in stable sorted order.
func (a *App) followedTags() []string {
	tags := make([]string, 0, len(a.following))
	for tag := range a.following {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// printf renders one timestamped feed line.
func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, "[%s] %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}
