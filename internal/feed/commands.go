package feed

import (
	"strconv"
	"strings"

	"github.com/nwillis/tagcast/internal/broker"
	"github.com/nwillis/tagcast/internal/hashtag"
)

// handleCommand executes one user command line. Returns true when the user
// asked to quit. Runs on the Run goroutine only.
func (a *App) handleCommand(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "help":
		a.printHelp()
	case "status":
		a.printStatus()
	case "connect":
		a.cmdConnect(rest)
	case "disconnect":
		a.cmdDisconnect()
	case "quit", "exit":
		return true
	default:
		if a.role == RolePublisher {
			switch strings.ToLower(cmd) {
			case "post":
				a.cmdPost(rest)
				return false
			case "user":
				a.cmdUser(rest)
				return false
			}
		}
		if a.role == RoleSubscriber {
			switch strings.ToLower(cmd) {
			case "sub", "subscribe":
				a.cmdSubscribe(rest)
				return false
			case "unsub", "unsubscribe":
				a.cmdUnsubscribe(rest)
				return false
			case "tags":
				a.printTags()
				return false
			}
		}
		a.printf("unknown command '%s' — type 'help'", cmd)
	}
	return false
}

func (a *App) printHelp() {
	a.printf("commands: connect [host [port]], disconnect, status, help, quit")
	switch a.role {
	case RolePublisher:
		a.printf("          user <name>, post <#tag> <text>")
	case RoleSubscriber:
		a.printf("          sub <#tag>, unsub <#tag>, tags")
	}
}

func (a *App) printStatus() {
	a.printf("status: %s (broker %s:%d)", a.status, a.host, a.port)
	if a.role == RolePublisher {
		a.printf("posting as '%s'", a.username)
	}
}

// cmdConnect starts a connection attempt, optionally overriding host/port.
func (a *App) cmdConnect(args string) {
	switch a.status {
	case broker.StateConnecting:
		a.printf("already connecting — wait for the result or 'disconnect' to abort.")
		return
	case broker.StateConnected:
		a.printf("already connected — 'disconnect' first.")
		return
	case broker.StateDisconnected, broker.StateError:
	}

	host := a.defaultHost
	port := a.defaultPort
	if args != "" {
		fields := strings.Fields(args)
		host = fields[0]
		if len(fields) > 1 {
			p, err := strconv.Atoi(fields[1])
			if err != nil || p < 1 || p > 65535 {
				a.printf("invalid port '%s'", fields[1])
				return
			}
			port = p
		}
	}

	if err := a.session.Connect(host, port); err != nil {
		a.printf("connect rejected: %v", err)
		return
	}

	a.status = broker.StateConnecting
	a.host = host
	a.port = port
	a.printf("connecting to %s:%d ...", host, port)
}

func (a *App) cmdDisconnect() {
	switch a.status {
	case broker.StateDisconnected, broker.StateError:
		a.printf("not connected.")
		return
	case broker.StateConnecting, broker.StateConnected:
	}
	// The Disconnected event updates status and renders the feed line.
	a.session.Disconnect()
}

// cmdUser changes the author name attached to posts.
func (a *App) cmdUser(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = anonymousUser
	}
	a.username = name
	a.printf("posting as '%s'", a.username)
}

// cmdPost validates and publishes one post: "post <#tag> <text...>".
func (a *App) cmdPost(args string) {
	rawTag, text, _ := strings.Cut(args, " ")
	text = strings.TrimSpace(text)

	if a.status != broker.StateConnected {
		a.printf("not connected — connect to a broker first.")
		return
	}

	tag := hashtag.Normalize(rawTag)
	if tag == "" {
		a.printf("invalid hashtag (e.g., #iot or iot).")
		return
	}
	if text == "" {
		a.printf("empty post — write something to publish.")
		return
	}

	topic := hashtag.Topic(tag)
	payload := a.username + ": " + text

	if err := a.session.Publish(topic, payload); err != nil {
		a.log.Warn("publish failed", "topic", topic, "error", err)
		a.printf("publish failed: %v", err)
		return
	}

	a.printf("published to '%s': %s", topic, payload)
	a.tel.WriteFeedMetric(string(a.role), "publishes", 1)
}

// cmdSubscribe follows a tag. While disconnected the tag is only recorded;
// the subscribe is applied when the next Connected event is drained.
func (a *App) cmdSubscribe(rawTag string) {
	tag := hashtag.Normalize(rawTag)
	if tag == "" {
		a.printf("invalid hashtag (e.g., #iot or iot).")
		return
	}
	if _, ok := a.following[tag]; ok {
		a.printf("already following #%s.", tag)
		return
	}

	a.following[tag] = struct{}{}

	if a.status != broker.StateConnected {
		a.printf("(queued) will subscribe to #%s when connected.", tag)
		return
	}
	a.applySubscribe(tag)
}

// cmdUnsubscribe stops following a tag. Unfollowed tags are a local no-op:
// no broker-level unsubscribe is issued.
func (a *App) cmdUnsubscribe(rawTag string) {
	tag := hashtag.Normalize(rawTag)
	if tag == "" {
		a.printf("invalid hashtag (e.g., #iot or iot).")
		return
	}
	if _, ok := a.following[tag]; !ok {
		a.printf("not following #%s.", tag)
		return
	}

	delete(a.following, tag)

	if a.status != broker.StateConnected {
		a.printf("removed #%s (was queued).", tag)
		return
	}

	topic := hashtag.Topic(tag)
	if err := a.session.Unsubscribe(topic); err != nil {
		a.printf("unsubscribe failed for '%s': %v", topic, err)
		return
	}
	a.printf("unsubscribed from '%s'", topic)
}

func (a *App) printTags() {
	tags := a.followedTags()
	if len(tags) == 0 {
		a.printf("not following any hashtags.")
		return
	}
	for _, tag := range tags {
		a.printf("#%s", tag)
	}
}
