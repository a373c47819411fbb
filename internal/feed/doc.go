// Package feed implements the interactive consumer loop shared by tagpub
// and tagsub.
//
// One goroutine owns all visible state: the mirrored connection status, the
// set of followed tags, and the rendered feed. It multiplexes two inputs —
// user commands read from stdin by a reader goroutine, and broker events
// drained from the bridge on a fixed ticker. Nothing else mutates that
// state, so no locking is needed here.
//
// The followed-tag set survives connection cycles: whenever a Connected
// event is drained, every followed tag is re-subscribed, making a broker
// restart or manual reconnect transparent to the user's subscription list.
//
// Publish and subscribe rejections from the broker are reported as feed
// lines only; connection failures additionally flip the visible status.
package feed
