// Package collectortest provides an in-process fake of the tracking
// collector. It records heartbeats and events and answers them with
// configurable identities and status codes.
//
//	c := collectortest.Start(t, collectortest.WithHeartbeatResult(collectortest.HeartbeatResult{ClientID: "c1"}))
//	s, _ := trackkit.New(ctx, trackkit.Config{ConsumerKey: "k", Host: c.URL()})
//	ev, _ := c.LastEvent()
//
// The same handler backs the "trackkit collector" command.
package collectortest
