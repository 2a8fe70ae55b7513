// Package services holds the domain logic between controllers and
// repositories.
package services

// AuditSink receives audit entries. *audit.Recorder satisfies it; a
// nil recorder records nothing.
type AuditSink interface {
	Record(actorID uint, action, target string, details map[string]interface{})
}

// Broadcaster pushes events to connected websocket clients. *ws.Hub
// satisfies it.
type Broadcaster interface {
	Broadcast(v interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(interface{}) {}

// NopBroadcaster is a Broadcaster that drops everything, for tests and
// setups without the websocket hub.
var NopBroadcaster Broadcaster = noopBroadcaster{}

type noopAudit struct{}

func (noopAudit) Record(uint, string, string, map[string]interface{}) {}

// NopAudit is an AuditSink that drops everything.
var NopAudit AuditSink = noopAudit{}
