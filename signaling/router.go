package signaling

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Router is the event-driven core of the relay. It validates each inbound
// signaling event, consults and updates the Registry and Ledger, and emits
// routed events through the Emitter.
//
// A single mutex serializes every event, so each one is an atomic step
// against the shared tables: two concurrent disconnects for a calling pair
// cannot race on the mirrored ledger records. Emits are non-blocking, so no
// network I/O happens while the lock is held.
type Router struct {
	mu       sync.Mutex
	registry *Registry
	ledger   *Ledger
	emitter  Emitter
	log      *zap.Logger
}

func NewRouter(registry *Registry, ledger *Ledger, emitter Emitter, log *zap.Logger) *Router {
	return &Router{
		registry: registry,
		ledger:   ledger,
		emitter:  emitter,
		log:      log,
	}
}

// Dispatch routes one inbound envelope to its handler. Unknown events are
// dropped with a warning; nothing an individual client sends can take the
// router down.
func (r *Router) Dispatch(connID string, env Envelope) {
	switch env.Event {
	case EventJoin:
		r.HandleJoin(connID, env.Data)
	case EventCallRequest:
		r.HandleCallRequest(connID, env.Data)
	case EventCallAccept:
		r.HandleCallAccept(connID, env.Data)
	case EventCallReject:
		r.HandleCallReject(connID, env.Data)
	case EventCallEnd:
		r.HandleCallEnd(connID, env.Data)
	default:
		r.log.Warn("unknown event", zap.String("event", env.Event), zap.String("connID", connID))
	}
}

// HandleConnect runs when a socket is accepted, before any join: the client
// learns its own connection handle so it can be addressed by peers.
func (r *Router) HandleConnect(connID string) {
	r.emitter.Emit(connID, EventAssignedConnectionID, AssignedConnectionIDPayload{ConnectionID: connID})
}

// HandleJoin registers the user's presence and re-broadcasts the online set.
// A join for an already-registered user is a reconnect and simply repoints
// the registry at the new socket.
func (r *Router) HandleJoin(connID string, data json.RawMessage) {
	var p JoinPayload
	if !r.decode(connID, EventJoin, data, &p) {
		return
	}
	if p.UserID == "" {
		r.dropInvalid(connID, EventJoin, "missing userId")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.registry.Join(p.UserID, p.DisplayName, connID)
	r.log.Info("user joined", zap.String("userID", p.UserID), zap.String("connID", connID))
	r.broadcastOnlineLocked()
}

// HandleCallRequest starts a call attempt. The outcome depends entirely on
// the callee's registry and ledger state:
//
//   - unknown callee: the caller alone hears user-unavailable
//   - busy callee: the caller hears user-busy and the callee's live socket
//     gets an incoming-call-while-busy notice (a missed-call hint)
//   - free callee: the offer is forwarded as call-to-user and the attempt
//     is ringing
func (r *Router) HandleCallRequest(connID string, data json.RawMessage) {
	var p CallRequestPayload
	if !r.decode(connID, EventCallRequest, data, &p) {
		return
	}
	if p.CalleeID == "" || p.CallerID == "" {
		r.dropInvalid(connID, EventCallRequest, "missing calleeId or callerId")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	callee, ok := r.registry.Find(p.CalleeID)
	if !ok {
		r.emitter.Emit(connID, EventUserUnavailable, UserUnavailablePayload{CalleeID: p.CalleeID})
		return
	}

	if r.ledger.IsBusy(p.CalleeID) {
		r.emitter.Emit(connID, EventUserBusy, UserBusyPayload{CalleeID: p.CalleeID})
		r.emitter.Emit(callee.ConnectionID, EventIncomingCallWhileBusy, IncomingCallWhileBusyPayload{
			CallerID:         p.CallerID,
			CallerName:       p.CallerName,
			CallerEmail:      p.CallerEmail,
			CallerProfilePic: p.CallerProfilePic,
		})
		return
	}

	r.emitter.Emit(callee.ConnectionID, EventCallToUser, CallToUserPayload{
		Signal:             p.SignalPayload,
		CallerID:           p.CallerID,
		CallerName:         p.CallerName,
		CallerEmail:        p.CallerEmail,
		CallerProfilePic:   p.CallerProfilePic,
		CallerConnectionID: connID,
	})
}

// HandleCallAccept forwards the answer back at the caller's socket and
// records the call for both sides. The target connection id comes from the
// client and is not checked for liveness first: if the caller is already
// gone the emit misses and the resulting half-open ledger state is cleaned
// up by the disconnect sweep.
func (r *Router) HandleCallAccept(connID string, data json.RawMessage) {
	var p CallAcceptPayload
	if !r.decode(connID, EventCallAccept, data, &p) {
		return
	}
	if p.TargetConnectionID == "" || p.CallerID == "" {
		r.dropInvalid(connID, EventCallAccept, "missing targetConnectionId or callerId")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.emitter.Emit(p.TargetConnectionID, EventCallAccepted, CallAcceptedPayload{
		Signal:   p.AnswerSignal,
		CallerID: p.CallerID,
	})

	callee, ok := r.registry.FindByConnection(connID)
	if !ok {
		// Accept from a socket that never joined; nothing to book.
		r.log.Warn("call-accept from unregistered connection", zap.String("connID", connID))
		return
	}
	r.ledger.StartCall(callee.UserID, p.CallerID, connID)
	r.ledger.StartCall(p.CallerID, callee.UserID, p.TargetConnectionID)
	r.log.Info("call started",
		zap.String("callerID", p.CallerID),
		zap.String("calleeID", callee.UserID))
}

// HandleCallReject relays the refusal. No ledger mutation: nothing was
// booked while the call was ringing.
func (r *Router) HandleCallReject(connID string, data json.RawMessage) {
	var p CallRejectPayload
	if !r.decode(connID, EventCallReject, data, &p) {
		return
	}
	if p.TargetConnectionID == "" {
		r.dropInvalid(connID, EventCallReject, "missing targetConnectionId")
		return
	}

	r.emitter.Emit(p.TargetConnectionID, EventCallRejected, CallRejectedPayload{
		CallerName:       p.CallerName,
		CallerProfilePic: p.CallerProfilePic,
	})
}

// HandleCallEnd relays the hang-up and clears both sides of the call from
// the ledger.
func (r *Router) HandleCallEnd(connID string, data json.RawMessage) {
	var p CallEndPayload
	if !r.decode(connID, EventCallEnd, data, &p) {
		return
	}
	if p.TargetConnectionID == "" {
		r.dropInvalid(connID, EventCallEnd, "missing targetConnectionId")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.emitter.Emit(p.TargetConnectionID, EventCallEnded, CallEndedPayload{
		EndingUserName: p.EndingUserName,
	})

	if ender, ok := r.registry.FindByConnection(connID); ok {
		r.ledger.EndCall(ender.UserID)
	}
}

// HandleDisconnect reconciles all state owned by a departed connection:
// ledger first (including orphaned one-sided records), then the registry
// entry, then a fresh online snapshot and a user-disconnected notice to
// everyone else. The notice carries the raw connection handle; peers map it
// back to a user themselves via the snapshots they already hold.
func (r *Router) HandleDisconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.registry.FindByConnection(connID); ok {
		r.ledger.EndAllFor(entry.UserID)
		r.log.Info("user left", zap.String("userID", entry.UserID), zap.String("connID", connID))
	}
	r.registry.Remove(connID)
	r.broadcastOnlineLocked()
	r.emitter.BroadcastExcept(connID, EventUserDisconnected, UserDisconnectedPayload{ConnectionID: connID})
}

// broadcastOnlineLocked publishes the full online snapshot to everyone.
// Callers hold r.mu, so the snapshot is exactly the post-mutation state.
func (r *Router) broadcastOnlineLocked() {
	r.emitter.Broadcast(EventOnlineUsers, r.registry.Snapshot())
}

func (r *Router) decode(connID, event string, data json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		r.log.Warn("dropping malformed payload",
			zap.String("event", event),
			zap.String("connID", connID),
			zap.Error(err))
		return false
	}
	return true
}

func (r *Router) dropInvalid(connID, event, reason string) {
	r.log.Warn("dropping invalid event",
		zap.String("event", event),
		zap.String("connID", connID),
		zap.String("reason", reason))
}
