package signaling

import "sync"

// CallRecord is one side of an active call. A call is represented by two
// records, one per participant, so either side can be looked up in O(1).
type CallRecord struct {
	ParticipantID string
	PeerID        string
	ConnectionID  string
}

// Ledger tracks which users are currently in a call. It tolerates transient
// asymmetry: during call setup, or after an abrupt disconnect, one side's
// record may exist without its mirror.
type Ledger struct {
	mu    sync.RWMutex
	calls map[string]*CallRecord
}

func NewLedger() *Ledger {
	return &Ledger{calls: make(map[string]*CallRecord)}
}

// IsBusy reports whether userID currently holds a call record.
func (l *Ledger) IsBusy(userID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.calls[userID]
	return ok
}

// StartCall records that a and b are in a call, with a reachable on connA.
// a's record is overwritten unconditionally; b's side is only created (or
// repointed at a) when it does not already name a, so a second invocation
// with the arguments swapped fills in b's connection without clobbering a's.
func (l *Ledger) StartCall(a, b, connA string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls[a] = &CallRecord{ParticipantID: a, PeerID: b, ConnectionID: connA}
	if existing, ok := l.calls[b]; !ok || existing.PeerID != a {
		l.calls[b] = &CallRecord{ParticipantID: b, PeerID: a}
	}
}

// EndCall removes userID's record and, if the peer's record points back at
// userID, the peer's record too. No-op when userID is not in a call.
func (l *Ledger) EndCall(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.calls[userID]
	if !ok {
		return
	}
	delete(l.calls, userID)
	if peer, ok := l.calls[record.PeerID]; ok && peer.PeerID == userID {
		delete(l.calls, record.PeerID)
	}
}

// EndAllFor clears every trace of userID from the ledger: its own record and
// any record naming it as peer. A disconnect can land mid-setup, before the
// symmetric pair exists, so this sweeps for orphaned single-sided entries
// rather than trusting the mirror link.
func (l *Ledger) EndAllFor(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.calls, userID)
	for participant, record := range l.calls {
		if record.PeerID == userID {
			delete(l.calls, participant)
		}
	}
}

// ActiveCalls returns the number of call records currently held.
func (l *Ledger) ActiveCalls() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.calls)
}
