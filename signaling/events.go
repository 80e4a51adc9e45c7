package signaling

import "encoding/json"

// Inbound event names (client -> relay).
const (
	EventJoin        = "join"
	EventCallRequest = "call-request"
	EventCallAccept  = "call-accept"
	EventCallReject  = "call-reject"
	EventCallEnd     = "call-end"
)

// Outbound event names (relay -> client).
const (
	EventAssignedConnectionID  = "assigned-connection-id"
	EventOnlineUsers           = "online-users"
	EventCallToUser            = "call-to-user"
	EventCallAccepted          = "call-accepted"
	EventCallRejected          = "call-rejected"
	EventCallEnded             = "call-ended"
	EventUserUnavailable       = "user-unavailable"
	EventUserBusy              = "user-busy"
	EventIncomingCallWhileBusy = "incoming-call-while-busy"
	EventUserDisconnected      = "user-disconnected"
)

// Envelope is the wire frame for every websocket message in both directions.
// Data is left raw on the way in so each handler decodes its own payload;
// SDP/ICE blobs inside payloads are never inspected.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type CallRequestPayload struct {
	CalleeID         string          `json:"calleeId"`
	SignalPayload    json.RawMessage `json:"signalPayload"`
	CallerID         string          `json:"callerId"`
	CallerName       string          `json:"callerName"`
	CallerEmail      string          `json:"callerEmail"`
	CallerProfilePic string          `json:"callerProfilePic"`
}

type CallAcceptPayload struct {
	TargetConnectionID string          `json:"targetConnectionId"`
	AnswerSignal       json.RawMessage `json:"answerSignal"`
	CallerID           string          `json:"callerId"`
}

type CallRejectPayload struct {
	TargetConnectionID string `json:"targetConnectionId"`
	CallerName         string `json:"callerName"`
	CallerProfilePic   string `json:"callerProfilePic"`
}

type CallEndPayload struct {
	TargetConnectionID string `json:"targetConnectionId"`
	EndingUserName     string `json:"endingUserName"`
}

type AssignedConnectionIDPayload struct {
	ConnectionID string `json:"connectionId"`
}

// CallToUserPayload is forwarded to the callee on a call request. The
// caller's connection id rides along so the callee can address the accept
// or reject back at the right socket.
type CallToUserPayload struct {
	Signal             json.RawMessage `json:"signal"`
	CallerID           string          `json:"callerId"`
	CallerName         string          `json:"callerName"`
	CallerEmail        string          `json:"callerEmail"`
	CallerProfilePic   string          `json:"callerProfilePic"`
	CallerConnectionID string          `json:"callerConnectionId"`
}

type CallAcceptedPayload struct {
	Signal   json.RawMessage `json:"signal"`
	CallerID string          `json:"callerId"`
}

type CallRejectedPayload struct {
	CallerName       string `json:"callerName"`
	CallerProfilePic string `json:"callerProfilePic"`
}

type CallEndedPayload struct {
	EndingUserName string `json:"endingUserName"`
}

type UserUnavailablePayload struct {
	CalleeID string `json:"calleeId"`
}

type UserBusyPayload struct {
	CalleeID string `json:"calleeId"`
}

type IncomingCallWhileBusyPayload struct {
	CallerID         string `json:"callerId"`
	CallerName       string `json:"callerName"`
	CallerEmail      string `json:"callerEmail"`
	CallerProfilePic string `json:"callerProfilePic"`
}

type UserDisconnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}
