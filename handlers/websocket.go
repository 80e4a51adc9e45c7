package handlers

import (
    "net/http"

    "github.com/google/uuid"
    "github.com/gorilla/mux"
    "github.com/gorilla/websocket"
    "go.uber.org/zap"

    "github.com/callbridge/callbridge-backend/logger"
    "github.com/callbridge/callbridge-backend/responses"
    "github.com/callbridge/callbridge-backend/signaling"
    "github.com/callbridge/callbridge-backend/utils"
)

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    CheckOrigin:     func(r *http.Request) bool { return true },
}

// WsHandler upgrades an authenticated request to a websocket session and
// runs it against the signaling router. The token authenticates the socket;
// presence starts only when the client sends its join event.
func WsHandler(hub *signaling.Hub, router *signaling.Router) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        vars := mux.Vars(r)
        tokenStr := vars["token"]

        claims, err := ValidateToken(tokenStr)
        if err != nil {
            logger.Log.Warn("websocket token rejected", zap.Error(err))
            utils.HandleError(w, responses.UnauthorizedError{Msg: "Error validating token."})
            return
        }

        conn, err := upgrader.Upgrade(w, r, nil)
        if err != nil {
            logger.Log.Warn("websocket upgrade failed", zap.Error(err))
            return
        }

        connID := uuid.NewString()
        client := signaling.NewClient(connID, conn)

        hub.Add(client)
        go client.WritePump(logger.Log)

        // The client learns its own handle before anything else, so peers
        // can address call answers back at this exact socket.
        router.HandleConnect(connID)

        logger.Log.Info("websocket session started",
            zap.String("connID", connID),
            zap.String("userID", claims.ID))

        client.ReadPump(logger.Log, router.Dispatch)

        // Socket is gone: reconcile presence and call state, then drop the
        // client from the hub.
        router.HandleDisconnect(connID)
        hub.Remove(client)
    }
}
