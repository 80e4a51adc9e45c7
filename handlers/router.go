package handlers

import (
    "github.com/gorilla/mux"

    "github.com/callbridge/callbridge-backend/config"
    "github.com/callbridge/callbridge-backend/middleware"
    "github.com/callbridge/callbridge-backend/signaling"
)

func NewRouter(cfg *config.Config, hub *signaling.Hub, sigRouter *signaling.Router) *mux.Router {
    r := mux.NewRouter()
    r.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))

    // Public routes
    r.HandleFunc("/api/register", Register).Methods("POST", "OPTIONS")
    r.HandleFunc("/api/login", Login).Methods("POST", "OPTIONS")
    r.HandleFunc("/api/refresh/token", RefreshToken).Methods("POST", "OPTIONS")
    r.HandleFunc("/ws/{token}", WsHandler(hub, sigRouter))

    // Secured routes
    secured := r.PathPrefix("/api").Subrouter()
    secured.Use(middleware.JWTValidationMiddleware)
    secured.HandleFunc("/me", Me).Methods("GET", "OPTIONS")
    secured.HandleFunc("/logout", Logout).Methods("POST", "OPTIONS")
    return r
}
