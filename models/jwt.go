package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// CustomClaims carries the profile fields the signaling layer attaches to
// call events, so a socket can be authenticated without a DB round trip.
type CustomClaims struct {
    jwt.RegisteredClaims
    ID          string `json:"id"`
    Username    string `json:"username"`
    DisplayName string `json:"display_name"`
    Email       string `json:"email"`
    ProfilePic  string `json:"profile_pic"`
}
