package handlers

import (
    "crypto/rand"
    "database/sql"
    "encoding/base64"
    "encoding/json"
    "fmt"
    "net/http"
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v4"
    "go.uber.org/zap"
    "golang.org/x/crypto/bcrypt"

    "github.com/callbridge/callbridge-backend/common"
    "github.com/callbridge/callbridge-backend/logger"
    "github.com/callbridge/callbridge-backend/models"
    "github.com/callbridge/callbridge-backend/repository"
    "github.com/callbridge/callbridge-backend/responses"
    "github.com/callbridge/callbridge-backend/utils"
)

func Register(w http.ResponseWriter, r *http.Request) {
    db := repository.PostgreSQLDB

    var user models.User
    err := json.NewDecoder(r.Body).Decode(&user)
    if err != nil {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid request."})
        return
    }

    if len(user.Username) < 3 || len(user.Username) > 50 {
        utils.HandleError(w, responses.BadRequestError{Msg: "Username must be between 3 and 50 characters."})
        return
    }

    if len(user.Password) < 3 || len(user.Password) > 50 {
        utils.HandleError(w, responses.BadRequestError{Msg: "Password must be between 3 and 50 characters."})
        return
    }

    if !strings.Contains(user.Email, "@") {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid email address."})
        return
    }

    if user.DisplayName == "" {
        user.DisplayName = user.Username
    }

    hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
    if err != nil {
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to hash password."})
        return
    }
    user.Password = string(hashedPassword)

    _, err = db.Exec("INSERT INTO users (username, display_name, email, password, profile_pic) VALUES ($1, $2, $3, $4, $5)",
        user.Username, user.DisplayName, user.Email, user.Password, user.ProfilePic)
    if err != nil {
        logger.Log.Error("failed to create user", zap.Error(err))
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to create user."})
        return
    }

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"message": "User created successfully."}))
}

func Login(w http.ResponseWriter, r *http.Request) {
    db := repository.PostgreSQLDB

    var loginInfo models.User
    err := json.NewDecoder(r.Body).Decode(&loginInfo)
    if err != nil {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid request."})
        return
    }

    var user models.User
    err = db.QueryRow("SELECT id, username, display_name, email, password, profile_pic FROM users WHERE username = $1",
        loginInfo.Username).Scan(&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.Password, &user.ProfilePic)
    if err != nil {
        if err == sql.ErrNoRows {
            utils.HandleError(w, responses.UnauthorizedError{Msg: "You are not authorized to access this resource."})
            return
        }
        logger.Log.Error("failed to look up user", zap.Error(err))
        utils.HandleError(w, responses.InternalServerError{Msg: "An error occurred while processing your request."})
        return
    }

    err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginInfo.Password))
    if err != nil {
        utils.HandleError(w, responses.BadRequestError{Msg: "Invalid username or password."})
        return
    }

    tokenString, err := issueAccessToken(user)
    if err != nil {
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to generate token."})
        return
    }

    refreshToken, err := generateRefreshToken()
    if err != nil {
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to generate refresh token."})
        return
    }

    expiresAt := time.Now().Add(24 * time.Hour * 180) // Expires in 180 days

    _, err = db.Exec("INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)",
        user.ID, refreshToken, expiresAt)
    if err != nil {
        logger.Log.Error("failed to store refresh token", zap.Error(err))
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to store refresh token."})
        return
    }

    refreshTokenCookie := &http.Cookie{
        Name:     "refresh_token",
        Value:    refreshToken,
        Path:     "/",
        Expires:  expiresAt,
        HttpOnly: true,
        Secure:   true,
        SameSite: http.SameSiteStrictMode,
    }

    http.SetCookie(w, refreshTokenCookie)
    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"access_token": tokenString}))
}

func issueAccessToken(user models.User) (string, error) {
    claims := models.CustomClaims{
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
        },
        ID:          strconv.FormatUint(user.ID, 10),
        Username:    user.Username,
        DisplayName: user.DisplayName,
        Email:       user.Email,
        ProfilePic:  user.ProfilePic,
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func generateRefreshToken() (string, error) {
    tokenBytes := make([]byte, 64) // 64 bytes
    if _, err := rand.Read(tokenBytes); err != nil {
        return "", err
    }
    return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

func Logout(w http.ResponseWriter, r *http.Request) {
    refreshTokenCookie, err := r.Cookie("refresh_token")
    db := repository.PostgreSQLDB

    if err == nil {
        _, dbErr := db.Exec("DELETE FROM refresh_tokens WHERE token = $1", refreshTokenCookie.Value)
        if dbErr != nil {
            logger.Log.Error("failed to delete refresh token", zap.Error(dbErr))
            utils.HandleError(w, responses.InternalServerError{Msg: "Failed to delete refresh token."})
            return
        }
    }

    // Expire the cookie to force the client to delete it
    newCookie := &http.Cookie{
        Name:     "refresh_token",
        Value:    "",
        Path:     "/",
        Expires:  time.Now().AddDate(0, 0, -1),
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   true,
    }
    http.SetCookie(w, newCookie)

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"message": "Logged out successfully."}))
}

func RefreshToken(w http.ResponseWriter, r *http.Request) {
    refreshTokenCookie, err := r.Cookie("refresh_token")
    if err != nil {
        utils.HandleError(w, responses.UnauthorizedError{Msg: "No refresh token found."})
        return
    }
    db := repository.PostgreSQLDB

    var userID uint64
    var expiresAt time.Time
    err = db.QueryRow("SELECT user_id, expires_at FROM refresh_tokens WHERE token = $1",
        refreshTokenCookie.Value).Scan(&userID, &expiresAt)
    if err != nil {
        utils.HandleError(w, responses.UnauthorizedError{Msg: "Invalid refresh token."})
        return
    }

    if time.Now().After(expiresAt) {
        utils.HandleError(w, responses.UnauthorizedError{Msg: "Refresh token has expired."})
        return
    }

    var user models.User
    err = db.QueryRow("SELECT id, username, display_name, email, profile_pic FROM users WHERE id = $1",
        userID).Scan(&user.ID, &user.Username, &user.DisplayName, &user.Email, &user.ProfilePic)
    if err != nil {
        logger.Log.Error("failed to look up user", zap.Error(err))
        utils.HandleError(w, responses.InternalServerError{Msg: "An error occurred while processing your request."})
        return
    }

    tokenString, err := issueAccessToken(user)
    if err != nil {
        utils.HandleError(w, responses.InternalServerError{Msg: "Failed to generate token."})
        return
    }

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{"access_token": tokenString}))
}

// Me echoes the authenticated user's profile from the validated claims.
func Me(w http.ResponseWriter, r *http.Request) {
    claims, ok := r.Context().Value(common.AuthInfoKey).(*models.CustomClaims)
    if !ok {
        utils.HandleError(w, responses.InternalServerError{Msg: "Error processing request."})
        return
    }

    utils.HandleSuccess(w, models.SuccessResponse(map[string]string{
        "id":           claims.ID,
        "username":     claims.Username,
        "display_name": claims.DisplayName,
        "email":        claims.Email,
        "profile_pic":  claims.ProfilePic,
    }))
}

func ValidateToken(tokenStr string) (*models.CustomClaims, error) {
    secretKey := os.Getenv("JWT_SECRET")
    if secretKey == "" {
        return nil, fmt.Errorf("JWT_SECRET not set")
    }

    claims := &models.CustomClaims{}
    token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
        }

        return []byte(secretKey), nil
    })

    if err != nil {
        return nil, err
    }

    if !token.Valid {
        return nil, fmt.Errorf("invalid token")
    }

    return claims, nil
}
