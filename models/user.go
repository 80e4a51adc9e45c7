package models

type User struct {
    ID          uint64 `json:"id"`
    Username    string `json:"username"`
    DisplayName string `json:"display_name"`
    Email       string `json:"email"`
    Password    string `json:"password,omitempty"`
    ProfilePic  string `json:"profile_pic"`
}
