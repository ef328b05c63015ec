package models

// User is the identity of the signed-in administrator
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// AuthSource tells which path authenticated a session
type AuthSource string

const (
	AuthSourceAPI   AuthSource = "api"
	AuthSourceLocal AuthSource = "local"
)

// Session is the persisted login state
type Session struct {
	LoggedIn bool       `json:"loggedIn"`
	User     *User      `json:"user,omitempty"`
	Token    string     `json:"token,omitempty"`
	Source   AuthSource `json:"source,omitempty"`
}
