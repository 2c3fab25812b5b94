package users

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// ID is a user identifier as sent by the API. The backend sends numeric primary keys
// but some endpoints send them quoted, so both forms decode.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so they round-trip with the API
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

// Profile is the identity cached alongside the tokens after login
type Profile struct {
	ID       ID     `json:"id"`
	UserID   string `json:"user_id,omitempty"` // Login identifier (distinct from the primary key)
	FullName string `json:"full_name,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// User is an account record held by the dev API
type User struct {
	ID           ID     `json:"id"`
	UserID       string `json:"user_id"` // Login identifier, unique per role
	FullName     string `json:"full_name"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"` // Never serialize
	Blocked      bool   `json:"blocked,omitempty"`
}

// Profile returns the public view of the account sent back on login
func (u *User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		UserID:   u.UserID,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

// CheckPassword compares password against the stored bcrypt hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
