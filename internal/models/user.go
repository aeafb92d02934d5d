package models

import (
	"strings"
	"time"
)

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Owner keys stats and content: "user:<id>" or "device:<uuid>".
type Owner string

const (
	userOwnerPrefix   = "user:"
	deviceOwnerPrefix = "device:"
)

func UserOwner(userID string) Owner     { return Owner(userOwnerPrefix + userID) }
func DeviceOwner(deviceID string) Owner { return Owner(deviceOwnerPrefix + deviceID) }

// UserID returns the account id for user owners.
func (o Owner) UserID() (string, bool) {
	if strings.HasPrefix(string(o), userOwnerPrefix) {
		return strings.TrimPrefix(string(o), userOwnerPrefix), true
	}
	return "", false
}

func (o Owner) String() string { return string(o) }
