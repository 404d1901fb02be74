// Package approved tracks message senders: newcomers who joined the chat recently and users approved
// after their first clean messages. Approved users skip classification unless paranoid mode is on.
package approved

import (
	"fmt"
	"time"
)

// UserInfo is a struct for approved user info.
type UserInfo struct {
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"-"` // clean messages seen so far
}

func (u *UserInfo) String() string {
	if u.UserName == "" {
		return fmt.Sprintf("%d", u.UserID)
	}
	return fmt.Sprintf("%q (%d)", u.UserName, u.UserID)
}
