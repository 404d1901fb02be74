package approved

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/umputun/tg-moderator/lib/spamcheck"
)

//go:generate moq --out mocks/user_storage.go --pkg mocks --skip-ensure --with-resets . UserStorage

// UserStorage is an interface for approved users storage.
type UserStorage interface {
	Read(ctx context.Context) ([]UserInfo, error) // read approved users from storage
	Write(ctx context.Context, au UserInfo) error // write approved user to storage
	Delete(ctx context.Context, id int64) error   // delete approved user from storage
}

// TrackerConfig defines sender tracking rules
type TrackerConfig struct {
	Window        time.Duration // how long a joined user is a newcomer
	FirstMessages int           // clean messages required for approval, 0 disables approval
	Paranoid      bool          // check all messages of all users, nobody gets approved
	MaxNewcomers  int           // max tracked newcomers, 0 means unlimited
}

// Tracker keeps newcomers and approved users. It decides if a message has to be checked
// and provides sender context for the decision policy. Thread-safe.
type Tracker struct {
	TrackerConfig
	storage   UserStorage // optional
	newcomers cache.Cache[string, time.Time]

	lock  sync.RWMutex
	users map[int64]UserInfo
}

// NewTracker makes a Tracker and loads approved users from the storage, if set
func NewTracker(ctx context.Context, cfg TrackerConfig, storage UserStorage) (*Tracker, error) {
	if cfg.Window <= 0 {
		cfg.Window = 7 * 24 * time.Hour
	}
	if cfg.FirstMessages < 0 {
		return nil, &spamcheck.ConfigError{Field: "first messages", Reason: "must not be negative"}
	}
	newcomers := cache.NewCache[string, time.Time]().WithTTL(cfg.Window)
	if cfg.MaxNewcomers > 0 {
		newcomers = newcomers.WithMaxKeys(cfg.MaxNewcomers)
	}
	res := &Tracker{TrackerConfig: cfg, storage: storage, newcomers: newcomers, users: map[int64]UserInfo{}}

	if storage == nil {
		return res, nil
	}
	users, err := storage.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read approved users from storage: %w", err)
	}
	for _, u := range users {
		u.Count = cfg.FirstMessages
		res.users[u.UserID] = u
	}
	log.Printf("[INFO] loaded %d approved users", len(users))
	return res, nil
}

// Joined marks the user as a newcomer of the chat
func (t *Tracker) Joined(chatID, userID int64, at time.Time) {
	t.newcomers.Set(newcomerKey(chatID, userID), at, t.Window)
}

// Context returns the sender context and tells if the message has to be checked
func (t *Tracker) Context(_ context.Context, msg spamcheck.Message) (sender spamcheck.Sender, check bool) {
	_, sender.NewMember = t.newcomers.Get(newcomerKey(msg.ChatID, msg.From.ID))
	if t.Paranoid || t.FirstMessages == 0 {
		return sender, true
	}
	sender.Approved = t.IsApproved(msg.From.ID)
	return sender, !sender.Approved
}

// Observe counts clean messages of the sender, the sender is approved after FirstMessages of them.
// Removed message resets the count.
func (t *Tracker) Observe(ctx context.Context, msg spamcheck.Message, action spamcheck.Action) {
	if t.Paranoid || t.FirstMessages == 0 || msg.From.ID == 0 {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	switch action {
	case spamcheck.ActionRemove:
		delete(t.users, msg.From.ID)
		return
	case spamcheck.ActionFlag:
		return
	}

	info := t.users[msg.From.ID]
	if info.Count >= t.FirstMessages {
		return // already approved
	}
	info.UserID, info.UserName, info.Timestamp = msg.From.ID, msg.From.UserName, time.Now()
	info.Count++
	t.users[msg.From.ID] = info
	if info.Count < t.FirstMessages {
		return
	}

	log.Printf("[INFO] user %s approved after %d messages", &info, info.Count)
	if t.storage != nil {
		if err := t.storage.Write(ctx, info); err != nil {
			log.Printf("[WARN] failed to write approved user %s: %v", &info, err)
		}
	}
}

// Approve adds the user to approved users
func (t *Tracker) Approve(ctx context.Context, user UserInfo) error {
	if user.UserID == 0 {
		return fmt.Errorf("user id is not set")
	}
	if user.Timestamp.IsZero() {
		user.Timestamp = time.Now()
	}
	user.Count = t.FirstMessages

	t.lock.Lock()
	t.users[user.UserID] = user
	t.lock.Unlock()

	if t.storage != nil {
		if err := t.storage.Write(ctx, user); err != nil {
			return fmt.Errorf("failed to write approved user %s to storage: %w", &user, err)
		}
	}
	return nil
}

// Remove removes the user from approved users
func (t *Tracker) Remove(ctx context.Context, id int64) error {
	t.lock.Lock()
	delete(t.users, id)
	t.lock.Unlock()

	if t.storage != nil {
		if err := t.storage.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete approved user %d from storage: %w", id, err)
		}
	}
	return nil
}

// IsApproved checks if the user passed the first messages check
func (t *Tracker) IsApproved(id int64) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	info, ok := t.users[id]
	return ok && t.FirstMessages > 0 && info.Count >= t.FirstMessages
}

// Users returns approved users, sorted by approval time
func (t *Tracker) Users() []UserInfo {
	t.lock.RLock()
	defer t.lock.RUnlock()
	res := make([]UserInfo, 0, len(t.users))
	for _, u := range t.users {
		if u.Count >= t.FirstMessages {
			res = append(res, u)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	return res
}

func newcomerKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}
