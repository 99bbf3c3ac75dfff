package gate

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
)

// NoticeKey is where KVNotifier keeps the pending notice.
const NoticeKey = "glutenworld:notice"

// NoticeKind tells a not-signed-in notice from a subscription one.
type NoticeKind string

const (
	NoticeSignInRequired       NoticeKind = "sign_in_required"
	NoticeSubscriptionRequired NoticeKind = "subscription_required"
)

// Notice is the user-visible explanation of a redirect.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Copy is the text shown for each notice kind.
type Copy struct {
	SignIn       Notice
	Subscription Notice
}

// DefaultCopy is the English notice text.
var DefaultCopy = Copy{
	SignIn: Notice{
		Kind:    NoticeSignInRequired,
		Title:   "Authentication required",
		Message: "Please sign in to access this page.",
	},
	Subscription: Notice{
		Kind:    NoticeSubscriptionRequired,
		Title:   "Subscription required",
		Message: "Start your free trial or subscribe to continue.",
	},
}

// Notifier delivers a notice to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

type NotifierFunc func(ctx context.Context, n Notice) error

func (f NotifierFunc) Notify(ctx context.Context, n Notice) error { return f(ctx, n) }

// KVNotifier keeps the latest notice in a kv.Store until it is popped.
type KVNotifier struct {
	store kv.Store
}

func NewKVNotifier(store kv.Store) *KVNotifier {
	return &KVNotifier{store: store}
}

func (n *KVNotifier) Notify(ctx context.Context, notice Notice) error {
	raw, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	return n.store.Set(ctx, NoticeKey, raw)
}

// Pop returns and removes the pending notice. ok is false when none exists.
func (n *KVNotifier) Pop(ctx context.Context) (notice Notice, ok bool, err error) {
	raw, err := kv.Pop(ctx, n.store, NoticeKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Notice{}, false, nil
	}
	if err != nil {
		return Notice{}, false, err
	}
	if err := json.Unmarshal(raw, &notice); err != nil {
		return Notice{}, false, err
	}
	return notice, true, nil
}
