// Package notify delivers operational notifications (invoice reminders,
// budget alerts, job outcomes) to people.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var ErrNoAddress = fmt.Errorf("recipient has no address: %w", fault.ErrValidation)

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	// ChannelInbox is the in-app notification list of a user.
	ChannelInbox Channel = "inbox"
)

type Notification struct {
	Kind     string         `json:"kind"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Severity Severity       `json:"severity"`
	Data     map[string]any `json:"data,omitempty"`
}

// Message is what a Publisher ships: a notification addressed on one channel.
type Message struct {
	Channel      Channel      `json:"channel"`
	Address      string       `json:"address"`
	Notification Notification `json:"notification"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

//go:generate mockgen -source=notify.go -destination=notify_mock.go -package=notify
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Recipient is anything that can be notified.
type Recipient interface {
	Notify(ctx context.Context, n Notification) error
}

type EmailRecipient struct {
	Address string
	pub     Publisher
}

func (r EmailRecipient) Notify(ctx context.Context, n Notification) error {
	if r.Address == "" {
		return ErrNoAddress
	}

	return r.pub.Publish(ctx, Message{Channel: ChannelEmail, Address: r.Address, Notification: n, CreatedAt: time.Now()})
}

// UserRecipient targets a back-office user's inbox.
type UserRecipient struct {
	UserID string
	pub    Publisher
}

func (r UserRecipient) Notify(ctx context.Context, n Notification) error {
	if r.UserID == "" {
		return ErrNoAddress
	}

	return r.pub.Publish(ctx, Message{Channel: ChannelInbox, Address: r.UserID, Notification: n, CreatedAt: time.Now()})
}

// GroupRecipient fans a notification out to every member. All members are
// tried even if some fail.
type GroupRecipient []Recipient

func (g GroupRecipient) Notify(ctx context.Context, n Notification) error {
	var errs []error

	for _, r := range g {
		if err := r.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Directory builds recipients bound to one publisher.
type Directory struct {
	pub     Publisher
	finance []string
}

func NewDirectory(pub Publisher, financeEmails []string) *Directory {
	return &Directory{pub: pub, finance: financeEmails}
}

func (d *Directory) Email(address string) Recipient {
	return EmailRecipient{Address: address, pub: d.pub}
}

func (d *Directory) User(id string) Recipient {
	return UserRecipient{UserID: id, pub: d.pub}
}

// Finance is the group that receives budget alerts.
func (d *Directory) Finance() Recipient {
	g := make(GroupRecipient, 0, len(d.finance))
	for _, addr := range d.finance {
		g = append(g, d.Email(addr))
	}

	return g
}
