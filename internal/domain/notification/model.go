package notification

import "context"

// Channel is a delivery channel for alert notifications.
type Channel string

const (
	ChannelDesktop Channel = "desktop"
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
)

// IsValid reports whether c is a known channel.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelDesktop, ChannelEmail, ChannelSMS:
		return true
	default:
		return false
	}
}

// Preferences is the process-wide notification configuration. It is
// loaded when the alert store is initialized, mutated by user action,
// and persisted across sessions.
type Preferences struct {
	EnableSound   bool     `json:"enable_sound"`
	EnableDesktop bool     `json:"enable_desktop"`
	EnableEmail   bool     `json:"enable_email"`
	EnableSMS     bool     `json:"enable_sms"`
	MutedTypes    []string `json:"muted_types,omitempty"`
}

// DefaultPreferences returns the preferences used when nothing has
// been persisted yet.
func DefaultPreferences() Preferences {
	return Preferences{
		EnableSound:   true,
		EnableDesktop: true,
	}
}

// IsMuted reports whether alerts of the given type are muted.
func (p Preferences) IsMuted(alertType string) bool {
	for _, t := range p.MutedTypes {
		if t == alertType {
			return true
		}
	}
	return false
}

// Repository persists preferences across sessions.
type Repository interface {
	Load(ctx context.Context) (*Preferences, error)
	Save(ctx context.Context, prefs *Preferences) error
}
