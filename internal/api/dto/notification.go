package dto

import "github.com/pratik-mahalle/creditwatch/internal/domain/notification"

// PreferencesDTO represents notification preferences in API requests
// and responses.
type PreferencesDTO struct {
	EnableSound   bool     `json:"enableSound"`
	EnableDesktop bool     `json:"enableDesktop"`
	EnableEmail   bool     `json:"enableEmail"`
	EnableSMS     bool     `json:"enableSms"`
	MutedTypes    []string `json:"mutedTypes,omitempty" validate:"dive,oneof=credit_limit rating_change delinquency concentration covenant anomaly"`
}

// NewPreferencesDTO maps domain preferences to the API shape.
func NewPreferencesDTO(p notification.Preferences) PreferencesDTO {
	return PreferencesDTO{
		EnableSound:   p.EnableSound,
		EnableDesktop: p.EnableDesktop,
		EnableEmail:   p.EnableEmail,
		EnableSMS:     p.EnableSMS,
		MutedTypes:    p.MutedTypes,
	}
}

// ToDomain converts the DTO to domain preferences.
func (d PreferencesDTO) ToDomain() notification.Preferences {
	return notification.Preferences{
		EnableSound:   d.EnableSound,
		EnableDesktop: d.EnableDesktop,
		EnableEmail:   d.EnableEmail,
		EnableSMS:     d.EnableSMS,
		MutedTypes:    d.MutedTypes,
	}
}
