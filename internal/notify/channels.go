package notify

import (
	"regexp"
	"strings"
	"time"

	"github.com/meridianlogistics/insight-service/internal/classify"
)

// Channel represents a notification delivery channel
type Channel string

const (
	ChannelInApp    Channel = "in_app"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// DigestFrequency represents how often batched notifications are flushed
type DigestFrequency string

const (
	DigestImmediate DigestFrequency = "immediate"
	DigestHourly    DigestFrequency = "hourly"
	DigestDaily     DigestFrequency = "daily"
)

// Timing represents when a resolved notification should be delivered
type Timing string

const (
	TimingImmediate         Timing = "immediate"
	TimingBatchedDigest     Timing = "batched_digest"
	TimingDelayedQuietHours Timing = "delayed_quiet_hours"
)

// SkipReason explains why a channel was excluded from delivery
type SkipReason string

const (
	SkipDisabledByPreference SkipReason = "disabled by user preference"
	SkipMissingContact       SkipReason = "contact information missing"
	SkipInvalidFormat        SkipReason = "contact information has invalid format"
	SkipNoTemplateContent    SkipReason = "template defines no content for channel"
)

// Template represents the per-channel content a notification template defines
type Template struct {
	ID           string `json:"id"`
	InAppBody    string `json:"in_app_body"`
	EmailSubject string `json:"email_subject"`
	EmailBody    string `json:"email_body"`
	WhatsAppBody string `json:"whatsapp_body"`
}

// HasContent reports whether the template defines content for a channel
func (t Template) HasContent(ch Channel) bool {
	switch ch {
	case ChannelInApp:
		return t.InAppBody != ""
	case ChannelEmail:
		return t.EmailSubject != "" && t.EmailBody != ""
	case ChannelWhatsApp:
		return t.WhatsAppBody != ""
	}
	return false
}

// Preference represents a user's per-channel notification preferences
type Preference struct {
	InAppEnabled    bool                 `json:"in_app_enabled"`
	EmailEnabled    bool                 `json:"email_enabled"`
	WhatsAppEnabled bool                 `json:"whatsapp_enabled"`
	Digest          DigestFrequency      `json:"digest"`
	QuietHours      *classify.QuietHours `json:"quiet_hours,omitempty"`
}

// Enabled reports whether the user has opted into a channel
func (p Preference) Enabled(ch Channel) bool {
	switch ch {
	case ChannelInApp:
		return p.InAppEnabled
	case ChannelEmail:
		return p.EmailEnabled
	case ChannelWhatsApp:
		return p.WhatsAppEnabled
	}
	return false
}

// SkippedChannel pairs an excluded channel with its single reason
type SkippedChannel struct {
	Channel Channel    `json:"channel"`
	Reason  SkipReason `json:"reason"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Indonesian mobile numbers: 08xxxxxxxxxx or +628xxxxxxxxx, 10-14 digits total
var phonePattern = regexp.MustCompile(`^(\+628|08)[0-9]{7,11}$`)

// IsValidEmail reports whether the address passes the delivery format check
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidPhone reports whether the number matches a recognized mobile
// prefix/length pattern.
func IsValidPhone(phone string) bool {
	p := strings.TrimSpace(phone)
	if !phonePattern.MatchString(p) {
		return false
	}
	digits := strings.TrimPrefix(p, "+")
	return len(digits) >= 10 && len(digits) <= 14
}

// allChannels is the resolution order for channel eligibility
var allChannels = []Channel{ChannelInApp, ChannelEmail, ChannelWhatsApp}

// EligibleChannels resolves which channels a notification goes out on. A
// channel is included only when the user preference is enabled, the required
// contact data is present and well-formed, and the template defines content
// for it. In-app delivery needs no contact data.
func EligibleChannels(tmpl Template, pref Preference, email, phone string) []Channel {
	var eligible []Channel
	for _, ch := range allChannels {
		if included, _ := resolveChannel(tmpl, pref, email, phone, ch); included {
			eligible = append(eligible, ch)
		}
	}
	return eligible
}

// SkippedChannels returns every excluded channel with exactly one reason.
// Exclusions are resolved in a fixed order (preference, contact presence,
// contact format, template content) so a channel disabled by preference
// reports that and nothing else.
func SkippedChannels(tmpl Template, pref Preference, email, phone string) []SkippedChannel {
	var skipped []SkippedChannel
	for _, ch := range allChannels {
		if included, reason := resolveChannel(tmpl, pref, email, phone, ch); !included {
			skipped = append(skipped, SkippedChannel{Channel: ch, Reason: reason})
		}
	}
	return skipped
}

func resolveChannel(tmpl Template, pref Preference, email, phone string, ch Channel) (bool, SkipReason) {
	if !pref.Enabled(ch) {
		return false, SkipDisabledByPreference
	}

	switch ch {
	case ChannelEmail:
		if strings.TrimSpace(email) == "" {
			return false, SkipMissingContact
		}
		if !IsValidEmail(email) {
			return false, SkipInvalidFormat
		}
	case ChannelWhatsApp:
		if strings.TrimSpace(phone) == "" {
			return false, SkipMissingContact
		}
		if !IsValidPhone(phone) {
			return false, SkipInvalidFormat
		}
	}

	if !tmpl.HasContent(ch) {
		return false, SkipNoTemplateContent
	}
	return true, ""
}

// ResolveTiming decides when a resolved notification should leave. Quiet
// hours win over digest batching; only one timing is ever returned.
func ResolveTiming(pref Preference, at time.Time) Timing {
	if pref.QuietHours != nil && classify.InQuietHours(*pref.QuietHours, at) {
		return TimingDelayedQuietHours
	}
	if pref.Digest != "" && pref.Digest != DigestImmediate {
		return TimingBatchedDigest
	}
	return TimingImmediate
}
