package conversation

import (
	"net/mail"
	"strings"
)

type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (c Contact) Complete() bool {
	return c.Name != "" && c.Email != ""
}

// ContactStep is what the collector needs next.
type ContactStep int

const (
	ContactNeedName ContactStep = iota
	ContactNeedEmail
	ContactComplete
)

// CollectContact feeds one text message into the name-then-email intake.
// Fields already set are never overwritten. On a rejected value the contact
// is returned unchanged together with a *ValidationError.
func CollectContact(c Contact, text string) (Contact, ContactStep, error) {
	text = strings.TrimSpace(text)
	switch {
	case c.Name == "":
		if text == "" {
			return c, ContactNeedName, NewValidationError("name", nil)
		}
		c.Name = text
		return c, ContactNeedEmail, nil
	case c.Email == "":
		if !ValidEmail(text) {
			return c, ContactNeedEmail, NewValidationError("email", nil)
		}
		c.Email = text
		return c, ContactComplete, nil
	default:
		return c, ContactComplete, nil
	}
}

// ValidEmail reports whether s is a bare local@domain address with a dotted domain.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.HasSuffix(domain, ".")
}
