package authsdk

import (
	"net/mail"
	"strings"
)

const bootstrapRequiredReason = "required"

// Validate checks the request before it is sent. Returns a map of field
// names to error messages, or nil if all fields are valid.
func (b BootstrapRequest) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(b.AdminName)
	switch {
	case name == "":
		errs["admin_name"] = bootstrapRequiredReason
	case len(name) > 100:
		errs["admin_name"] = "too long (max 100)"
	}

	email := strings.TrimSpace(b.AdminEmail)
	if email == "" {
		errs["admin_email"] = bootstrapRequiredReason
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs["admin_email"] = "must be a valid email address"
	}

	switch pw := b.AdminPassword; {
	case pw == "":
		// generated by the service
	case len(pw) < 8:
		errs["admin_password"] = "too short (min 8)"
	case len(pw) > 128:
		errs["admin_password"] = "too long (max 128)"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
