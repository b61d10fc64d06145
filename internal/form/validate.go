package form

import (
	"regexp"
	"strings"
)

const (
	MsgNameRequired  = "Name is required"
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Email is invalid"
	MsgPhoneRequired = "Phone number is required"
	MsgPhoneInvalid  = "Please enter a valid 10-digit phone number"
	MsgDateRequired  = "Date is required"
	MsgTimeRequired  = "Time is required"
)

// Errors maps a field to its inline message. Fields without a problem are absent.
type Errors map[Field]string

func (e Errors) Get(f Field) string { return e[f] }

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Unanchored on purpose: any token@token.token run inside the value passes.
var emailShape = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate checks the required fields. Guests, occasion and special requests never fail.
func Validate(v Values) Errors {
	errs := Errors{}
	if strings.TrimSpace(v.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}

	if strings.TrimSpace(v.Email) == "" {
		errs[FieldEmail] = MsgEmailRequired
	} else if !emailShape.MatchString(v.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}

	if strings.TrimSpace(v.Phone) == "" {
		errs[FieldPhone] = MsgPhoneRequired
	} else if len(PhoneDigits(v.Phone)) != 10 {
		errs[FieldPhone] = MsgPhoneInvalid
	}

	if v.Date == "" {
		errs[FieldDate] = MsgDateRequired
	}
	if v.Time == "" {
		errs[FieldTime] = MsgTimeRequired
	}
	return errs
}

// PhoneDigits strips every non-digit character from s.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
