// Package validate holds the form field rules shared by the donation,
// newsletter and contact forms.
package validate

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobileRe = regexp.MustCompile(`^[6-9]\d{9}$`)
	phoneRe  = regexp.MustCompile(`^\+?[1-9]\d{9,15}$`)
	nonDigit = regexp.MustCompile(`\D`)
	phoneSep = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Mobile reports whether s is a ten digit Indian mobile number once every
// non-digit is removed.
func Mobile(s string) bool {
	return mobileRe.MatchString(nonDigit.ReplaceAllString(s, ""))
}

// Phone reports whether s is a phone number of 10 to 16 digits, optionally
// led by +, once spaces, dashes and parentheses are removed.
func Phone(s string) bool {
	return phoneRe.MatchString(phoneSep.Replace(strings.TrimSpace(s)))
}

// Errors maps a form field name to its message. The zero value is ready to use.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e *Errors) Add(field, msg string) {
	if *e == nil {
		*e = Errors{}
	}
	if _, ok := (*e)[field]; !ok {
		(*e)[field] = msg
	}
}

// Error lists the messages in field order so the output is stable.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f + ": " + e[f]
	}
	return strings.Join(msgs, "; ")
}

// Err returns e as an error, or nil when it holds no messages.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
