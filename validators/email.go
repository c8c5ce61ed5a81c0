package validators

import (
	"regexp"
	"strings"

	formbind "github.com/formbind/formbind"
	"golang.org/x/net/idna"
)

const emailTemplate = "Enter a valid email address."

var (
	emailUserRe = regexp.MustCompile(
		`(?i)(^[-!#$%&'*+/=?^_` + "`" + `{}|~0-9A-Z]+(\.[-!#$%&'*+/=?^_` + "`" + `{}|~0-9A-Z]+)*\z` +
			`|^"([\x01-\x08\x0b\x0c\x0e-\x1f!#-\[\]-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*"\z)`)
	// The max length of the domain is 249: 254 (max email length) minus one
	// period, two characters for the TLD, the @ sign and one character before it.
	// The TLD alternative requires the last character to be alphanumeric, which
	// stands in for the original pattern's lookbehind (unsupported in RE2).
	emailDomainRe = regexp.MustCompile(
		`(?i)^(?:[A-Z0-9](?:[A-Z0-9-]{0,247}[A-Z0-9])?\.)+(?:[A-Z]{2,6}|[A-Z0-9-]+[A-Z0-9])\z`)
	emailLiteralRe = regexp.MustCompile(`(?i)^\[([A-Fa-f0-9:.]+)\]\z`)
	emailIPv4Re    = regexp.MustCompile(`^(25[0-5]|2[0-4]\d|[0-1]?\d?\d)(\.(25[0-5]|2[0-4]\d|[0-1]?\d?\d)){3}\z`)
)

var emailDomainWhitelist = []string{"localhost"}

// Email validates an email address, following the widely-used Django rules:
// a dot-atom or quoted-string user part, and a domain that is either a
// registered-name with a TLD, a whitelisted literal like "localhost", or a
// bracketed IP literal. Non-ASCII domains are retried through IDNA encoding.
func Email(v any, ctx *formbind.Context) (any, error) {
	s, ok := v.(string)
	if !ok || s == "" || !strings.Contains(s, "@") {
		return nil, formbind.Fail(emailTemplate).WithValue(v)
	}
	at := strings.LastIndex(s, "@")
	user, domain := s[:at], s[at+1:]
	if !emailUserRe.MatchString(user) {
		return nil, formbind.Fail(emailTemplate).WithValue(v)
	}
	if emailDomainOK(domain) {
		return v, nil
	}
	if ascii, err := idna.Lookup.ToASCII(domain); err == nil && emailDomainOK(ascii) {
		return v, nil
	}
	return nil, formbind.Fail(emailTemplate).WithValue(v)
}

func emailDomainOK(domain string) bool {
	for _, w := range emailDomainWhitelist {
		if domain == w {
			return true
		}
	}
	if emailDomainRe.MatchString(domain) {
		return true
	}
	if m := emailLiteralRe.FindStringSubmatch(domain); m != nil {
		return emailIPv4Re.MatchString(m[1])
	}
	return false
}
