// Package invite builds and parses the out-of-band invitation deep links
// handed to holders.
package invite

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const urlPrefix = "sim://oob/"

// ErrMalformedURL is returned when an invitation URL does not match the
// fixed sim://oob/ pattern.
var ErrMalformedURL = errors.New("malformed invitation url")

// NewDeepLink creates an invitation deep link of the fixed form
// sim://oob/<invitationId>?label=<label>&alias=<alias>.
func NewDeepLink(invitationID, label, alias string) string {
	q := url.Values{}
	q.Set("label", label)
	q.Set("alias", alias)
	return fmt.Sprintf("%s%s?%s", urlPrefix, url.PathEscape(invitationID), q.Encode())
}

// ParseDeepLink extracts the invitation identifier out of a deep link.
// Fails with ErrMalformedURL when the fixed prefix does not match or no
// identifier is present.
func ParseDeepLink(raw string) (string, error) {
	if !strings.HasPrefix(raw, urlPrefix) {
		return "", ErrMalformedURL
	}
	rest := strings.TrimPrefix(raw, urlPrefix)
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	id, err := url.PathUnescape(rest)
	if err != nil || id == "" {
		return "", ErrMalformedURL
	}
	return id, nil
}
