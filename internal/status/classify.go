package status

import (
	"errors"
	"strings"

	"github.com/rogersnm/fieldwork/internal/maximo"
)

// DefaultRejectionMarkers are substrings of upstream messages or reason
// codes that mean "this transition is not allowed".
var DefaultRejectionMarkers = []string{
	"BMXAA4590E",
	"BMXAA2230E",
	"BMXAA4179E",
	"BMXAA4206E",
	"is not a valid status",
	"cannot change status",
	"cannot be changed to",
	"invalid status",
}

// Classifier maps errors from the transport to a Kind. It is the only place
// that knows the rejection markers.
type Classifier struct {
	markers []string
}

func NewClassifier(markers ...string) *Classifier {
	if len(markers) == 0 {
		markers = DefaultRejectionMarkers
	}
	lower := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			lower = append(lower, strings.ToLower(m))
		}
	}
	return &Classifier{markers: lower}
}

// IsRejection reports whether msg carries a rejection marker.
func (c *Classifier) IsRejection(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range c.markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Classify returns the Kind of err and the message to show for it. Upstream
// messages are returned verbatim.
func (c *Classifier) Classify(err error) (Kind, string) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, se.Message
	}
	var apiErr *maximo.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		if c.IsRejection(apiErr.ReasonCode) || c.IsRejection(apiErr.Message) {
			return KindBusinessRule, msg
		}
		return KindServer, msg
	}
	if c.IsRejection(err.Error()) {
		return KindBusinessRule, err.Error()
	}
	return KindTransport, err.Error()
}

// wrap turns err into an *Error using the classifier.
func (c *Classifier) wrap(err error) *Error {
	kind, msg := c.Classify(err)
	return &Error{Kind: kind, Message: msg, Err: err}
}
