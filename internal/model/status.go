package model

import "strings"

// StatusOption is one entry of a status domain. Code is the canonical
// (internal) status; Value is the synonym submitted on a change. They can
// differ, and only Value may be sent upstream.
type StatusOption struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Code  string `json:"code" yaml:"code"`
	Value string `json:"value" yaml:"value"`
}

// IsCurrent reports whether current names this option. The server may echo
// either the canonical code or the synonym, so both are checked.
func (o StatusOption) IsCurrent(current string) bool {
	current = strings.TrimSpace(current)
	if current == "" {
		return false
	}
	return strings.EqualFold(current, o.Code) || strings.EqualFold(current, o.Value)
}

// CurrentIndex returns the index of the first option matching current, or -1.
func CurrentIndex(opts []StatusOption, current string) int {
	for i, o := range opts {
		if o.IsCurrent(current) {
			return i
		}
	}
	return -1
}

// Well-known canonical work order statuses.
const (
	StatusWaitingApproval = "WAPPR"
	StatusApproved        = "APPR"
	StatusWaitingSchedule = "WSCH"
	StatusWaitingMaterial = "WMATL"
	StatusInProgress      = "INPRG"
	StatusComplete        = "COMP"
	StatusClosed          = "CLOSE"
	StatusCancelled       = "CAN"
	StatusHistoryEdit     = "HISTEDIT"
)

var fallbackLabels = map[string]string{
	StatusWaitingApproval: "Waiting on Approval",
	StatusApproved:        "Approved",
	StatusWaitingSchedule: "Waiting to be Scheduled",
	StatusWaitingMaterial: "Waiting on Material",
	StatusInProgress:      "In Progress",
	StatusComplete:        "Completed",
	StatusClosed:          "Closed",
	StatusCancelled:       "Cancelled",
	StatusHistoryEdit:     "Edited in History",
}

// StatusLabel returns a display label for a canonical code from a fixed
// table, for use before (or without) a domain listing. Unknown codes are
// returned as-is.
func StatusLabel(code string) string {
	if l, ok := fallbackLabels[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return l
	}
	return code
}
