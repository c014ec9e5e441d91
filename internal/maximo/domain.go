package maximo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SynonymValue is one row of a synonym domain: Value is the submittable
// synonym, MaxValue the canonical code it maps to.
type SynonymValue struct {
	Value       string `json:"value"`
	MaxValue    string `json:"maxvalue"`
	Description string `json:"description"`
	Defaults    bool   `json:"defaults"`
}

type apiDomain struct {
	DomainID      string         `json:"domainid"`
	SynonymDomain []SynonymValue `json:"synonymdomain"`
}

type memberList[T any] struct {
	Member []T `json:"member"`
}

// DomainValues lists the synonym values of domainID in server order.
func (c *Client) DomainValues(ctx context.Context, creds Credentials, domainID string) ([]SynonymValue, error) {
	q := lean()
	q.Set("oslc.select", "domainid,synonymdomain{value,maxvalue,description,defaults}")
	q.Set("oslc.where", fmt.Sprintf("domainid=%q", strings.ToUpper(domainID)))

	resp, err := c.get(ctx, creds, "oslc/os/mxapidomain", q)
	if err != nil {
		return nil, err
	}
	list, err := decodeResponse[memberList[apiDomain]](c, resp)
	if err != nil {
		return nil, err
	}
	var out []SynonymValue
	for _, d := range list.Member {
		if !strings.EqualFold(d.DomainID, domainID) && d.DomainID != "" {
			continue
		}
		out = append(out, d.SynonymDomain...)
	}
	return out, nil
}

// selectQuery returns lean query params selecting fields.
func selectQuery(fields ...string) url.Values {
	q := lean()
	if len(fields) > 0 {
		q.Set("oslc.select", strings.Join(fields, ","))
	}
	return q
}
