package maximo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rogersnm/fieldwork/internal/model"
)

// --- API response types ---

type apiWorkOrder struct {
	Href            string `json:"href"`
	WONum           string `json:"wonum"`
	SiteID          string `json:"siteid"`
	Description     string `json:"description"`
	LongDescription string `json:"description_longdescription"`
	Status          string `json:"status"`
	StatusDate      string `json:"statusdate"`
	WorkType        string `json:"worktype"`
	Location        string `json:"location"`
	AssetNum        string `json:"assetnum"`
}

func (w *apiWorkOrder) toModel(n func(string) string) *model.WorkOrder {
	wo := &model.WorkOrder{
		Href:            n(w.Href),
		WONum:           w.WONum,
		SiteID:          w.SiteID,
		Description:     w.Description,
		LongDescription: w.LongDescription,
		Status:          w.Status,
		WorkType:        w.WorkType,
		Location:        w.Location,
		AssetNum:        w.AssetNum,
	}
	if t, err := time.Parse(time.RFC3339, w.StatusDate); err == nil {
		wo.StatusDate = t
	}
	return wo
}

type apiDocLink struct {
	Href        string `json:"href"`
	DescribedBy struct {
		Title    string `json:"title"`
		FileName string `json:"fileName"`
		Format   struct {
			Label string `json:"label"`
		} `json:"format"`
	} `json:"describedBy"`
}

// StatusRecord is a row posted to an entity's status history collection.
type StatusRecord struct {
	Status     string `json:"status"`
	Memo       string `json:"memo,omitempty"`
	ChangeDate string `json:"changedate"`
}

var workOrderFields = []string{
	"wonum", "siteid", "description", "description_longdescription",
	"status", "statusdate", "worktype", "location", "assetnum",
}

// --- Work orders ---

func (c *Client) GetWorkOrder(ctx context.Context, creds Credentials, href string) (*model.WorkOrder, error) {
	resp, err := c.get(ctx, creds, href, selectQuery(workOrderFields...))
	if err != nil {
		return nil, err
	}
	aw, err := decodeResponse[apiWorkOrder](c, resp)
	if err != nil {
		return nil, err
	}
	if aw.Href == "" {
		aw.Href = href
	}
	return aw.toModel(c.urls.Normalize), nil
}

// ReadStatus returns the status currently stored on href.
func (c *Client) ReadStatus(ctx context.Context, creds Credentials, href string) (string, error) {
	resp, err := c.get(ctx, creds, href, selectQuery("status"))
	if err != nil {
		return "", err
	}
	body, err := decodeResponse[struct {
		Status string `json:"status"`
	}](c, resp)
	if err != nil {
		return "", err
	}
	return body.Status, nil
}

// UpdateStatus partially updates the status field of href.
func (c *Client) UpdateStatus(ctx context.Context, creds Credentials, href, value, memo string) error {
	payload := map[string]any{"status": value}
	if memo != "" {
		payload["np_statusmemo"] = memo
	}
	return c.patch(ctx, creds, href, payload)
}

// CollectionRef reads href and returns the reference URL of one of its child
// collections (e.g. "wostatus"). When the representation carries none, the
// reference is derived as href/collection. The work order number and status
// are selected alongside so the read identifies what it found.
func (c *Client) CollectionRef(ctx context.Context, creds Credentials, href, collection string) (string, error) {
	resp, err := c.get(ctx, creds, href, selectQuery("wonum", "status", collection))
	if err != nil {
		return "", err
	}
	body, err := decodeResponse[map[string]any](c, resp)
	if err != nil {
		return "", err
	}
	if ref, ok := body[collection+"_collectionref"].(string); ok && ref != "" {
		return c.urls.Normalize(ref), nil
	}
	return c.childRef(href, collection), nil
}

// AddStatusHistory inserts rec into the status history collection at ref.
func (c *Client) AddStatusHistory(ctx context.Context, creds Credentials, ref string, rec StatusRecord) error {
	if rec.Status == "" {
		return fmt.Errorf("status history record needs a status")
	}
	return c.post(ctx, creds, ref, rec)
}

// --- Attachments ---

func (c *Client) ListDocLinks(ctx context.Context, creds Credentials, href string) ([]model.DocLink, error) {
	resp, err := c.get(ctx, creds, c.childRef(href, "doclinks"), selectQuery("*"))
	if err != nil {
		return nil, err
	}
	list, err := decodeResponse[memberList[apiDocLink]](c, resp)
	if err != nil {
		return nil, err
	}
	var out []model.DocLink
	for _, d := range list.Member {
		out = append(out, model.DocLink{
			Href:     c.urls.Normalize(d.Href),
			Title:    d.DescribedBy.Title,
			FileName: d.DescribedBy.FileName,
			Format:   d.DescribedBy.Format.Label,
		})
	}
	return out, nil
}

// childRef returns href/name with any query or fragment of href dropped.
func (c *Client) childRef(href, name string) string {
	base := c.urls.Normalize(href)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return c.urls.Normalize(base + "/" + name)
}
