package model

import "time"

type WorkOrder struct {
	Href            string    `yaml:"href"`
	WONum           string    `yaml:"wonum"`
	SiteID          string    `yaml:"siteid"`
	Description     string    `yaml:"description"`
	LongDescription string    `yaml:"long_description,omitempty"`
	Status          string    `yaml:"status"`
	StatusDate      time.Time `yaml:"status_date,omitempty"`
	WorkType        string    `yaml:"worktype,omitempty"`
	Location        string    `yaml:"location,omitempty"`
	AssetNum        string    `yaml:"assetnum,omitempty"`
}

// DocLink is an attachment on a work order.
type DocLink struct {
	Href     string `yaml:"href"`
	Title    string `yaml:"title"`
	FileName string `yaml:"file_name"`
	Format   string `yaml:"format"`
}
