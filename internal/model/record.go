package model

// Status classifies the outcome of one enrichment attempt. The suffix
// records which path produced (or failed to produce) the data, so a run
// with Places disabled is distinguishable in the output workbook.
type Status string

const (
	StatusAlreadyFilled      Status = "OK (already filled)"
	StatusPlaces             Status = "OK (Places)"
	StatusSite               Status = "OK (Site)"
	StatusPartialSite        Status = "PARTIAL (Site)"
	StatusNotFoundPlacesSite Status = "NOT_FOUND (Places+Site)"
	StatusNotFoundSite       Status = "NOT_FOUND (Site)"
)

// Source labels for enriched fields.
const (
	SourceTextSearch = "Google Places TextSearch"
	SourceFindPlace  = "Google Places FindPlace"
)

// Record is one prospect row from the workbook. The resolver mutates it
// in place; it never deletes a record.
type Record struct {
	Row         int     `json:"row"`
	FactoryType string  `json:"factory_type,omitempty"`
	Name        string  `json:"name"`
	Website     string  `json:"website,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Address     string  `json:"address,omitempty"`
	Status      Status  `json:"status,omitempty"`
	PlaceID     string  `json:"place_id,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// Complete reports whether both contact fields are populated.
func (r *Record) Complete() bool {
	return r.Phone != "" && r.Address != ""
}

// ContactFinding is the best phone/address pair found on a website, with
// the page that supplied the first finding.
type ContactFinding struct {
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	SourceURL string `json:"source_url"`
}

// RemovedRecord is a prospect moved to the holding sheet because it
// matched the existing customer roster.
type RemovedRecord struct {
	FactoryType string `json:"factory_type,omitempty"`
	Name        string `json:"name"`
	Site        string `json:"site,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Reason      string `json:"reason"`
}

// RunSummary is the final tally of one enrichment run.
type RunSummary struct {
	RunID               string `json:"run_id"`
	OutputPath          string `json:"output_path"`
	PlacesEnabled       bool   `json:"places_enabled"`
	LastPurchaseUpdated int    `json:"last_purchase_updated"`
	RemovedExisting     int    `json:"removed_existing"`
	Processed           int    `json:"processed"`
}
