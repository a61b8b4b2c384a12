package models

import "encoding/json"

// Site status code the platform reports for an active, uploading site.
const siteStatusActive = 8

// SiteOverview is one row of the portfolio view: live performance
// figures for a single site. The numeric columns routinely arrive as
// null or the "NaN" string, so they are all Metric. Unmodeled columns
// are preserved in Extra.
type SiteOverview struct {
	Key                            string           `json:"key"`
	Name                           string           `json:"name"`
	Availability                   Metric           `json:"availability,omitzero"`
	AvailabilityLoss               Metric           `json:"availabilityLoss,omitzero"`
	CalculatedInverterAvailability Metric           `json:"calculatedInverterAvailability,omitzero"`
	CapacityDc                     Metric           `json:"capacityDc,omitzero"`
	ChargeDischarge                Metric           `json:"chargeDischarge,omitzero"`
	CustomColumnData               []string         `json:"customColumnData,omitempty"`
	DowntimeLoss                   Metric           `json:"downtimeLoss,omitzero"`
	EnergyAvailability             Metric           `json:"energyAvailability,omitzero"`
	EnergyAvailabilityLoss         Metric           `json:"energyAvailabilityLoss,omitzero"`
	EnergyCapacity                 Metric           `json:"energyCapacity,omitzero"`
	EnergyLoss                     Metric           `json:"energyLoss,omitzero"`
	EnergyRatio                    Metric           `json:"energyRatio,omitzero"`
	GridOffline                    int64            `json:"gridOffline"`
	Ground                         int64            `json:"ground"`
	ID                             int64            `json:"id"`
	Insolation                     Metric           `json:"insolation,omitzero"`
	InverterCount                  int64            `json:"inverterCount"`
	InverterFaults                 int64            `json:"inverterFaults"`
	Irradiance                     Metric           `json:"irradiance,omitzero"`
	KioskStatus                    int64            `json:"kioskStatus"`
	Kiosks                         int64            `json:"kiosks"`
	KwPercent                      Metric           `json:"kwPercent,omitzero"`
	KwhPercent                     Metric           `json:"kwhPercent,omitzero"`
	LastDataUTC                    string           `json:"lastDataUTC"`
	LastMonth                      Metric           `json:"lastMonth,omitzero"`
	LastUpload                     string           `json:"lastUpload"`
	LastYear                       Metric           `json:"lastYear,omitzero"`
	Lifetime                       Metric           `json:"lifetime,omitzero"`
	Message                        string           `json:"message"`
	MonitoredSiteType              int64            `json:"monitoredSiteType"`
	ParentKey                      string           `json:"parentKey"`
	PaymentStatus                  int64            `json:"paymentStatus"`
	PerformanceIndex               Metric           `json:"performanceIndex,omitzero"`
	PerformanceTestDelta           Metric           `json:"performanceTestDelta,omitzero"`
	PerformanceTestStatus          int64            `json:"performanceTestStatus"`
	PerformanceTestValue           Metric           `json:"performanceTestValue,omitzero"`
	Power                          Metric           `json:"power,omitzero"`
	Power24                        Metric           `json:"power24,omitzero"`
	Power24Est                     Metric           `json:"power24Est,omitzero"`
	PowerAvg15                     Metric           `json:"powerAvg15,omitzero"`
	PowerAvg15Exp                  Metric           `json:"powerAvg15Exp,omitzero"`
	PvCapacityAc                   Metric           `json:"pvCapacityAc,omitzero"`
	PvCapacityDc                   Metric           `json:"pvCapacityDc,omitzero"`
	RatedPower                     Metric           `json:"ratedPower,omitzero"`
	AvailableEnergy                Metric           `json:"availableEnergy,omitzero"`
	ReminderColor                  string           `json:"reminderColor"`
	RevenueLoss                    Metric           `json:"revenueLoss,omitzero"`
	Rolling24Kw                    []float64        `json:"rolling24Kw,omitempty"`
	Rolling24KwIdx                 int64            `json:"rolling24KwIdx"`
	RuleToolSummary                RawData          `json:"ruleToolSummary,omitempty"`
	SizeDC                         Metric           `json:"sizeDC,omitzero"`
	SizeKW                         Metric           `json:"sizeKW,omitzero"`
	SoilingLoss                    Metric           `json:"soilingLoss,omitzero"`
	StateOfCharge                  Metric           `json:"stateOfCharge,omitzero"`
	Status                         int64            `json:"status"`
	AlertSeverity                  Metric           `json:"alertSeverity,omitzero"`
	AlertName                      string           `json:"alertName"`
	SystemSize                     Metric           `json:"systemSize,omitzero"`
	ThisMonth                      Metric           `json:"thisMonth,omitzero"`
	ThisYear                       Metric           `json:"thisYear,omitzero"`
	TimeZone                       string           `json:"timeZone"`
	Today                          Metric           `json:"today,omitzero"`
	TodayEstimated                 Metric           `json:"todayEstimated,omitzero"`
	TodayPercent                   Metric           `json:"todayPercent,omitzero"`
	Type                           int64            `json:"type"`
	TodayAnd7DayAverageKw          RawData          `json:"todayAnd7DayAverageKw,omitempty"`
	EstimatedCommissioningDate     Nullable[string] `json:"estimatedCommissioningDate,omitzero"`
	ExpirationDate                 Nullable[string] `json:"expirationDate,omitzero"`

	Extra RawData `json:"-"`
}

func (s *SiteOverview) UnmarshalJSON(data []byte) error {
	type plain SiteOverview
	var p plain
	extra, err := splitKnown("SiteOverview", data, &p)
	if err != nil {
		return err
	}
	*s = SiteOverview(p)
	s.Extra = extra
	return nil
}

func (s SiteOverview) MarshalJSON() ([]byte, error) {
	type plain SiteOverview
	return mergeExtra(plain(s), s.Extra)
}

// IsOnline reports whether the site is in the active status.
func (s *SiteOverview) IsOnline() bool { return s.Status == siteStatusActive }

// HasAlerts reports whether any inverter faults are active.
func (s *SiteOverview) HasAlerts() bool { return s.InverterFaults > 0 }

// PerformanceStatus buckets the energy ratio into
// excellent/good/fair/poor.
func (s *SiteOverview) PerformanceStatus() string {
	ratio := s.EnergyRatio.Or(0)
	switch {
	case ratio >= 0.95:
		return "excellent"
	case ratio >= 0.85:
		return "good"
	case ratio >= 0.75:
		return "fair"
	default:
		return "poor"
	}
}

// PortfolioOverview aggregates the portfolio rows for one customer.
type PortfolioOverview struct {
	CustomerID        string         `json:"customerId"`
	Sites             []SiteOverview `json:"sites"`
	CustomColumnNames []string       `json:"customColumnNames"`
	LastChanged       string         `json:"lastChanged"`
	Merge             bool           `json:"merge"`
	MergeHash         string         `json:"mergeHash"`
}

// ParsePortfolioOverview decodes the /api/view/portfolio payload. Rows
// that fail to parse are skipped and returned for the caller to log.
func ParsePortfolioOverview(customerID string, data []byte) (*PortfolioOverview, []error, error) {
	const typ = "PortfolioOverview"
	var raw struct {
		Sites             []json.RawMessage `json:"sites"`
		CustomColumnNames []string          `json:"customColumnNames"`
		LastChanged       string            `json:"lastChanged"`
		Merge             bool              `json:"merge"`
		MergeHash         string            `json:"mergeHash"`
	}
	if err := parseInto(typ, data, &raw); err != nil {
		return nil, nil, err
	}
	overview := &PortfolioOverview{
		CustomerID:        customerID,
		Sites:             make([]SiteOverview, 0, len(raw.Sites)),
		CustomColumnNames: raw.CustomColumnNames,
		LastChanged:       raw.LastChanged,
		Merge:             raw.Merge,
		MergeHash:         raw.MergeHash,
	}
	var skipped []error
	for _, frag := range raw.Sites {
		var row SiteOverview
		if err := json.Unmarshal(frag, &row); err != nil {
			skipped = append(skipped, err)
			continue
		}
		overview.Sites = append(overview.Sites, row)
	}
	return overview, skipped, nil
}

// TotalSites is the number of sites in the portfolio.
func (p *PortfolioOverview) TotalSites() int { return len(p.Sites) }

// TotalCapacityAC sums pvCapacityAc across sites.
func (p *PortfolioOverview) TotalCapacityAC() float64 {
	var total float64
	for i := range p.Sites {
		total += p.Sites[i].PvCapacityAc.Or(0)
	}
	return total
}

// TotalCapacityDC sums pvCapacityDc across sites.
func (p *PortfolioOverview) TotalCapacityDC() float64 {
	var total float64
	for i := range p.Sites {
		total += p.Sites[i].PvCapacityDc.Or(0)
	}
	return total
}

// AverageAvailability is the mean availability over all sites, zero for
// an empty portfolio.
func (p *PortfolioOverview) AverageAvailability() float64 {
	if len(p.Sites) == 0 {
		return 0
	}
	var total float64
	for i := range p.Sites {
		total += p.Sites[i].Availability.Or(0)
	}
	return total / float64(len(p.Sites))
}

// TotalEnergyToday sums today's production across sites.
func (p *PortfolioOverview) TotalEnergyToday() float64 {
	var total float64
	for i := range p.Sites {
		total += p.Sites[i].Today.Or(0)
	}
	return total
}

// SitesWithAlerts returns the sites reporting inverter faults.
func (p *PortfolioOverview) SitesWithAlerts() []SiteOverview {
	var out []SiteOverview
	for i := range p.Sites {
		if p.Sites[i].HasAlerts() {
			out = append(out, p.Sites[i])
		}
	}
	return out
}

// OnlineSites returns the sites in the active status.
func (p *PortfolioOverview) OnlineSites() []SiteOverview {
	var out []SiteOverview
	for i := range p.Sites {
		if p.Sites[i].IsOnline() {
			out = append(out, p.Sites[i])
		}
	}
	return out
}
