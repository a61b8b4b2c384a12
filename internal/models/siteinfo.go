package models

import (
	"strings"
	"time"
)

// SiteDetailedInfo is the /api/view/site record: identity, location,
// capacity, and the monitoring/cell-modem contract block. Fields the
// record does not model are preserved in Extra.
type SiteDetailedInfo struct {
	Key                            string            `json:"key"`
	Name                           string            `json:"name"`
	IsMonitored                    bool              `json:"is_monitored"`
	CellModemContractEndDate       Nullable[string]  `json:"cell_modem_contract_end_date,omitzero"`
	Address                        map[string]string `json:"address"`
	CellModemContractStartDate     Nullable[string]  `json:"cell_modem_contract_start_date,omitzero"`
	EnergyCapacityUnit             int64             `json:"energy_capacity_unit"`
	Longitude                      Metric            `json:"longitude,omitzero"`
	ParentKey                      string            `json:"parent_key"`
	WeatherMode                    int64             `json:"weather_mode"`
	MonitoringContractIsManual     bool              `json:"monitoring_contract_is_manual"`
	CellModemContractCustomBanner  bool              `json:"cell_modem_contract_custom_banner"`
	MonitoringContractWarnDate     Nullable[string]  `json:"monitoring_contract_warn_date,omitzero"`
	WorkingStatus                  string            `json:"working_status"`
	CapacityDcUnit                 int64             `json:"capacity_dc_unit"`
	Elevation                      Metric            `json:"elevation,omitzero"`
	DailyProductionEstimate        Metric            `json:"daily_production_estimate,omitzero"`
	LastChanged                    string            `json:"last_changed"`
	MonthlyProductionEstimate      Metric            `json:"monthly_production_estimate,omitzero"`
	RatedPowerUnit                 int64             `json:"rated_power_unit"`
	MonitoringContractCustomBanner bool              `json:"monitoring_contract_custom_banner"`
	MonitoringContractStatus       int64             `json:"monitoring_contract_status"`
	MonitoringContractEndDate      Nullable[string]  `json:"monitoring_contract_end_date,omitzero"`
	EstimatedCommissioningDate     Nullable[string]  `json:"estimated_commissioning_date,omitzero"`
	CellModemContractAccessNote    string            `json:"cell_modem_contract_access_note"`
	CellModemContractTerminateDate Nullable[string]  `json:"cell_modem_contract_terminate_date,omitzero"`
	CellModemContractIsManual      bool              `json:"cell_modem_contract_is_manual"`
	CustomerLogo                   string            `json:"customer_logo"`
	CapacityAc                     Metric            `json:"capacity_ac,omitzero"`
	CustomQueryKey                 string            `json:"custom_query_key"`
	PreferredWsForInsolation       int64             `json:"preferred_ws_for_estimated_insolation"`
	RequiresPubIP                  bool              `json:"requires_pub_ip"`
	DefaultQuery                   int64             `json:"default_query"`
	MonitoringContractWillNotRenew bool              `json:"monitoring_contract_will_not_renew"`
	CapacityAcUnit                 int64             `json:"capacity_ac_unit"`
	Status                         int64             `json:"status"`
	Latitude                       Metric            `json:"latitude,omitzero"`
	RatedPower                     Metric            `json:"rated_power,omitzero"`
	AdvancedSiteConfiguration      bool              `json:"advanced_site_configuration"`
	MonitoringContractTerminate    Nullable[string]  `json:"monitoring_contract_terminate_date,omitzero"`
	ActualCommissioningDate        Nullable[string]  `json:"actual_commissioning_date,omitzero"`
	EstimatedLosses                map[string]string `json:"estimated_losses,omitempty"`
	CellModemContractWarnDate      Nullable[string]  `json:"cell_modem_contract_warn_date,omitzero"`
	MonitoringContractAccessNote   string            `json:"monitoring_contract_access_note"`
	ValidDataDate                  string            `json:"valid_data_date"`
	PaymentStatus                  int64             `json:"payment_status"`
	CapacityDc                     Metric            `json:"capacity_dc,omitzero"`
	MonitoringContractStartDate    Nullable[string]  `json:"monitoring_contract_start_date,omitzero"`
	EnergyCapacity                 Metric            `json:"energy_capacity,omitzero"`
	OverviewChart1                 string            `json:"overview_chart1"`
	OverviewChart2                 string            `json:"overview_chart2"`
	CellModemContractWillNotRenew  bool              `json:"cell_modem_contract_will_not_renew"`
	SiteType                       int64             `json:"site_type"`
	SitePhotos                     Scalar            `json:"site_photos,omitzero"`

	Extra RawData `json:"-"`
}

func (s *SiteDetailedInfo) UnmarshalJSON(data []byte) error {
	type plain SiteDetailedInfo
	var p plain
	extra, err := splitKnown("SiteDetailedInfo", data, &p)
	if err != nil {
		return err
	}
	*s = SiteDetailedInfo(p)
	s.Extra = extra
	return nil
}

func (s SiteDetailedInfo) MarshalJSON() ([]byte, error) {
	type plain SiteDetailedInfo
	return mergeExtra(plain(s), s.Extra)
}

// ParseSiteDetailedInfo decodes the /api/view/site payload.
func ParseSiteDetailedInfo(data []byte) (*SiteDetailedInfo, error) {
	var info SiteDetailedInfo
	if err := parseInto("SiteDetailedInfo", data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FullAddress joins the populated address parts in postal order.
func (s *SiteDetailedInfo) FullAddress() string {
	parts := make([]string, 0, 6)
	for _, key := range []string{"address1", "address2", "city", "stateProvince", "postalCode", "country"} {
		if v := s.Address[key]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// ContractDaysRemaining reports whole days until the monitoring contract
// ends, clamped at zero. The second return is false when no end date is
// set or it does not parse.
func (s *SiteDetailedInfo) ContractDaysRemaining(now time.Time) (int, bool) {
	end, ok := s.MonitoringContractEndDate.Get()
	if !ok {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return 0, false
	}
	days := int(t.Sub(now).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}

// IsContractExpiringSoon reports whether the monitoring contract ends
// within 90 days.
func (s *SiteDetailedInfo) IsContractExpiringSoon(now time.Time) bool {
	days, ok := s.ContractDaysRemaining(now)
	return ok && days <= 90
}
