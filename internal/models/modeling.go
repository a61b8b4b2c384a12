package models

import "encoding/json"

// ModelingData is the /api/edit/modeling document for a site. The PV
// configuration schema is only partially documented, so pvConfig and
// the per-inverter entries stay raw; Inverters mirrors
// pvConfig.inverters for convenience.
type ModelingData struct {
	SiteID    string            `json:"site_id"`
	PvConfig  RawData           `json:"pv_config"`
	Inverters []json.RawMessage `json:"inverters"`
	Ts        Nullable[string]  `json:"ts"`
	RawData   RawData           `json:"raw_data"`
}

// ParseModelingData decodes a site's modeling document.
func ParseModelingData(siteID string, data []byte) (*ModelingData, error) {
	const typ = "ModelingData"
	var raw RawData
	if err := parseInto(typ, data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = RawData{}
	}
	md := &ModelingData{
		SiteID:    siteID,
		PvConfig:  RawData{},
		Inverters: []json.RawMessage{},
		RawData:   raw,
	}
	if err := field(raw, typ, "pvConfig", &md.PvConfig); err != nil {
		return nil, err
	}
	if err := fieldLoose(raw, typ, "ts", &md.Ts); err != nil {
		return nil, err
	}
	if err := field(md.PvConfig, typ, "inverters", &md.Inverters); err != nil {
		return nil, err
	}
	return md, nil
}

// TotalCapacityKW sums the modeled inverterKw across inverters.
// Entries without a numeric inverterKw contribute zero.
func (m *ModelingData) TotalCapacityKW() float64 {
	var total float64
	for _, frag := range m.Inverters {
		var inv struct {
			InverterKw Metric `json:"inverterKw"`
		}
		if err := json.Unmarshal(frag, &inv); err != nil {
			continue
		}
		total += inv.InverterKw.Or(0)
	}
	return total
}
