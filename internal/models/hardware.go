package models

import (
	"encoding/json"
	"fmt"
)

// hardwareTypeNames maps the platform's hardware function codes to
// display names. Codes outside the table still parse; TypeName formats
// them as "Type N".
var hardwareTypeNames = map[int64]string{
	1:  "Inverter (PV)",
	2:  "Production Meter (PM)",
	3:  "Type 3",
	4:  "Grid Meter (GM)",
	5:  "Weather Station (WS)",
	6:  "DC Combiner",
	9:  "Kiosk",
	10: "Gateway (GW)",
	11: "Cell Modem (CE)",
	14: "Camera",
	20: "Extra Meter",
	21: "DNP3 Server",
	24: "Tracker",
	25: "BESS Controller",
	28: "Data Logger",
	31: "Data Capture",
	34: "Relay",
	37: "BESS Meter",
}

// HardwareTypeName returns the display name for a function code.
func HardwareTypeName(code int64) string {
	if name, ok := hardwareTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Type %d", code)
}

// HardwareSummary is one device from a site's hardware list.
// DeviceAddress, Port, UnitID and Baud arrive as either numbers or
// strings depending on the driver, so they stay Scalar.
type HardwareSummary struct {
	Key            string           `json:"key"`
	Name           string           `json:"name"`
	FunctionCode   Nullable[int64]  `json:"function_code"`
	HID            Nullable[int64]  `json:"hid"`
	ShortName      Nullable[string] `json:"short_name"`
	SerialNum      Nullable[string] `json:"serial_num"`
	MfrModel       Nullable[string] `json:"mfr_model"`
	DeviceID       Nullable[string] `json:"device_id"`
	InstallDate    Nullable[string] `json:"install_date"`
	DeviceAddress  Scalar           `json:"device_address"`
	Port           Scalar           `json:"port"`
	UnitID         Scalar           `json:"unit_id"`
	Baud           Scalar           `json:"baud"`
	GatewayID      Nullable[string] `json:"gateway_id"`
	EnableBool     bool             `json:"enable_bool"`
	HardwareStatus Nullable[string] `json:"hardware_status"`
	CapacityKW     Metric           `json:"capacity_kw"`
	InverterKw     Metric           `json:"inverter_kw"`
	DriverName     Nullable[string] `json:"driver_name"`
	OutOfService   bool             `json:"out_of_service"`
}

// TypeName is the display name for the device's function code, or
// "Unknown" when the code is missing.
func (h *HardwareSummary) TypeName() string {
	code, ok := h.FunctionCode.Get()
	if !ok {
		return "Unknown"
	}
	return HardwareTypeName(code)
}

// hardwareRow is the upstream camelCase shape of a hardware list entry.
type hardwareRow struct {
	Key            string           `json:"key"`
	Name           string           `json:"name"`
	FunctionCode   Nullable[int64]  `json:"functionCode"`
	HID            Nullable[int64]  `json:"hid"`
	ShortName      Nullable[string] `json:"shortName"`
	SerialNum      Nullable[string] `json:"serialNum"`
	MfrModel       Nullable[string] `json:"mfrModel"`
	DeviceID       Nullable[string] `json:"deviceID"`
	InstallDate    Nullable[string] `json:"installDate"`
	DeviceAddress  Scalar           `json:"deviceAddress"`
	Port           Scalar           `json:"port"`
	UnitID         Scalar           `json:"unitID"`
	Baud           Scalar           `json:"baud"`
	GatewayID      Nullable[string] `json:"gatewayID"`
	EnableBool     Nullable[bool]   `json:"enableBool"`
	HardwareStatus Nullable[string] `json:"hardwareStatus"`
	CapacityKW     Metric           `json:"capacityKW"`
	InverterKw     Metric           `json:"inverterKw"`
	DriverName     Nullable[string] `json:"driverName"`
	OutOfService   bool             `json:"outOfService"`
}

func (r *hardwareRow) summary() HardwareSummary {
	h := HardwareSummary{
		Key:            r.Key,
		Name:           r.Name,
		FunctionCode:   r.FunctionCode,
		HID:            r.HID,
		ShortName:      r.ShortName,
		SerialNum:      r.SerialNum,
		MfrModel:       r.MfrModel,
		DeviceID:       r.DeviceID,
		InstallDate:    r.InstallDate,
		DeviceAddress:  r.DeviceAddress,
		Port:           r.Port,
		UnitID:         r.UnitID,
		Baud:           r.Baud,
		GatewayID:      r.GatewayID,
		EnableBool:     true,
		HardwareStatus: r.HardwareStatus,
		CapacityKW:     r.CapacityKW,
		InverterKw:     r.InverterKw,
		DriverName:     r.DriverName,
		OutOfService:   r.OutOfService,
	}
	if v, ok := r.EnableBool.Get(); ok {
		h.EnableBool = v
	}
	return h
}

// ParseHardwareRows decodes a list of upstream hardware entries. Rows
// that fail to parse are skipped and returned for the caller to log.
func ParseHardwareRows(rows []json.RawMessage) ([]HardwareSummary, []error) {
	out := make([]HardwareSummary, 0, len(rows))
	var skipped []error
	for _, frag := range rows {
		var row hardwareRow
		if err := json.Unmarshal(frag, &row); err != nil {
			skipped = append(skipped, wrapParseError("HardwareSummary", err))
			continue
		}
		out = append(out, row.summary())
	}
	return out, skipped
}

// HardwareDetails pairs a device summary with its full configuration
// document, which is driver-specific and kept raw.
type HardwareDetails struct {
	Key     string          `json:"key"`
	Summary HardwareSummary `json:"summary"`
	Details RawData         `json:"details"`
}

// ParseHardwareDetails decodes the /api/edit/hardware document for one
// device. The summary carries only the identity fields; everything else
// stays in Details.
func ParseHardwareDetails(hardwareKey string, data []byte) (*HardwareDetails, error) {
	const typ = "HardwareDetails"
	var details RawData
	if err := parseInto(typ, data, &details); err != nil {
		return nil, err
	}
	if details == nil {
		details = RawData{}
	}
	summary := HardwareSummary{Key: hardwareKey, EnableBool: true}
	if err := field(details, typ, "name", &summary.Name); err != nil {
		return nil, err
	}
	if err := fieldLoose(details, typ, "functionCode", &summary.FunctionCode); err != nil {
		return nil, err
	}
	if err := fieldLoose(details, typ, "hid", &summary.HID); err != nil {
		return nil, err
	}
	return &HardwareDetails{Key: hardwareKey, Summary: summary, Details: details}, nil
}
