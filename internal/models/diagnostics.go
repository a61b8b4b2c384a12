package models

import "time"

// onlineWindow is how recent the last communication must be for a
// device to count as online.
const onlineWindow = time.Hour

// RegisterData is one register reading inside a diagnostics register
// set. Value and scale are driver-defined, so Value stays Scalar.
type RegisterData struct {
	Address              string   `json:"address"`
	Name                 string   `json:"name"`
	Value                Scalar   `json:"value"`
	Units                string   `json:"units"`
	CanModify            bool     `json:"can_modify"`
	IsIgnored            bool     `json:"is_ignored"`
	IsStored             bool     `json:"is_stored"`
	LocalizedName        string   `json:"localized_name"`
	PingCommand          string   `json:"ping_command"`
	Register             string   `json:"register"`
	Scale                string   `json:"scale"`
	StandardAlertMessage []string `json:"standard_alert_message"`
	StandardDataName     string   `json:"standard_data_name"`
	WriteFunction        string   `json:"write_function"`
	BustestCommand       string   `json:"bustest_command,omitzero"`
	Hide                 bool     `json:"hide,omitzero"`
	Identifier           string   `json:"identifier,omitzero"`
	IPAddress            string   `json:"ip_address,omitzero"`
	ModpollCommand       string   `json:"modpoll_command,omitzero"`

	Extra RawData `json:"-"`
}

func (r *RegisterData) UnmarshalJSON(data []byte) error {
	type plain RegisterData
	var p plain
	extra, err := splitKnown("RegisterData", data, &p)
	if err != nil {
		return err
	}
	*r = RegisterData(p)
	r.Extra = extra
	return nil
}

func (r RegisterData) MarshalJSON() ([]byte, error) {
	type plain RegisterData
	return mergeExtra(plain(r), r.Extra)
}

// RegisterSet groups the registers a driver polls together.
type RegisterSet struct {
	Name      string         `json:"name"`
	Registers []RegisterData `json:"registers"`

	Extra RawData `json:"-"`
}

func (r *RegisterSet) UnmarshalJSON(data []byte) error {
	type plain RegisterSet
	var p plain
	extra, err := splitKnown("RegisterSet", data, &p)
	if err != nil {
		return err
	}
	*r = RegisterSet(p)
	r.Extra = extra
	return nil
}

func (r RegisterSet) MarshalJSON() ([]byte, error) {
	type plain RegisterSet
	return mergeExtra(plain(r), r.Extra)
}

// HardwareDiagnostics is the /api/view/hardwarestatus document for one
// device: communication state plus the register sets last read from it.
type HardwareDiagnostics struct {
	Key                 string           `json:"key"`
	HardwareName        string           `json:"hardwareName"`
	LastAttempt         string           `json:"lastAttempt"`
	LastChanged         string           `json:"lastChanged"`
	LastCommunication   int64            `json:"lastCommunication"`
	LastSuccess         string           `json:"lastSuccess"`
	OutOfService        bool             `json:"outOfService"`
	OutOfServiceNote    string           `json:"outOfServiceNote"`
	OutOfServiceUntil   Nullable[string] `json:"outOfServiceUntil,omitzero"`
	ParentKey           string           `json:"parentKey"`
	ReadOnly            bool             `json:"readOnly"`
	TimeZone            string           `json:"timeZone"`
	UnitID              int64            `json:"unitId"`
	RegisterSets        []RegisterSet    `json:"registerSets"`
	GatewayType         int64            `json:"gatewayType,omitzero"`
	JWT                 string           `json:"jwt,omitzero"`
	Parity              string           `json:"parity,omitzero"`
	StopBits            string           `json:"stopBits,omitzero"`
	TCPPort             Nullable[int64]  `json:"tcpPort,omitzero"`
	BaudRate            string           `json:"baudRate,omitzero"`
	DevicePath          string           `json:"devicePath,omitzero"`
	IPAddress           Scalar           `json:"ipAddress,omitzero"`
	IsPmce              bool             `json:"isPmce,omitzero"`
	IsTCP               bool             `json:"isTcp,omitzero"`
	ObviusNetworkInfo   Scalar           `json:"obviusNetworkInfo,omitzero"`
	EasyConfigLink      string           `json:"easyConfigLink,omitzero"`
	EasyConfigBaseURL   string           `json:"easyConfigBaseUrl,omitzero"`
	BaseURL             string           `json:"baseUrl,omitzero"`
	ControlURL          string           `json:"controlUrl,omitzero"`
	DashboardKey        string           `json:"dashboardKey,omitzero"`
	LastSuccessImageURL string           `json:"lastSuccessImageUrl,omitzero"`

	Extra RawData `json:"-"`
}

func (d *HardwareDiagnostics) UnmarshalJSON(data []byte) error {
	type plain HardwareDiagnostics
	var p plain
	extra, err := splitKnown("HardwareDiagnostics", data, &p)
	if err != nil {
		return err
	}
	*d = HardwareDiagnostics(p)
	d.Extra = extra
	return nil
}

func (d HardwareDiagnostics) MarshalJSON() ([]byte, error) {
	type plain HardwareDiagnostics
	return mergeExtra(plain(d), d.Extra)
}

// IsOnline reports whether the device communicated within the last
// hour. LastCommunication is a millisecond epoch; zero means never.
func (d *HardwareDiagnostics) IsOnline(now time.Time) bool {
	if d.LastCommunication == 0 {
		return false
	}
	return now.UnixMilli()-d.LastCommunication < onlineWindow.Milliseconds()
}

// ParseHardwareDiagnostics decodes a hardware status document. The key
// falls back to the requested hardware key when the payload omits it.
func ParseHardwareDiagnostics(hardwareKey string, data []byte) (*HardwareDiagnostics, error) {
	var diag HardwareDiagnostics
	if err := parseInto("HardwareDiagnostics", data, &diag); err != nil {
		return nil, err
	}
	if diag.Key == "" {
		diag.Key = hardwareKey
	}
	return &diag, nil
}
