package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// XYPoint is one chart sample: millisecond timestamp and value. It
// serializes as a two-element array. Upstream also sends the object
// form {"x":..,"y":..}; both are accepted on parse.
type XYPoint struct {
	X int64
	Y Metric
}

func (p XYPoint) MarshalJSON() ([]byte, error) {
	y, err := p.Y.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("[%d,%s]", p.X, y)), nil
}

func (p *XYPoint) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*p = XYPoint{}
		return nil
	}
	switch trimmed[0] {
	case '{':
		var obj struct {
			X int64  `json:"x"`
			Y Metric `json:"y"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*p = XYPoint{X: obj.X, Y: obj.Y}
		return nil
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return err
		}
		if len(arr) != 2 {
			return fmt.Errorf("chart point: want 2 elements, got %d", len(arr))
		}
		var pt XYPoint
		if err := json.Unmarshal(arr[0], &pt.X); err != nil {
			return err
		}
		if err := pt.Y.UnmarshalJSON(arr[1]); err != nil {
			return err
		}
		*p = pt
		return nil
	default:
		return fmt.Errorf("chart point: unexpected JSON %s", trimmed)
	}
}

// ChartSeries is one named series of a chart response. dataXy keeps its
// upstream spelling; the rendering metadata fields follow the
// documented names.
type ChartSeries struct {
	Name            string    `json:"name"`
	Key             string    `json:"key"`
	DataXy          []XYPoint `json:"dataXy"`
	Color           string    `json:"color"`
	CustomUnit      string    `json:"custom_unit"`
	DataMax         float64   `json:"data_max"`
	DataMin         float64   `json:"data_min"`
	Diameter        int64     `json:"diameter"`
	FitExponent     int64     `json:"fit_exponent"`
	Header          string    `json:"header"`
	LineColor       string    `json:"line_color"`
	LineType        int64     `json:"line_type"`
	LineWidth       int64     `json:"line_width"`
	RightAxis       bool      `json:"right_axis"`
	Units           int64     `json:"units"`
	UseBinnedData   bool      `json:"use_binned_data"`
	Visible         bool      `json:"visible"`
	XSeriesHeader   string    `json:"x_series_header"`
	XSeriesKey      string    `json:"x_series_key"`
	XSeriesName     string    `json:"x_series_name"`
	XUnits          string    `json:"x_units"`
	YAxisIndex      int64     `json:"y_axis_index"`
	YMax            Metric    `json:"y_max"`
	YMin            Metric    `json:"y_min"`
	AlertMessageMap RawData   `json:"alert_message_map"`
}

// DataPoints returns the series samples.
func (s *ChartSeries) DataPoints() []XYPoint { return s.DataXy }

// ChartData is a chart query response: series plus bin and rendering
// metadata. namedResults carries chart-level aggregates (energy,
// expected energy, loss buckets) under upstream-defined keys.
type ChartData struct {
	AllowSmallBinSize      bool              `json:"allow_small_bin_size"`
	BinSize                int64             `json:"bin_size"`
	CurrentNowBinIndex     int64             `json:"current_now_bin_index"`
	DataNotAvailable       bool              `json:"data_not_available"`
	Durations              []json.RawMessage `json:"durations"`
	End                    string            `json:"end"`
	ErrorString            string            `json:"error_string"`
	HardwareKeys           []string          `json:"hardware_keys"`
	HasAlertMessages       bool              `json:"has_alert_messages"`
	HasOverriddenQuery     bool              `json:"has_overridden_query"`
	IsCategoryChart        bool              `json:"is_category_chart"`
	IsSummaryChart         bool              `json:"is_summary_chart"`
	IsUsingDaylightSavings bool              `json:"is_using_daylight_savings"`
	Key                    string            `json:"key"`
	LastChanged            string            `json:"last_changed"`
	LastDataDatetime       string            `json:"last_data_datetime"`
	NamedResults           RawData           `json:"named_results"`
	RenderType             int64             `json:"render_type"`
	Series                 []ChartSeries     `json:"series"`
	Start                  Nullable[string]  `json:"start"`
}

// chartSeriesRow is the upstream camelCase shape of one series.
type chartSeriesRow struct {
	Name            string          `json:"name"`
	Key             string          `json:"key"`
	DataXy          []XYPoint       `json:"dataXy"`
	Color           string          `json:"color"`
	CustomUnit      string          `json:"customUnit"`
	DataMax         float64         `json:"dataMax"`
	DataMin         float64         `json:"dataMin"`
	Diameter        int64           `json:"diameter"`
	FitExponent     int64           `json:"fitExponent"`
	Header          string          `json:"header"`
	LineColor       string          `json:"lineColor"`
	LineType        int64           `json:"lineType"`
	LineWidth       Nullable[int64] `json:"lineWidth"`
	RightAxis       bool            `json:"rightAxis"`
	Units           int64           `json:"units"`
	UseBinnedData   bool            `json:"useBinnedData"`
	Visible         Nullable[bool]  `json:"visible"`
	XSeriesHeader   string          `json:"xSeriesHeader"`
	XSeriesKey      string          `json:"xSeriesKey"`
	XSeriesName     string          `json:"xSeriesName"`
	XUnits          string          `json:"xUnits"`
	YAxisIndex      int64           `json:"yAxisIndex"`
	YMax            Metric          `json:"yMax"`
	YMin            Metric          `json:"yMin"`
	AlertMessageMap RawData         `json:"alertMessageMap"`
}

func (r *chartSeriesRow) series() ChartSeries {
	s := ChartSeries{
		Name:            r.Name,
		Key:             r.Key,
		DataXy:          r.DataXy,
		Color:           r.Color,
		CustomUnit:      r.CustomUnit,
		DataMax:         r.DataMax,
		DataMin:         r.DataMin,
		Diameter:        r.Diameter,
		FitExponent:     r.FitExponent,
		Header:          r.Header,
		LineColor:       r.LineColor,
		LineType:        r.LineType,
		LineWidth:       2,
		RightAxis:       r.RightAxis,
		Units:           r.Units,
		UseBinnedData:   r.UseBinnedData,
		Visible:         true,
		XSeriesHeader:   r.XSeriesHeader,
		XSeriesKey:      r.XSeriesKey,
		XSeriesName:     r.XSeriesName,
		XUnits:          r.XUnits,
		YAxisIndex:      r.YAxisIndex,
		YMax:            r.YMax,
		YMin:            r.YMin,
		AlertMessageMap: r.AlertMessageMap,
	}
	if s.DataXy == nil {
		s.DataXy = []XYPoint{}
	}
	if v, ok := r.LineWidth.Get(); ok {
		s.LineWidth = v
	}
	if v, ok := r.Visible.Get(); ok {
		s.Visible = v
	}
	return s
}

// ParseChartData decodes a /api/view/chart response. Fields the payload
// omits take the documented defaults (binSize 1440, allowSmallBinSize
// and series visibility true, lineWidth 2).
func ParseChartData(data []byte) (*ChartData, error) {
	const typ = "ChartData"
	var raw struct {
		AllowSmallBinSize      Nullable[bool]    `json:"allowSmallBinSize"`
		BinSize                Nullable[int64]   `json:"binSize"`
		CurrentNowBinIndex     int64             `json:"currentNowBinIndex"`
		DataNotAvailable       bool              `json:"dataNotAvailable"`
		Durations              []json.RawMessage `json:"durations"`
		End                    string            `json:"end"`
		ErrorString            string            `json:"errorString"`
		HardwareKeys           []string          `json:"hardwareKeys"`
		HasAlertMessages       bool              `json:"hasAlertMessages"`
		HasOverriddenQuery     bool              `json:"hasOverriddenQuery"`
		IsCategoryChart        bool              `json:"isCategoryChart"`
		IsSummaryChart         bool              `json:"isSummaryChart"`
		IsUsingDaylightSavings bool              `json:"isUsingDaylightSavings"`
		Key                    string            `json:"key"`
		LastChanged            string            `json:"lastChanged"`
		LastDataDatetime       string            `json:"lastDataDatetime"`
		NamedResults           RawData           `json:"namedResults"`
		RenderType             int64             `json:"renderType"`
		Series                 []chartSeriesRow  `json:"series"`
		Start                  Nullable[string]  `json:"start"`
	}
	if err := parseInto(typ, data, &raw); err != nil {
		return nil, err
	}
	cd := &ChartData{
		AllowSmallBinSize:      true,
		BinSize:                1440,
		CurrentNowBinIndex:     raw.CurrentNowBinIndex,
		DataNotAvailable:       raw.DataNotAvailable,
		Durations:              raw.Durations,
		End:                    raw.End,
		ErrorString:            raw.ErrorString,
		HardwareKeys:           raw.HardwareKeys,
		HasAlertMessages:       raw.HasAlertMessages,
		HasOverriddenQuery:     raw.HasOverriddenQuery,
		IsCategoryChart:        raw.IsCategoryChart,
		IsSummaryChart:         raw.IsSummaryChart,
		IsUsingDaylightSavings: raw.IsUsingDaylightSavings,
		Key:                    raw.Key,
		LastChanged:            raw.LastChanged,
		LastDataDatetime:       raw.LastDataDatetime,
		NamedResults:           raw.NamedResults,
		RenderType:             raw.RenderType,
		Series:                 make([]ChartSeries, 0, len(raw.Series)),
		Start:                  raw.Start,
	}
	if v, ok := raw.AllowSmallBinSize.Get(); ok {
		cd.AllowSmallBinSize = v
	}
	if v, ok := raw.BinSize.Get(); ok {
		cd.BinSize = v
	}
	if cd.Durations == nil {
		cd.Durations = []json.RawMessage{}
	}
	if cd.HardwareKeys == nil {
		cd.HardwareKeys = []string{}
	}
	if cd.NamedResults == nil {
		cd.NamedResults = RawData{}
	}
	for i := range raw.Series {
		cd.Series = append(cd.Series, raw.Series[i].series())
	}
	return cd, nil
}

func (c *ChartData) namedResult(key string) (float64, bool) {
	frag, ok := c.NamedResults[key]
	if !ok {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(frag, &v); err != nil {
		return 0, false
	}
	return v, true
}

// EnergyProduction is the total produced energy from namedResults.
func (c *ChartData) EnergyProduction() (float64, bool) { return c.namedResult("energy") }

// ExpectedEnergy is the modeled expected energy from namedResults.
func (c *ChartData) ExpectedEnergy() (float64, bool) { return c.namedResult("expEnergy") }

// PerformanceRatio is produced over expected energy, when both are
// present and nonzero.
func (c *ChartData) PerformanceRatio() (float64, bool) {
	energy, ok := c.EnergyProduction()
	if !ok || energy == 0 {
		return 0, false
	}
	expected, ok := c.ExpectedEnergy()
	if !ok || expected <= 0 {
		return 0, false
	}
	return energy / expected, true
}

var lossKeys = []string{"ageAC", "clipping", "downtime", "inverter", "inverterLimit", "snow", "soiling"}

// Losses is the loss breakdown from namedResults, zero for buckets the
// response omits.
func (c *ChartData) Losses() map[string]float64 {
	out := make(map[string]float64, len(lossKeys))
	for _, key := range lossKeys {
		v, _ := c.namedResult(key)
		out[key] = v
	}
	return out
}
