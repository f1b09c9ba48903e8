package kmb

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// envelope - обёртка ответов KMB: {"data": [...]} или {"data": {...}}
type envelope struct {
	Type               string          `json:"type"`
	Version            string          `json:"version"`
	GeneratedTimestamp string          `json:"generated_timestamp"`
	Data               json.RawMessage `json:"data"`
}

// record covers every field the client reads from any endpoint.
type record struct {
	Route       string    `json:"route"`
	Bound       string    `json:"bound"`
	Dir         string    `json:"dir"`
	ServiceType flexValue `json:"service_type"`
	OrigTC      string    `json:"orig_tc"`
	OrigEN      string    `json:"orig_en"`
	DestTC      string    `json:"dest_tc"`
	DestEN      string    `json:"dest_en"`
	Stop        string    `json:"stop"`
	Seq         flexValue `json:"seq"`
	NameTC      string    `json:"name_tc"`
	NameEN      string    `json:"name_en"`
	Lat         flexValue `json:"lat"`
	Long        flexValue `json:"long"`
	Eta         *string   `json:"eta"`
	RmkTC       string    `json:"rmk_tc"`
	RmkEN       string    `json:"rmk_en"`
}

// direction returns whichever of bound/dir the endpoint filled.
func (r record) direction() string {
	if r.Bound != "" {
		return r.Bound
	}
	return r.Dir
}

func (r record) eta() string {
	if r.Eta == nil {
		return ""
	}
	return *r.Eta
}

// flexValue accepts a JSON string, number or null and keeps its text.
type flexValue string

func (v *flexValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = flexValue(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = flexValue(n.String())
	return nil
}

func (v flexValue) String() string {
	return string(v)
}

// Int parses the value, ok is false when it is blank or not an integer.
func (v flexValue) Int() (int, bool) {
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(string(v))
	if err != nil {
		f, ferr := strconv.ParseFloat(string(v), 64)
		if ferr != nil {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}
