// Package mt02 is the MT02 input source (C9): an HTTP polling client,
// an input mapper that turns vendor records into canonical location
// reports, and a worker that dedupes and forwards fresh fixes. It is
// out of scope for byte-exact testing (the vendor wire format is
// unspecified) but must exist and be wired for the gateway to run.
package mt02

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// VendorRecord is one device's raw position report as the MT02 API
// returns it. Battery is -1 when the vendor omitted it.
type VendorRecord struct {
	Timestamp int64
	Lat       float64
	Lng       float64
	Battery   float64
}

type vendorRecordWire struct {
	Timestamp int64    `json:"timestamp"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Battery   *float64 `json:"battery"`
}

// Client talks to the MT02 vendor API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient constructs a Client targeting baseURL, authenticating with
// apiKey.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchAll returns every device's latest report in one call.
func (c *Client) FetchAll() (map[string]VendorRecord, error) {
	return c.fetch("/locations")
}

// FetchDevices returns the set of known device IDs with a report.
func (c *Client) FetchDevices() (map[string]VendorRecord, error) {
	return c.fetch("/devices")
}

// FetchDeviceLocation returns a single device's latest report.
func (c *Client) FetchDeviceLocation(deviceID string) (VendorRecord, error) {
	records, err := c.fetch("/devices/" + deviceID + "/location")
	if err != nil {
		return VendorRecord{}, err
	}
	rec, ok := records[deviceID]
	if !ok {
		return VendorRecord{}, fmt.Errorf("mt02: no location for device %s", deviceID)
	}
	return rec, nil
}

func (c *Client) fetch(path string) (map[string]VendorRecord, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api_token", c.apiKey)
	req.Header.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mt02: unexpected status %d from %s", resp.StatusCode, path)
	}

	var wire map[string]vendorRecordWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("mt02: decoding response from %s: %w", path, err)
	}

	out := make(map[string]VendorRecord, len(wire))
	for id, rec := range wire {
		vr := VendorRecord{Timestamp: rec.Timestamp, Battery: -1}
		if rec.Lat != nil {
			vr.Lat = *rec.Lat
		}
		if rec.Lng != nil {
			vr.Lng = *rec.Lng
		}
		if rec.Battery != nil {
			vr.Battery = *rec.Battery
		}
		out[id] = vr
	}
	return out, nil
}
