package mt02

import (
	"context"
	"strconv"
	"time"

	"github.com/intelcon-group/gt06-gateway/internal/devicestate"
	"github.com/intelcon-group/gt06-gateway/internal/geo"
	"github.com/intelcon-group/gt06-gateway/internal/logging"
	"github.com/intelcon-group/gt06-gateway/internal/report"
)

const fallbackVoltage = 1.11

// MapLocation is the input mapper (C3): it transforms a vendor record
// into a canonical report.Location, enriching it with odometer accrual
// and voltage read back from the state store. It returns a zero
// Location when the vendor record carries no usable coordinates.
func MapLocation(ctx context.Context, store devicestate.Store, log *logging.Logger, deviceID string, rec VendorRecord) report.Location {
	if rec.Lat == 0 || rec.Lng == 0 {
		log.Warn("dropping record for device %s: missing or zero-like coordinates", deviceID)
		return report.Location{}
	}

	when := time.Unix(rec.Timestamp, 0).UTC().Add(3 * time.Hour)
	key := "device:mt02:" + deviceID

	odometer := readUintField(ctx, store, key, "last_odometer")

	values, oks, err := store.HMGet(ctx, key, "last_lat", "last_lon")
	if err == nil && len(values) == 2 && oks[0] && oks[1] {
		lastLat, errLat := strconv.ParseFloat(values[0], 64)
		lastLon, errLon := strconv.ParseFloat(values[1], 64)
		if errLat == nil && errLon == nil {
			odometer += uint32(geo.HaversineMeters(lastLat, lastLon, rec.Lat, rec.Lng))
		}
	}
	_ = store.HSet(ctx, key, "last_odometer", strconv.FormatUint(uint64(odometer), 10))
	_ = store.HSet(ctx, key, "last_lat", strconv.FormatFloat(rec.Lat, 'f', -1, 64))
	_ = store.HSet(ctx, key, "last_lon", strconv.FormatFloat(rec.Lng, 'f', -1, 64))

	voltage := fallbackVoltage
	if rec.Battery != -1 {
		voltage = rec.Battery * 100 / 3
		if err := store.HSet(ctx, key, "voltage", strconv.FormatFloat(voltage, 'f', 2, 64)); err != nil {
			log.Warn("failed to persist voltage for device %s: %v", deviceID, err)
		}
	} else if v, ok, err := store.HGet(ctx, key, "voltage"); err == nil && ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			voltage = parsed
		}
	}

	return report.Location{
		Timestamp:   when,
		Latitude:    rec.Lat,
		Longitude:   rec.Lng,
		Satellites:  6,
		SpeedKmh:    0,
		Direction:   0,
		GPSFixed:    false,
		AccStatus:   true,
		GPSOdometer: odometer,
		Voltage:     voltage,
	}
}

func readUintField(ctx context.Context, store devicestate.Store, key, field string) uint32 {
	v, ok, err := store.HGet(ctx, key, field)
	if err != nil || !ok || v == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(parsed)
}
