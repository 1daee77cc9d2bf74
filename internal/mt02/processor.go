package mt02

import "context"

// ProcessLocation maps rec into a canonical location report and, when
// usable, forwards it through the output processor. The worker calls
// it on a new goroutine per fresh vendor report; a device appears at
// most once per poll, but the worker does not wait for these
// goroutines, so calls from successive polls for one device can overlap.
func (s *Source) ProcessLocation(ctx context.Context, deviceID string, rec VendorRecord) {
	location := MapLocation(ctx, s.store, s.log, deviceID, rec)
	if location.IsZero() {
		return
	}
	s.processor.Forward(ctx, deviceID, location, s, "")
}
