package mt02

// HandleCommand satisfies registry.InputSource for inbound commands
// routed back from a session's reader loop. The MT02 vendor API's
// inbound command surface (cutting oil, connecting oil, odometer
// calibration, ping) is out of scope for this gateway; logging the
// command here is the "thin glue" that still exercises the wiring.
func (s *Source) HandleCommand(deviceID, command string) {
	s.log.Info("received command %q for device %s, no vendor dispatch configured", command, deviceID)
}
