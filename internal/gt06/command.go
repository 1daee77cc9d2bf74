package gt06

import "strconv"

// commandMap is the universal-command vocabulary the downstream
// platform's server-originated command frames decode to.
var commandMap = map[string]string{
	"RELAY,1#":            "OUTPUT ON",
	"DYD,000000#":         "OUTPUT ON",
	"RELAY,0#":            "OUTPUT OFF",
	"HFYD,000000#":        "OUTPUT OFF",
	"GPRS,GET,LOCATION#":  "PING",
}

// the offset from the start of a 78 78 command frame at which the
// ASCII command text begins: start(2) + length(1) + protocol(1) +
// information-serial(2) + language(2) + alarm... this gateway targets
// the simple form where the command text begins at byte 9.
const commandTextOffset = 9

// DecodeCommand extracts the ASCII command embedded in a server-
// originated 78 78 frame and maps it to a universal command string.
// It returns ("", false) when the frame carries no recognized command.
func DecodeCommand(frame []byte) (string, bool) {
	if len(frame) < 3 {
		return "", false
	}
	length := int(frame[2])
	textLen := length - 4
	if textLen <= 0 || commandTextOffset+textLen > len(frame) {
		return "", false
	}

	raw := frame[commandTextOffset : commandTextOffset+textLen]
	text := asciiDecode(raw)

	if cmd, ok := commandMap[text]; ok {
		return cmd, true
	}
	if km, ok := parseMileageCommand(text); ok {
		return "HODOMETRO:" + strconv.Itoa(km*1000), true
	}
	return "", false
}

func asciiDecode(raw []byte) string {
	b := make([]byte, 0, len(raw))
	for _, c := range raw {
		if c < 0x80 {
			b = append(b, c)
		}
	}
	return string(b)
}

func parseMileageCommand(text string) (int, bool) {
	const prefix = "MILEAGE ON,"
	const suffix = "#"
	if len(text) <= len(prefix)+len(suffix) {
		return 0, false
	}
	if text[:len(prefix)] != prefix || text[len(text)-len(suffix):] != suffix {
		return 0, false
	}
	kmStr := text[len(prefix) : len(text)-len(suffix)]
	km, err := strconv.ParseUint(kmStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(km), true
}
