package input

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Linux input_event layout: struct timeval, __u16 type, __u16 code, __s32 value.
const (
	evKey = 0x01

	keyPress = 1

	btnMouseFirst = 0x110
	btnMouseLast  = 0x117
	btnDigiFirst  = 0x140
	btnDigiLast   = 0x15f
)

// Device describes a global input device candidate.
type Device struct {
	Path     string
	Name     string
	Keyboard bool
	Mouse    bool
}

var evdevEventSize = 2*strconv.IntSize/8 + 8

type evdevEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

func decodeEvdev(buf []byte) (evdevEvent, error) {
	if len(buf) < evdevEventSize {
		return evdevEvent{}, fmt.Errorf("short input event: %d bytes", len(buf))
	}
	off := evdevEventSize - 8
	return evdevEvent{
		Type:  binary.NativeEndian.Uint16(buf[off:]),
		Code:  binary.NativeEndian.Uint16(buf[off+2:]),
		Value: int32(binary.NativeEndian.Uint32(buf[off+4:])),
	}, nil
}

// evdevPress converts a raw input event into a press Event. Releases, autorepeat,
// non-key events and touch digitizer buttons are dropped.
func evdevPress(raw evdevEvent) (Event, bool) {
	if raw.Type != evKey || raw.Value != keyPress {
		return Event{}, false
	}
	if raw.Code >= btnDigiFirst && raw.Code <= btnDigiLast {
		return Event{}, false
	}
	if raw.Code >= btnMouseFirst && raw.Code <= btnMouseLast {
		return Event{Kind: KindMouse, Name: NormalizeButtonName(evdevButtonNames[raw.Code])}, true
	}
	if name, ok := evdevKeyNames[raw.Code]; ok {
		return Event{Kind: KindKey, Name: name}, true
	}
	return Event{Kind: KindKey, Name: fmt.Sprintf("KEY_%d", raw.Code)}, true
}

var evdevButtonNames = map[uint16]string{
	0x110: "left",
	0x111: "right",
	0x112: "middle",
	0x113: "side",
	0x114: "extra",
	0x115: "forward",
	0x116: "back",
	0x117: "task",
}

var evdevKeyNames = map[uint16]string{
	1:   Escape,
	2:   "1",
	3:   "2",
	4:   "3",
	5:   "4",
	6:   "5",
	7:   "6",
	8:   "7",
	9:   "8",
	10:  "9",
	11:  "0",
	12:  "-",
	13:  "=",
	14:  "BACKSPACE",
	15:  "TAB",
	16:  "Q",
	17:  "W",
	18:  "E",
	19:  "R",
	20:  "T",
	21:  "Y",
	22:  "U",
	23:  "I",
	24:  "O",
	25:  "P",
	26:  "[",
	27:  "]",
	28:  "ENTER",
	29:  "CTRL_L",
	30:  "A",
	31:  "S",
	32:  "D",
	33:  "F",
	34:  "G",
	35:  "H",
	36:  "J",
	37:  "K",
	38:  "L",
	39:  ";",
	40:  "'",
	41:  "`",
	42:  "SHIFT",
	43:  "\\",
	44:  "Z",
	45:  "X",
	46:  "C",
	47:  "V",
	48:  "B",
	49:  "N",
	50:  "M",
	51:  ",",
	52:  ".",
	53:  "/",
	54:  "SHIFT_R",
	55:  "*",
	56:  "ALT_L",
	57:  Space,
	58:  "CAPS_LOCK",
	59:  "F1",
	60:  "F2",
	61:  "F3",
	62:  "F4",
	63:  "F5",
	64:  "F6",
	65:  "F7",
	66:  "F8",
	67:  "F9",
	68:  "F10",
	69:  "NUM_LOCK",
	70:  "SCROLL_LOCK",
	71:  "7",
	72:  "8",
	73:  "9",
	74:  "-",
	75:  "4",
	76:  "5",
	77:  "6",
	78:  "+",
	79:  "1",
	80:  "2",
	81:  "3",
	82:  "0",
	83:  ".",
	87:  "F11",
	88:  "F12",
	96:  "ENTER",
	97:  "CTRL_R",
	98:  "/",
	99:  "PRINT_SCREEN",
	100: "ALT_R",
	102: "HOME",
	103: "UP",
	104: "PAGE_UP",
	105: "LEFT",
	106: "RIGHT",
	107: "END",
	108: "DOWN",
	109: "PAGE_DOWN",
	110: "INSERT",
	111: "DELETE",
	113: "MEDIA_VOLUME_MUTE",
	114: "MEDIA_VOLUME_DOWN",
	115: "MEDIA_VOLUME_UP",
	119: "PAUSE",
	125: "CMD",
	126: "CMD_R",
	127: "MENU",
}
