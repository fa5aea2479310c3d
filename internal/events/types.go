// Package events defines the typed messages that flow across the node bus
// and, for the wire subset, across the transport connection between a
// server and its clients. Every message type is assigned a stable numeric
// id in registry.go; both peers are built from this same package, so the
// id a server assigns to a type is always the id the client expects.
package events

// Border identifies which edge of the local screen the cursor touched.
type Border int

const (
	BorderLeft Border = iota
	BorderRight
	BorderTop
	BorderBottom
)

func (b Border) String() string {
	switch b {
	case BorderLeft:
		return "left"
	case BorderRight:
		return "right"
	case BorderTop:
		return "top"
	case BorderBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// ButtonState is the state carried by a MouseButton message.
type ButtonState int

const (
	ButtonDown ButtonState = iota
	ButtonUp
	ButtonClick
)

// MouseButtonName identifies which mouse button an event refers to.
type MouseButtonName int

const (
	ButtonLeft MouseButtonName = iota
	ButtonRight
	ButtonMiddle
	ButtonX1
	ButtonX2
)

// KeyState is the state carried by a Keyboard message.
type KeyState int

const (
	KeyDown KeyState = iota
	KeyUp
)

// Modifiers is a bitset of active modifier keys, split left/right where the
// source OS distinguishes them.
type Modifiers uint32

const (
	ModShiftLeft Modifiers = 1 << iota
	ModShiftRight
	ModControlLeft
	ModControlRight
	ModAltLeft
	ModAltRight
	ModGuiLeft
	ModGuiRight
	ModCapsLock
	ModNumLock
	ModScrollLock
)

// Has reports whether m carries every bit in other.
func (m Modifiers) Has(other Modifiers) bool { return m&other == other }

// ControlAction is the action carried by the various *Control messages.
type ControlAction int

const (
	ActionStart ControlAction = iota
	ActionStop
	ActionRestart
)

// AppStatus is the status carried by AppStatusChanged.
type AppStatus int

const (
	StatusStopped AppStatus = iota
	StatusStarted
)

// AppMode distinguishes which controller role produced an AppStatusChanged.
type AppMode int

const (
	ModeServer AppMode = iota
	ModeClient
)

// VirtualScreenInfo describes one machine's display, as announced in the
// connection handshake (§3, §6).
type VirtualScreenInfo struct {
	Name      string
	ScreenID  uint32
	Width     uint32
	Height    uint32
	Timestamp uint64
}

// VirtualScreenConfig is the persisted, absolute placement of one screen in
// the shared integer plane (§3). Screens may be non-adjacent; gaps act as
// impassable borders.
type VirtualScreenConfig struct {
	Name   string `mapstructure:"name" yaml:"name"`
	PosX   int    `mapstructure:"pos_x" yaml:"pos_x"`
	PosY   int    `mapstructure:"pos_y" yaml:"pos_y"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
}

// --- Wire + in-process message payloads (§6) ---

// Hello is the first message a client sends after connecting.
type Hello struct {
	AppName    string
	AppVersion string
}

// MouseMotion is produced by Capture: relative deltas while in exclusive
// mode, absolute local coordinates (IsAbsolute set) in edge-watch mode.
type MouseMotion struct {
	X, Y       int32
	IsAbsolute bool
	Timestamp  uint64
}

// MouseMotionEventConversion is the only absolute-coordinate motion placed
// on the wire; produced by Controller, consumed by Injection.
type MouseMotionEventConversion struct {
	X, Y       int32
	IsAbsolute bool
	Timestamp  uint64
}

// MouseButton carries a button state change.
type MouseButton struct {
	State     ButtonState
	Button    MouseButtonName
	Clicks    uint8
	Timestamp uint64
}

// MouseWheel carries a scroll delta. Zero-valued axes emit no OS event for
// that axis (§8 boundary behavior).
type MouseWheel struct {
	X, Y      float32
	Timestamp uint64
}

// Keyboard carries a canonical key state change.
type Keyboard struct {
	State     KeyState
	Key       uint32 // keycode.KeyCode, kept untyped here to avoid an import cycle
	Mod       Modifiers
	Timestamp uint64
}

// BorderEvent is produced by Capture in edge-watch mode when the cursor enters
// the outer ring of the local screen.
type BorderEvent struct {
	Which Border
	X, Y  int32
}

// ClientControl / ServerControl / CaptureControl / SenderControl are
// in-process control messages (§6). A single Control struct backs all four;
// Kind distinguishes which logical channel it was posted on.
type ControlKind int

const (
	ControlClient ControlKind = iota
	ControlServer
	ControlCapture
	ControlSender
)

type Control struct {
	Kind   ControlKind
	Action ControlAction
	IP     string
	Port   int
}

// FocusScreenChanged is produced by Controller on a successful handoff.
type FocusScreenChanged struct {
	Name         string
	Peer         string
	OldName      string
	OldPeer      string
	ScreenID     uint32
	OldScreenID  uint32
}

// ClientConnected / ClientDisconnected track peer lifecycle on the server.
type ClientConnected struct {
	Peer string
	Info VirtualScreenInfo
}

type ClientDisconnected struct {
	Peer   string
	Reason string
}

// ClientMessage wraps a message that arrived from a remote peer, tagged
// with the peer it came from, so Controller and other consumers can tell
// wire-origin events apart from locally produced ones.
type ClientMessage struct {
	Peer string
	Msg  any
}

// AppStatusChanged is pushed by Transport when listen/connect/close
// succeed. Controller does not subscribe to it: its Idle/ServerMode/
// ClientMode transitions happen directly in StartServer/StartClient and
// their Stop counterparts.
type AppStatusChanged struct {
	Status AppStatus
	Mode   AppMode
}
