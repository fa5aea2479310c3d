package events

import "reflect"

// TypeID is the numeric type id assigned by the shared message registry
// (§3, §4.4). Because both the server and the client binary are built from
// this same package, a TypeID is always identical on both sides of the
// wire — there is no runtime negotiation step.
type TypeID int

const (
	TypeHello TypeID = iota
	TypeVirtualScreenInfo
	TypeMouseMotion
	TypeMouseMotionEventConversion
	TypeMouseButton
	TypeMouseWheel
	TypeKeyboard
	TypeBorder
	TypeControl
	TypeFocusScreenChanged
	TypeClientConnected
	TypeClientDisconnected
	TypeClientMessage
	TypeAppStatusChanged

	typeCount
)

var typeNames = [typeCount]string{
	TypeHello:                      "Hello",
	TypeVirtualScreenInfo:          "VirtualScreenInfo",
	TypeMouseMotion:                "MouseMotion",
	TypeMouseMotionEventConversion: "MouseMotionEventConversion",
	TypeMouseButton:                "MouseButton",
	TypeMouseWheel:                 "MouseWheel",
	TypeKeyboard:                   "Keyboard",
	TypeBorder:                     "Border",
	TypeControl:                    "Control",
	TypeFocusScreenChanged:         "FocusScreenChanged",
	TypeClientConnected:            "ClientConnected",
	TypeClientDisconnected:         "ClientDisconnected",
	TypeClientMessage:              "ClientMessage",
	TypeAppStatusChanged:           "AppStatusChanged",
}

// String returns the registry name for a type id, for logging.
func (t TypeID) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// WireTypes is the subset of TypeID that cross the transport connection as
// length-prefixed frames (§4.4, §6). The remaining ids are in-process only.
var WireTypes = map[TypeID]bool{
	TypeHello:                      true,
	TypeVirtualScreenInfo:          true,
	TypeMouseMotionEventConversion: true,
	TypeMouseButton:                true,
	TypeMouseWheel:                 true,
	TypeKeyboard:                   true,
}

var payloadTypes = map[TypeID]reflect.Type{
	TypeHello:                      reflect.TypeOf(Hello{}),
	TypeVirtualScreenInfo:          reflect.TypeOf(VirtualScreenInfo{}),
	TypeMouseMotion:                reflect.TypeOf(MouseMotion{}),
	TypeMouseMotionEventConversion: reflect.TypeOf(MouseMotionEventConversion{}),
	TypeMouseButton:                reflect.TypeOf(MouseButton{}),
	TypeMouseWheel:                 reflect.TypeOf(MouseWheel{}),
	TypeKeyboard:                   reflect.TypeOf(Keyboard{}),
	TypeBorder:                     reflect.TypeOf(BorderEvent{}),
	TypeControl:                    reflect.TypeOf(Control{}),
	TypeFocusScreenChanged:         reflect.TypeOf(FocusScreenChanged{}),
	TypeClientConnected:            reflect.TypeOf(ClientConnected{}),
	TypeClientDisconnected:         reflect.TypeOf(ClientDisconnected{}),
	TypeClientMessage:              reflect.TypeOf(ClientMessage{}),
	TypeAppStatusChanged:           reflect.TypeOf(AppStatusChanged{}),
}

var reverseTypes = func() map[reflect.Type]TypeID {
	m := make(map[reflect.Type]TypeID, len(payloadTypes))
	for id, t := range payloadTypes {
		m[t] = id
	}
	return m
}()

// TypeOf returns the registry id for a message value. It panics if msg is
// not a registered payload type, which indicates a programming error (an
// unregistered type can never legally reach the bus).
func TypeOf(msg any) TypeID {
	id, ok := reverseTypes[reflect.TypeOf(msg)]
	if !ok {
		panic("events: unregistered message type")
	}
	return id
}

// NewPointer allocates a zero-valued, addressable payload for a registry
// id as a pointer (e.g. *Hello), suitable for passing directly to
// json.Unmarshal. Used by the transport decoder to materialize an
// incoming frame before unmarshaling into it.
func NewPointer(id TypeID) (any, bool) {
	t, ok := payloadTypes[id]
	if !ok {
		return nil, false
	}
	return reflect.New(t).Interface(), true
}
