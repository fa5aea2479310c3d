package keycode

import "testing"

func TestWindowsScanCodeRoundTrip(t *testing.T) {
	cases := []KeyCode{KeyA, KeyEnter, KeyArrowUp, KeyControlRight, KeyNumpadEnter, KeyF12}

	for _, k := range cases {
		scan, extended := ToWindowsScanCode(k)
		got := FromWindowsScanCode(scan, extended)
		if got != k {
			t.Errorf("round trip %s: got %s (scan=0x%02x extended=%v)", k, got, scan, extended)
		}
	}
}

func TestX11NameRoundTripLettersAndDigits(t *testing.T) {
	for k := KeyA; k <= KeyZ; k++ {
		name := ToX11Name(k)
		if got := FromX11Name(name); got != k {
			t.Errorf("x11 round trip %s: name=%q got=%s", k, name, got)
		}
	}
	for k := Key0; k <= Key9; k++ {
		name := ToX11Name(k)
		if got := FromX11Name(name); got != k {
			t.Errorf("x11 round trip %s: name=%q got=%s", k, name, got)
		}
	}
}

func TestX11NameRoundTripNamedKeys(t *testing.T) {
	cases := []KeyCode{KeyEnter, KeyEscape, KeyArrowLeft, KeyNumpadEnter}
	for _, k := range cases {
		name := ToX11Name(k)
		if name == "" {
			t.Fatalf("ToX11Name(%s) returned empty name", k)
		}
		if got := FromX11Name(name); got != k {
			t.Errorf("x11 round trip %s: name=%q got=%s", k, name, got)
		}
	}
}

func TestUnknownKeyCodeString(t *testing.T) {
	if got := KeyCode(9999).String(); got != "unknown" {
		t.Fatalf("String() = %q, want unknown", got)
	}
}

func TestIsModifier(t *testing.T) {
	if !KeyShiftLeft.IsModifier() {
		t.Fatal("KeyShiftLeft should be a modifier")
	}
	if KeyA.IsModifier() {
		t.Fatal("KeyA should not be a modifier")
	}
}
