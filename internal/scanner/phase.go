package scanner

import "fmt"

// Phase is where the loop currently is
type Phase int32

const (
	PhaseDisabled Phase = iota
	PhaseScanning
	PhaseIdleWait
)

func (p Phase) String() string {
	switch p {
	case PhaseDisabled:
		return "disabled"
	case PhaseScanning:
		return "scanning"
	case PhaseIdleWait:
		return "idle_wait"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "disabled":
		*p = PhaseDisabled
	case "scanning":
		*p = PhaseScanning
	case "idle_wait":
		*p = PhaseIdleWait
	default:
		return fmt.Errorf("unknown scanner phase %q", text)
	}
	return nil
}
