package window

import (
	"encoding/json"
	"fmt"
	"os/exec"
)

// Sway asks sway for its layout tree and picks the focused node
type Sway struct{}

func (Sway) Name() string {
	return "sway"
}

func (Sway) Focused() (*Info, error) {
	out, err := exec.Command("swaymsg", "-t", "get_tree").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute swaymsg: %w", err)
	}
	return parseSwayTree(out)
}

type swayNode struct {
	ID               uint32     `json:"id"`
	Name             string     `json:"name"`
	Focused          bool       `json:"focused"`
	AppID            string     `json:"app_id"`
	PID              uint32     `json:"pid"`
	WindowProperties *swayProps `json:"window_properties"`
	Nodes            []swayNode `json:"nodes"`
	FloatingNodes    []swayNode `json:"floating_nodes"`
}

type swayProps struct {
	Class    string `json:"class"`
	Instance string `json:"instance"`
}

func parseSwayTree(data []byte) (*Info, error) {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}

	node := findFocused(&root)
	if node == nil {
		return nil, ErrNoFocus
	}

	info := &Info{
		Title:    node.Name,
		AppName:  node.AppID,
		Class:    node.AppID,
		PID:      node.PID,
		WindowID: node.ID,
		Source:   "sway",
	}
	// XWayland clients have no app_id
	if p := node.WindowProperties; p != nil {
		if info.AppName == "" {
			info.AppName = p.Instance
		}
		info.Class = p.Class
	}
	return info, nil
}

func findFocused(n *swayNode) *swayNode {
	if n.Focused {
		return n
	}
	for _, children := range [][]swayNode{n.Nodes, n.FloatingNodes} {
		for i := range children {
			if f := findFocused(&children[i]); f != nil {
				return f
			}
		}
	}
	return nil
}

// Hyprland asks hyprctl for the active window
type Hyprland struct{}

func (Hyprland) Name() string {
	return "hyprland"
}

func (Hyprland) Focused() (*Info, error) {
	out, err := exec.Command("hyprctl", "activewindow", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute hyprctl: %w", err)
	}
	return parseHyprlandWindow(out)
}

func parseHyprlandWindow(data []byte) (*Info, error) {
	var w struct {
		Address      string `json:"address"`
		Class        string `json:"class"`
		Title        string `json:"title"`
		InitialClass string `json:"initialClass"`
		PID          uint32 `json:"pid"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl output: %w", err)
	}
	if w.Class == "" && w.Title == "" {
		return nil, ErrNoFocus
	}

	var id uint32
	fmt.Sscanf(w.Address, "0x%x", &id)

	appName := w.InitialClass
	if appName == "" {
		appName = w.Class
	}

	return &Info{
		Title:    w.Title,
		AppName:  appName,
		Class:    w.Class,
		PID:      w.PID,
		WindowID: id,
		Source:   "hyprland",
	}, nil
}
