package window

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var x11Atoms = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// X11 queries the X server named by $DISPLAY (XWayland included)
type X11 struct{}

func (X11) Name() string {
	return "x11"
}

func (X11) Focused() (*Info, error) {
	c, err := dialX11()
	if err != nil {
		return nil, err
	}
	defer c.conn.Close()

	id, err := c.activeWindow()
	if err != nil {
		return nil, err
	}

	instance, class := parseWMClass(c.property(id, c.atoms["WM_CLASS"], xproto.AtomString, 256))

	return &Info{
		Title:    c.windowName(id),
		AppName:  instance,
		Class:    class,
		PID:      parseCardinal(c.property(id, c.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1)),
		WindowID: uint32(id),
		Source:   "x11",
	}, nil
}

type x11Conn struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func dialX11() (*x11Conn, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	c := &x11Conn{
		conn:  conn,
		root:  xproto.Setup(conn).DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(x11Atoms)),
	}

	for _, name := range x11Atoms {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		c.atoms[name] = reply.Atom
	}
	return c, nil
}

func (c *x11Conn) property(w xproto.Window, atom, typ xproto.Atom, length uint32) []byte {
	reply, err := xproto.GetProperty(c.conn, false, w, atom, typ, 0, length).Reply()
	if err != nil {
		return nil
	}
	return reply.Value
}

// activeWindow prefers _NET_ACTIVE_WINDOW and falls back to the input focus's
// top-level parent. Window managers update the property lazily, so retry briefly.
func (c *x11Conn) activeWindow() (xproto.Window, error) {
	for i := 0; i < 5; i++ {
		if data := c.property(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1); len(data) >= 4 {
			if id := xproto.Window(binary.LittleEndian.Uint32(data)); id != 0 && c.windowName(id) != "" {
				return id, nil
			}
		}

		if reply, err := xproto.GetInputFocus(c.conn).Reply(); err == nil && reply.Focus != 0 && reply.Focus != c.root {
			if top := c.topLevel(reply.Focus); top != 0 && c.windowName(top) != "" {
				return top, nil
			}
		}

		time.Sleep(20 * time.Millisecond)
	}
	return 0, ErrNoFocus
}

func (c *x11Conn) topLevel(w xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(c.conn, w).Reply()
		if err != nil || reply.Parent == c.root || reply.Parent == 0 {
			return w
		}
		w = reply.Parent
	}
}

func (c *x11Conn) windowName(w xproto.Window) string {
	if name := trimNUL(c.property(w, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256)); name != "" {
		return name
	}
	return trimNUL(c.property(w, c.atoms["WM_NAME"], xproto.AtomString, 256))
}

// parseWMClass splits the NUL-separated WM_CLASS value into instance and class
func parseWMClass(data []byte) (instance, class string) {
	parts := strings.Split(trimNUL(data), "\x00")
	instance = parts[0]
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

func parseCardinal(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}

func trimNUL(data []byte) string {
	return strings.TrimRight(string(data), "\x00")
}
