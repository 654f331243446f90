//go:build !cgo && (linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const readTimeout = 2 * time.Second

// x11Clipboard owns the CLIPBOARD selection from a hidden window and answers
// conversion requests until another client takes ownership.
type x11Clipboard struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu    sync.RWMutex
	owned map[xproto.Atom][]byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func platformBackend() (backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c := &x11Clipboard{conn: conn, window: window, atoms: atoms}
	go c.serve()
	return c, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "GRABMARK_CLIPBOARD"}
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(name)), name)
	}
	atoms := make([]xproto.Atom, len(names))
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", names[i], err)
		}
		atoms[i] = reply.Atom
	}
	return atomSet{
		clipboard: atoms[0],
		targets:   atoms[1],
		utf8:      atoms[2],
		textPlain: atoms[3],
		png:       atoms[4],
		property:  atoms[5],
	}, nil
}

func (c *x11Clipboard) target(f format) xproto.Atom {
	if f == formatImage {
		return c.atoms.png
	}
	return c.atoms.utf8
}

func (c *x11Clipboard) write(f format, data []byte) error {
	c.mu.Lock()
	c.owned = map[xproto.Atom][]byte{c.target(f): append([]byte(nil), data...)}
	c.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(c.conn, c.window, c.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (c *x11Clipboard) serve() {
	for {
		ev, err := c.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.answer(e)
		case xproto.SelectionClearEvent:
			c.mu.Lock()
			c.owned = nil
			c.mu.Unlock()
		}
	}
}

// lookup maps a requested target onto the data we own, treating the text
// targets as aliases.
func (c *x11Clipboard) lookup(target xproto.Atom) (xproto.Atom, []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch target {
	case c.atoms.utf8, xproto.AtomString, c.atoms.textPlain:
		return c.atoms.utf8, c.owned[c.atoms.utf8]
	case c.atoms.png:
		return c.atoms.png, c.owned[c.atoms.png]
	}
	return xproto.AtomNone, nil
}

func (c *x11Clipboard) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	if e.Target == c.atoms.targets {
		targets := []xproto.Atom{c.atoms.targets}
		c.mu.RLock()
		if len(c.owned[c.atoms.utf8]) > 0 {
			targets = append(targets, c.atoms.utf8, xproto.AtomString, c.atoms.textPlain)
		}
		if len(c.owned[c.atoms.png]) > 0 {
			targets = append(targets, c.atoms.png)
		}
		c.mu.RUnlock()
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, property,
			xproto.AtomAtom, 32, uint32(len(targets)), atomsToBytes(targets))
	} else if typ, data := c.lookup(e.Target); len(data) > 0 {
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, property,
			typ, 8, uint32(len(data)), data)
	} else {
		property = xproto.AtomNone
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(c.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// read converts the selection on a fresh connection so our own event loop
// can answer if we are the owner.
func (c *x11Clipboard) read(f format) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, c.atoms.clipboard, c.target(f),
		c.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		for {
			ev, err := conn.WaitForEvent()
			if ev == nil && err == nil {
				done <- result{err: fmt.Errorf("X connection closed")}
				return
			}
			e, ok := ev.(xproto.SelectionNotifyEvent)
			if !ok {
				continue
			}
			if e.Property == xproto.AtomNone {
				done <- result{err: fmt.Errorf("clipboard has no %s data", f)}
				return
			}
			reply, perr := xproto.GetProperty(conn, true, window, e.Property,
				xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
			if perr != nil {
				done <- result{err: perr}
				return
			}
			done <- result{data: append([]byte(nil), reply.Value...)}
			return
		}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-time.After(readTimeout):
		return nil, fmt.Errorf("clipboard owner did not respond")
	}
}

func atomsToBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, atom := range atoms {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}
