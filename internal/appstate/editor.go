package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/capture"
	"github.com/example/grabmark/internal/clipboard"
	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/export"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/input"
	"github.com/example/grabmark/internal/keymap"
	"github.com/example/grabmark/internal/notify"
	"github.com/example/grabmark/internal/render"
	"github.com/example/grabmark/internal/selection"
	"github.com/example/grabmark/internal/session"
	"github.com/example/grabmark/internal/theme"
	"github.com/example/grabmark/internal/viewport"
)

const messageDuration = 2 * time.Second

// Collaborators reached through variables so tests can replace them.
var (
	saveImage      = export.Save
	writeClipboard = clipboard.WriteImage
	readClipboard  = clipboard.ReadImage
	captureScreen  = func(ctx context.Context, monitor int) (*image.RGBA, error) {
		return capture.Capture(ctx, monitor, capture.CaptureOptions{})
	}
	now = time.Now
)

// Editor is the state of one editor window. All methods run on the event
// goroutine; frames are drawn from snapshots.
type Editor struct {
	image *image.RGBA
	// area is the image-space crop. Empty means the whole image.
	area image.Rectangle

	history   *annotate.History
	session   *session.Session
	selection *selection.State
	status    Status

	keys     *keymap.Keymap
	theme    *theme.Theme
	notifier *notify.Notifier
	save     export.SaveOptions
	output   string
	shadow   bool
	monitor  int
	colorIdx int

	window    image.Point
	transform viewport.Transform
	canvas    geom.Rect

	toolbar        []*button
	toolbarButtons [][]*button
	widthLabel     *button
	cropButtons    []*button
	hover          *image.Point
	pressed        *button
	chromeGrab     bool

	message      string
	messageErr   bool
	messageUntil time.Time

	// requestCapture starts an asynchronous capture. The result comes back
	// through ApplyCapture.
	requestCapture func()
}

func newEditor(a *AppState) *Editor {
	h := annotate.NewHistory()
	e := &Editor{
		image:     a.Image,
		history:   h,
		session:   session.New(h, session.WithMode(a.Mode), session.WithStroke(a.Stroke)),
		selection: selection.New(),
		keys:      a.Keymap,
		theme:     a.Theme,
		notifier:  a.Notifier,
		output:    a.Output,
		monitor:   a.Monitor,
	}
	if e.image == nil {
		e.image = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	if e.keys == nil {
		e.keys = keymap.Default()
	}
	if e.theme == nil {
		e.theme = theme.Default()
	}
	e.colorIdx = paletteIndex(e.session.Stroke().Color)
	if a.Config != nil {
		e.applySaveConfig(a.Config)
	}
	e.buildButtons()
	e.layout()
	return e
}

func paletteIndex(c color.RGBA) int {
	for i, p := range Palette {
		if p == c {
			return i
		}
	}
	return -1
}

func (e *Editor) Status() Status { return e.status }

func (e *Editor) History() *annotate.History { return e.history }

func (e *Editor) Session() *session.Session { return e.session }

func (e *Editor) Image() *image.RGBA { return e.image }

// Area returns the image-space crop area, the whole image when none is set.
func (e *Editor) Area() image.Rectangle {
	if e.area.Empty() {
		return e.image.Bounds()
	}
	return e.area
}

// Resize records the new window size in pixels.
func (e *Editor) Resize(width, height int) {
	e.window = image.Pt(width, height)
	e.layout()
}

// layout recomputes the transform and the button rectangles for the current
// window and status. It runs before every conversion of pointer positions.
func (e *Editor) layout() {
	win := geom.FromImage(e.window)
	switch e.status {
	case StatusCrop:
		e.transform = viewport.Fit(geom.Rect{Max: win}, geom.FromImage(e.image.Bounds().Size()), geom.Point{})
		e.canvas = e.transform.Display(geom.FromImage(e.image.Bounds().Size()))
		e.layoutCropButtons()
	default:
		avail := geom.R(0, toolbarHeight, win.X, win.Y-statusHeight)
		area := e.Area()
		size := geom.FromImage(area.Size())
		e.transform = viewport.Fit(avail, size, geom.FromImage(area.Min))
		e.canvas = e.transform.Display(size)
		flow(e.toolbarGroups(), buttonPad, (toolbarHeight-buttonHeight)/2)
	}
}

func (e *Editor) layoutCropButtons() {
	var w int
	for _, b := range e.cropButtons {
		w += labelWidth(b.label) + buttonPad
	}
	anchor := image.Pt(e.window.X/2+w/2, e.window.Y-buttonHeight-2*buttonPad)
	if r, ok := e.selection.Rect(); ok {
		anchor = r.Image().Max.Add(image.Pt(0, buttonPad))
	}
	if anchor.X > e.window.X-buttonPad {
		anchor.X = e.window.X - buttonPad
	}
	if anchor.X < w {
		anchor.X = w
	}
	if anchor.Y > e.window.Y-buttonHeight-buttonPad {
		anchor.Y = e.window.Y - buttonHeight - buttonPad
	}
	if anchor.Y < buttonPad {
		anchor.Y = buttonPad
	}
	flow([][]*button{e.cropButtons}, anchor.X-w, anchor.Y)
}

// Mouse folds one window event into tr and runs the resulting frame.
func (e *Editor) Mouse(tr *input.Tracker, ev mouse.Event) {
	tr.Mouse(ev)
	tr.Bounds(geom.R(0, 0, float32(e.window.X), float32(e.window.Y)))
	e.Tick(tr.Frame())
}

// Tick runs one frame of pointer input: chrome first, then the state machine
// of the current screen.
func (e *Editor) Tick(in input.Input) {
	e.layout()
	e.hover = nil
	if p, ok := in.HoverPos(); ok {
		ip := p.Image()
		e.hover = &ip
	}
	if in.Primary.Clicked && e.messageActive() {
		e.messageUntil = time.Time{}
	}

	if e.chromeGrab {
		if in.Primary.Released || !in.Primary.Down {
			e.chromeGrab = false
			e.pressed = nil
		}
		return
	}
	if in.Primary.Clicked {
		origin := in.PressOrigin
		if origin == nil {
			origin = in.Hover
		}
		if origin != nil {
			if b := buttonAt(e.activeButtons(), origin.Image()); b != nil {
				e.pressed = b
				e.chromeGrab = !in.Primary.Released
				b.activate()
				if !e.chromeGrab {
					e.pressed = nil
				}
				e.layout()
				return
			}
		}
	}

	switch e.status {
	case StatusCrop:
		e.selection.Tick(in, geom.FromImage(e.window))
	default:
		e.session.Tick(in, e.transform, e.canvas)
	}
}

func (e *Editor) activeButtons() []*button {
	if e.status == StatusCrop {
		if !e.selection.ShowButtons() {
			return nil
		}
		return e.cropButtons
	}
	return e.toolbar
}

// HandleKey processes a key press. It reports true when the window should
// close.
func (e *Editor) HandleKey(ev key.Event) bool {
	if ev.Direction == key.DirRelease {
		return false
	}
	if e.status == StatusMain && e.typeText(ev) {
		return false
	}
	a, ok := e.keys.Lookup(ev)
	if !ok {
		return false
	}
	return e.Do(a)
}

// typeText feeds a key to an open text editor. It reports false for keys the
// editor does not consume.
func (e *Editor) typeText(ev key.Event) bool {
	te, ok := e.session.TextEdit()
	if !ok {
		return false
	}
	if ev.Modifiers&(key.ModControl|key.ModAlt|key.ModMeta) != 0 {
		return false
	}
	switch ev.Code {
	case key.CodeReturnEnter:
		e.session.EndText()
		return true
	case key.CodeEscape:
		e.session.CancelText()
		return true
	case key.CodeDeleteBackspace:
		if te.Content != "" {
			_, n := utf8.DecodeLastRuneInString(te.Content)
			e.session.SetText(te.Content[:len(te.Content)-n])
		}
		return true
	}
	if ev.Rune > 0 && unicode.IsPrint(ev.Rune) {
		e.session.SetText(te.Content + string(ev.Rune))
		return true
	}
	return false
}

// Do performs an action. It reports true for Quit.
func (e *Editor) Do(a keymap.Action) bool {
	if e.status == StatusCrop {
		switch a {
		case keymap.Confirm, keymap.Save:
			e.ConfirmCrop()
		case keymap.Cancel, keymap.Crop:
			e.CancelCrop()
		case keymap.Quit:
			return true
		}
		return false
	}
	switch a {
	case keymap.Undo:
		e.session.EndText()
		if !e.session.Undo() {
			e.flash("nothing to undo")
		}
	case keymap.Redo:
		e.session.EndText()
		if !e.session.Redo() {
			e.flash("nothing to redo")
		}
	case keymap.Save:
		e.Save()
	case keymap.Copy:
		e.Copy()
	case keymap.Paste:
		e.Paste()
	case keymap.Crop:
		e.EnterCrop()
	case keymap.Capture:
		if e.requestCapture != nil {
			e.flash("capturing")
			e.requestCapture()
		}
	case keymap.Quit:
		return true
	case keymap.Brush:
		e.session.SetMode(session.ModeBrush)
	case keymap.Rectangle:
		e.session.SetMode(session.ModeRectangle)
	case keymap.Circle:
		e.session.SetMode(session.ModeCircle)
	case keymap.Arrow:
		e.session.SetMode(session.ModeArrow)
	case keymap.Text:
		e.session.SetMode(session.ModeText)
	case keymap.Wider:
		e.adjustWidth(1)
	case keymap.Thinner:
		e.adjustWidth(-1)
	}
	return false
}

func (e *Editor) adjustWidth(delta float32) {
	st := e.session.Stroke()
	st.Width += delta
	e.session.SetStroke(st)
}

func (e *Editor) setColor(idx int) {
	st := e.session.Stroke()
	st.Color = Palette[idx]
	e.session.SetStroke(st)
	e.colorIdx = idx
}

// EnterCrop switches to the crop screen, showing the current crop area as
// the initial selection.
func (e *Editor) EnterCrop() {
	e.session.EndText()
	e.status = StatusCrop
	e.layout()
	var prev *geom.Rect
	if !e.area.Empty() {
		r := e.transform.RectToRender(geom.FromImageRect(e.area))
		prev = &r
	}
	e.selection.Begin(prev)
	e.layout()
}

// ConfirmCrop stores the selected area and returns to the main screen.
func (e *Editor) ConfirmCrop() {
	if e.status != StatusCrop {
		return
	}
	e.layout()
	r := e.selection.Confirm(e.transform, geom.FromImageRect(e.image.Bounds())).Image()
	if r == e.image.Bounds() {
		r = image.Rectangle{}
	}
	e.area = r
	e.status = StatusMain
	e.layout()
}

// CancelCrop restores the previous selection and returns to the main screen.
func (e *Editor) CancelCrop() {
	if e.status != StatusCrop {
		return
	}
	e.selection.Cancel()
	e.status = StatusMain
	e.layout()
}

// SetImage replaces the capture. History and crop area start over.
func (e *Editor) SetImage(img *image.RGBA) {
	e.session.CancelText()
	e.history.Reset()
	e.image = img
	e.area = image.Rectangle{}
	e.selection = selection.New()
	e.status = StatusMain
	e.layout()
}

// ApplyCapture installs the result of a capture. A failed capture leaves the
// current image and history alone.
func (e *Editor) ApplyCapture(img *image.RGBA, err error) {
	if err != nil {
		log.Printf("capture: %v", err)
		e.fail("capture failed: %v", err)
		return
	}
	e.SetImage(img)
	e.flash("captured screenshot")
	e.notifier.Capture(fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()), img)
}

// Export composes the committed annotations over the image, cropped to the
// area, with the drop shadow when enabled. Open text is committed first.
func (e *Editor) Export() *image.RGBA {
	e.session.EndText()
	out := render.Compose(e.image, e.history.Items(), e.area)
	if e.shadow {
		out = render.ApplyShadow(out, render.DefaultShadowOptions()).Image
	}
	return out
}

// SavePath is where Save writes.
func (e *Editor) SavePath() (string, export.Format) {
	if e.output != "" {
		f, err := export.FormatFromPath(e.output)
		if err != nil {
			f = e.save.Format
		}
		return e.output, f
	}
	return e.save.Path(), e.save.Format
}

// Save writes the export. Failures are logged and shown.
func (e *Editor) Save() {
	path, f := e.SavePath()
	if err := saveImage(path, e.Export(), f); err != nil {
		log.Printf("save: %v", err)
		e.fail("save failed: %v", err)
		return
	}
	e.flash("saved " + path)
	log.Print(e.message)
	e.notifier.Save(path)
}

// Copy puts the export on the clipboard. Failures are logged and shown.
func (e *Editor) Copy() {
	img := e.Export()
	if err := writeClipboard(img); err != nil {
		log.Printf("copy: %v", err)
		e.fail("copy failed: %v", err)
		return
	}
	e.flash("image copied to clipboard")
	e.notifier.Copy(fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
}

// Paste replaces the capture with the clipboard image.
func (e *Editor) Paste() {
	img, err := readClipboard()
	if err != nil {
		log.Printf("paste: %v", err)
		e.fail("paste failed: %v", err)
		return
	}
	rgba := clone.AsRGBA(img)
	if rgba.Rect.Min != (image.Point{}) {
		rgba.Rect = rgba.Rect.Sub(rgba.Rect.Min)
	}
	e.SetImage(rgba)
	e.flash("pasted image")
}

// ApplyConfig takes a reloaded configuration. Invalid parts keep the
// previous setting.
func (e *Editor) ApplyConfig(cfg *config.Config) {
	if th, err := cfg.ActiveTheme(nil); err != nil {
		log.Printf("config: theme: %v", err)
	} else {
		e.theme = th
	}
	km := keymap.Default()
	if err := km.Apply(cfg.Shortcuts); err != nil {
		log.Printf("config: %v", err)
	} else {
		e.keys = km
	}
	e.applySaveConfig(cfg)
	e.notifier = notify.FromConfig(notify.LoadPreferences(), cfg.Notify)
	e.flash("configuration reloaded")
}

func (e *Editor) applySaveConfig(cfg *config.Config) {
	e.save.Dir = cfg.SaveDirectory()
	if cfg.SaveFormat != "" {
		f, err := export.ParseFormat(cfg.SaveFormat)
		if err != nil {
			log.Printf("config: save_format: %v", err)
		} else {
			e.save.Format = f
		}
	}
	e.shadow = cfg.Shadow
}

func (e *Editor) flash(msg string) {
	e.message = msg
	e.messageErr = false
	e.messageUntil = now().Add(messageDuration)
}

func (e *Editor) fail(format string, args ...interface{}) {
	e.flash(fmt.Sprintf(format, args...))
	e.messageErr = true
}

func (e *Editor) messageActive() bool {
	return e.message != "" && now().Before(e.messageUntil)
}

// statusLine summarises the editor for the bottom bar.
func (e *Editor) statusLine() string {
	area := e.Area()
	zoom := 100 / e.transform.Ratio
	return fmt.Sprintf("%s  %gpx  %dx%d  %.0f%%  %d annotations",
		e.session.Mode(), e.session.Stroke().Width, area.Dx(), area.Dy(), zoom, e.history.Len())
}
