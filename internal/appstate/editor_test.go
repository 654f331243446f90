package appstate

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/grabmark/internal/annotate"
	"github.com/example/grabmark/internal/config"
	"github.com/example/grabmark/internal/export"
	"github.com/example/grabmark/internal/geom"
	"github.com/example/grabmark/internal/input"
	"github.com/example/grabmark/internal/session"
	"github.com/example/grabmark/internal/theme"
)

func newTestEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	a := New(append([]Option{WithImage(img)}, opts...)...)
	ed := newEditor(a)
	ed.Resize(400, 300)
	return ed
}

// pointer feeds mouse events through the editor's tracker path, one frame
// per event.
type pointer struct {
	ed *Editor
	tr input.Tracker
}

func (p *pointer) event(x, y float32, b mouse.Button, dir mouse.Direction) {
	p.ed.Mouse(&p.tr, mouse.Event{X: x, Y: y, Button: b, Direction: dir})
}

func (p *pointer) press(at geom.Point) { p.event(at.X, at.Y, mouse.ButtonLeft, mouse.DirPress) }

func (p *pointer) move(at geom.Point) { p.event(at.X, at.Y, mouse.ButtonNone, mouse.DirNone) }

func (p *pointer) release(at geom.Point) { p.event(at.X, at.Y, mouse.ButtonLeft, mouse.DirRelease) }

func (p *pointer) click(at geom.Point) {
	p.press(at)
	p.release(at)
}

func findButton(t *testing.T, buttons []*button, label string) *button {
	t.Helper()
	for _, b := range buttons {
		if b.label == label {
			return b
		}
	}
	t.Fatalf("no button %q", label)
	return nil
}

func centre(b *button) geom.Point {
	c := b.rect.Min.Add(b.rect.Max).Div(2)
	return geom.FromImage(c)
}

func press(r rune, code key.Code, mods key.Modifiers) key.Event {
	return key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress}
}

func TestBrushStrokeThroughEditor(t *testing.T) {
	ed := newTestEditor(t)
	o := ed.canvas.Min
	p := &pointer{ed: ed}
	p.press(o.Add(geom.Pt(10, 10)))
	p.move(o.Add(geom.Pt(20, 15)))
	p.move(o.Add(geom.Pt(30, 25)))
	p.release(o.Add(geom.Pt(30, 25)))

	items := ed.History().Items()
	if len(items) != 1 {
		t.Fatalf("got %d annotations want 1", len(items))
	}
	b, ok := items[0].(annotate.Brush)
	if !ok {
		t.Fatalf("got %T want Brush", items[0])
	}
	want := []geom.Point{geom.Pt(10, 10), geom.Pt(20, 15), geom.Pt(30, 25)}
	if !b.Finished || len(b.Points) != len(want) {
		t.Fatalf("got %+v", b)
	}
	for i := range want {
		if !b.Points[i].Near(want[i], 0.01) {
			t.Fatalf("point %d got %v want %v", i, b.Points[i], want[i])
		}
	}
}

func TestToolbarClickDoesNotDraw(t *testing.T) {
	ed := newTestEditor(t)
	ed.Resize(1600, 600)
	p := &pointer{ed: ed}
	p.click(centre(findButton(t, ed.toolbar, "R:Rect")))
	if got := ed.Session().Mode(); got != session.ModeRectangle {
		t.Fatalf("mode got %v want rectangle", got)
	}
	if ed.History().Len() != 0 || ed.History().Draft() != nil {
		t.Fatal("toolbar click reached the canvas")
	}
	if ed.chromeGrab || ed.pressed != nil {
		t.Fatal("chrome grab not released")
	}
}

func TestPaletteAndWidthButtons(t *testing.T) {
	ed := newTestEditor(t)
	ed.Resize(1600, 600)
	p := &pointer{ed: ed}
	p.click(centre(ed.toolbarButtons[1][4]))
	if got := ed.Session().Stroke().Color; got != Palette[4] {
		t.Fatalf("colour got %v want %v", got, Palette[4])
	}
	before := ed.Session().Stroke().Width
	p.click(centre(findButton(t, ed.toolbar, "+")))
	if got := ed.Session().Stroke().Width; got != before+1 {
		t.Fatalf("width got %v want %v", got, before+1)
	}
	if !strings.HasPrefix(ed.widthLabel.label, "4") {
		t.Fatalf("width label got %q", ed.widthLabel.label)
	}
}

func TestRectangleDragCommitsNormalised(t *testing.T) {
	ed := newTestEditor(t, WithMode(session.ModeRectangle))
	o := ed.canvas.Min
	p := &pointer{ed: ed}
	p.press(o.Add(geom.Pt(50, 10)))
	p.move(o.Add(geom.Pt(10, 60)))
	p.release(o.Add(geom.Pt(10, 60)))

	items := ed.History().Items()
	if len(items) != 1 {
		t.Fatalf("got %d annotations want 1", len(items))
	}
	r := items[0].(annotate.Rectangle).Rect
	if r.Min != geom.Pt(10, 10) || r.Max != geom.Pt(50, 60) {
		t.Fatalf("got %v", r)
	}
}

func TestTextTyping(t *testing.T) {
	ed := newTestEditor(t, WithMode(session.ModeText))
	o := ed.canvas.Min
	p := &pointer{ed: ed}
	p.click(o.Add(geom.Pt(20, 20)))
	if _, ok := ed.Session().TextEdit(); !ok {
		t.Fatal("text editor not open")
	}
	ed.HandleKey(press('h', key.CodeH, 0))
	ed.HandleKey(press('b', key.CodeB, 0))
	if got := ed.Session().Mode(); got != session.ModeText {
		t.Fatalf("typing switched mode to %v", got)
	}
	ed.HandleKey(press(0, key.CodeDeleteBackspace, 0))
	ed.HandleKey(press('\n', key.CodeReturnEnter, 0))

	items := ed.History().Items()
	if len(items) != 1 {
		t.Fatalf("got %d annotations want 1", len(items))
	}
	txt := items[0].(annotate.Text)
	if txt.Content != "h" || !txt.Position.Near(geom.Pt(20, 20), 0.01) {
		t.Fatalf("got %+v", txt)
	}
	if _, ok := ed.Session().TextEdit(); ok {
		t.Fatal("enter should close the editor")
	}
}

func TestTextEscapeDiscards(t *testing.T) {
	ed := newTestEditor(t, WithMode(session.ModeText))
	p := &pointer{ed: ed}
	p.click(ed.canvas.Min.Add(geom.Pt(5, 5)))
	ed.HandleKey(press('x', key.CodeX, 0))
	ed.HandleKey(press(0, key.CodeEscape, 0))
	if ed.History().Len() != 0 || ed.History().Draft() != nil {
		t.Fatal("escape kept the text")
	}
}

func TestShortcuts(t *testing.T) {
	ed := newTestEditor(t)
	ed.History().Commit(annotate.Rectangle{Rect: geom.R(0, 0, 5, 5), Style: annotate.NewStrokeStyle(1, Palette[0])})
	ed.HandleKey(press('z', key.CodeZ, key.ModControl))
	if ed.History().Len() != 0 {
		t.Fatal("ctrl+z did not undo")
	}
	ed.HandleKey(press('y', key.CodeY, key.ModControl))
	if ed.History().Len() != 1 {
		t.Fatal("ctrl+y did not redo")
	}
	ed.HandleKey(press('o', key.CodeO, 0))
	if got := ed.Session().Mode(); got != session.ModeCircle {
		t.Fatalf("mode got %v want circle", got)
	}
	if ed.HandleKey(key.Event{Rune: 'q', Code: key.CodeQ, Modifiers: key.ModControl, Direction: key.DirRelease}) {
		t.Fatal("key release triggered quit")
	}
	if !ed.HandleKey(press('q', key.CodeQ, key.ModControl)) {
		t.Fatal("ctrl+q did not quit")
	}
}

func TestUndoEmptyIsReported(t *testing.T) {
	ed := newTestEditor(t)
	ed.Do("undo")
	if ed.message != "nothing to undo" {
		t.Fatalf("message got %q", ed.message)
	}
}

func selectCrop(p *pointer, from, to geom.Point) {
	p.press(from)
	p.move(to)
	p.release(to)
}

func TestCropConfirm(t *testing.T) {
	ed := newTestEditor(t)
	ed.EnterCrop()
	if ed.Status() != StatusCrop {
		t.Fatalf("status got %v want crop", ed.Status())
	}
	p := &pointer{ed: ed}
	// The whole 200x100 image is centred in the 400x300 window at 1:1.
	selectCrop(p, geom.Pt(110, 110), geom.Pt(160, 150))
	if !ed.selection.ShowButtons() {
		t.Fatal("buttons hidden after release")
	}
	p.click(centre(findButton(t, ed.cropButtons, "Save")))

	if ed.Status() != StatusMain {
		t.Fatalf("status got %v want main", ed.Status())
	}
	if got, want := ed.Area(), image.Rect(10, 10, 60, 50); got != want {
		t.Fatalf("area got %v want %v", got, want)
	}
	if got := ed.Export().Bounds(); got != image.Rect(0, 0, 50, 40) {
		t.Fatalf("export bounds got %v", got)
	}
}

func TestCropButtonsHiddenWhileDragging(t *testing.T) {
	ed := newTestEditor(t)
	ed.EnterCrop()
	p := &pointer{ed: ed}
	p.press(geom.Pt(110, 110))
	p.move(geom.Pt(150, 150))
	if got := ed.activeButtons(); got != nil {
		t.Fatalf("got %d buttons while dragging", len(got))
	}
	p.release(geom.Pt(150, 150))
	if got := ed.activeButtons(); len(got) != 2 {
		t.Fatalf("got %d buttons after release want 2", len(got))
	}
}

func TestCropDragOutsideWindowClamps(t *testing.T) {
	ed := newTestEditor(t)
	ed.EnterCrop()
	p := &pointer{ed: ed}
	p.press(geom.Pt(100, 100))
	p.move(geom.Pt(380, 280))
	p.move(geom.Pt(450, 350))
	p.release(geom.Pt(450, 350))
	r, ok := ed.selection.Rect()
	if !ok || r != geom.R(100, 100, 400, 300) {
		t.Fatalf("selection got %v %v want (100,100)-(400,300)", r, ok)
	}
}

func TestCropStrayClickKeepsSelection(t *testing.T) {
	ed := newTestEditor(t)
	ed.EnterCrop()
	p := &pointer{ed: ed}
	selectCrop(p, geom.Pt(110, 110), geom.Pt(160, 150))
	p.click(geom.Pt(300, 60))
	r, ok := ed.selection.Rect()
	if !ok || r != geom.R(110, 110, 160, 150) {
		t.Fatalf("selection got %v %v want (110,110)-(160,150)", r, ok)
	}
}

func TestCropCancelKeepsArea(t *testing.T) {
	ed := newTestEditor(t)
	ed.EnterCrop()
	p := &pointer{ed: ed}
	selectCrop(p, geom.Pt(110, 110), geom.Pt(160, 150))
	ed.ConfirmCrop()

	ed.EnterCrop()
	if r, ok := ed.selection.Rect(); !ok || r != geom.R(110, 110, 160, 150) {
		t.Fatalf("previous selection got %v %v", r, ok)
	}
	selectCrop(p, geom.Pt(300, 250), geom.Pt(350, 280))
	ed.HandleKey(press(0, key.CodeEscape, 0))
	if ed.Status() != StatusMain {
		t.Fatal("escape did not leave crop")
	}
	if got, want := ed.Area(), image.Rect(10, 10, 60, 50); got != want {
		t.Fatalf("area got %v want %v", got, want)
	}
}

func TestCropWithoutSelectionUsesWholeImage(t *testing.T) {
	ed := newTestEditor(t)
	ed.EnterCrop()
	ed.Do("confirm")
	if got := ed.Area(); got != ed.Image().Bounds() {
		t.Fatalf("area got %v", got)
	}
}

func TestAnnotationsKeepImageSpaceAfterCrop(t *testing.T) {
	ed := newTestEditor(t, WithMode(session.ModeRectangle))
	ed.EnterCrop()
	p := &pointer{ed: ed}
	selectCrop(p, geom.Pt(150, 120), geom.Pt(250, 180))
	ed.ConfirmCrop()

	o := ed.canvas.Min
	p.press(o.Add(geom.Pt(5, 5)))
	p.move(o.Add(geom.Pt(15, 10)))
	p.release(o.Add(geom.Pt(15, 10)))
	r := ed.History().Items()[0].(annotate.Rectangle).Rect
	if r.Min != geom.Pt(55, 25) || r.Max != geom.Pt(65, 30) {
		t.Fatalf("got %v want image-space offset by the crop", r)
	}
}

func swapSave(t *testing.T, fn func(string, image.Image, export.Format) error) {
	t.Helper()
	saveImage = fn
	t.Cleanup(func() { saveImage = export.Save })
}

func TestSaveToOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shot.jpg")
	ed := newTestEditor(t, WithOutput(out))
	var gotPath string
	var gotFormat export.Format
	swapSave(t, func(path string, img image.Image, f export.Format) error {
		gotPath, gotFormat = path, f
		return nil
	})
	ed.Save()
	if gotPath != out || gotFormat != export.JPEG {
		t.Fatalf("got %s %v want %s jpeg", gotPath, gotFormat, out)
	}
	if ed.messageErr || !strings.Contains(ed.message, out) {
		t.Fatalf("message got %q", ed.message)
	}
}

func TestSaveUsesConfigDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.SaveDir = dir
	cfg.SaveFormat = "gif"
	ed := newTestEditor(t, WithConfig(cfg, ""))
	var gotPath string
	swapSave(t, func(path string, img image.Image, f export.Format) error {
		gotPath = path
		return nil
	})
	ed.Save()
	if filepath.Dir(gotPath) != dir || filepath.Ext(gotPath) != ".gif" {
		t.Fatalf("path got %s", gotPath)
	}
}

func TestSaveFailureKeepsHistory(t *testing.T) {
	ed := newTestEditor(t)
	ed.History().Commit(annotate.Rectangle{Rect: geom.R(0, 0, 5, 5), Style: annotate.NewStrokeStyle(1, Palette[0])})
	swapSave(t, func(string, image.Image, export.Format) error { return errors.New("disk full") })
	ed.Save()
	if !ed.messageErr || !strings.Contains(ed.message, "disk full") {
		t.Fatalf("message got %q err=%v", ed.message, ed.messageErr)
	}
	if ed.History().Len() != 1 {
		t.Fatal("failed save touched history")
	}
}

func TestExportShadowGrowsImage(t *testing.T) {
	cfg := config.New()
	cfg.Shadow = true
	ed := newTestEditor(t, WithConfig(cfg, ""))
	b := ed.Export().Bounds()
	if b.Dx() <= 200 || b.Dy() <= 100 {
		t.Fatalf("bounds got %v", b)
	}
}

func TestCopy(t *testing.T) {
	ed := newTestEditor(t)
	var got image.Image
	old := writeClipboard
	t.Cleanup(func() { writeClipboard = old })
	writeClipboard = func(img image.Image) error {
		got = img
		return nil
	}
	ed.Copy()
	if got == nil || got.Bounds() != image.Rect(0, 0, 200, 100) {
		t.Fatalf("clipboard got %v", got)
	}

	writeClipboard = func(image.Image) error { return errors.New("no display") }
	ed.Copy()
	if !ed.messageErr {
		t.Fatal("copy failure not shown")
	}
}

func TestPasteReplacesImage(t *testing.T) {
	ed := newTestEditor(t)
	ed.History().Commit(annotate.Rectangle{Rect: geom.R(0, 0, 5, 5), Style: annotate.NewStrokeStyle(1, Palette[0])})
	ed.area = image.Rect(1, 1, 10, 10)
	old := readClipboard
	t.Cleanup(func() { readClipboard = old })
	readClipboard = func() (image.Image, error) {
		return image.NewRGBA(image.Rect(5, 5, 25, 15)), nil
	}
	ed.Paste()
	if got := ed.Image().Bounds(); got != image.Rect(0, 0, 20, 10) {
		t.Fatalf("bounds got %v", got)
	}
	if ed.History().Len() != 0 || ed.Area() != ed.Image().Bounds() {
		t.Fatal("paste kept old history or crop")
	}
}

func TestFailedCaptureKeepsState(t *testing.T) {
	ed := newTestEditor(t)
	img := ed.Image()
	ed.History().Commit(annotate.Rectangle{Rect: geom.R(0, 0, 5, 5), Style: annotate.NewStrokeStyle(1, Palette[0])})
	ed.ApplyCapture(nil, errors.New("denied"))
	if ed.Image() != img || ed.History().Len() != 1 {
		t.Fatal("failed capture replaced state")
	}
	next := image.NewRGBA(image.Rect(0, 0, 30, 30))
	ed.ApplyCapture(next, nil)
	if ed.Image() != next || ed.History().Len() != 0 {
		t.Fatal("capture not applied")
	}
}

func TestCaptureActionRequestsCapture(t *testing.T) {
	ed := newTestEditor(t)
	called := 0
	ed.requestCapture = func() { called++ }
	ed.HandleKey(press('n', key.CodeN, key.ModControl))
	if called != 1 {
		t.Fatalf("capture requested %d times", called)
	}
}

func TestApplyConfig(t *testing.T) {
	t.Setenv("GRABMARK_THEME", "")
	ed := newTestEditor(t)
	cfg := config.New()
	cfg.DarkMode = true
	cfg.Shortcuts["undo"] = "ctrl+u"
	ed.ApplyConfig(cfg)
	if ed.theme.Name != "dark" {
		t.Fatalf("theme got %s want dark", ed.theme.Name)
	}
	ed.History().Commit(annotate.Rectangle{Rect: geom.R(0, 0, 5, 5), Style: annotate.NewStrokeStyle(1, Palette[0])})
	ed.HandleKey(press('u', key.CodeU, key.ModControl))
	if ed.History().Len() != 0 {
		t.Fatal("reloaded shortcut not applied")
	}

	bad := config.New()
	bad.Shortcuts["nonsense"] = "x"
	ed.ApplyConfig(bad)
	ed.History().Commit(annotate.Rectangle{Rect: geom.R(0, 0, 5, 5), Style: annotate.NewStrokeStyle(1, Palette[0])})
	ed.HandleKey(press('u', key.CodeU, key.ModControl))
	if ed.History().Len() != 0 {
		t.Fatal("bad shortcuts replaced the keymap")
	}
}

func TestPaintMain(t *testing.T) {
	ed := newTestEditor(t)
	ed.Resize(1600, 600)
	ed.History().Commit(annotate.Rectangle{Rect: geom.R(10, 10, 50, 50), Style: annotate.NewStrokeStyle(2, Palette[0])})
	ed.flash("hello")
	dst := image.NewRGBA(image.Rectangle{Max: ed.window})
	ed.snapshot().paint(context.Background(), dst, &buttonCache{})

	th := theme.Default()
	if got := dst.RGBAAt(1599, 599); got != th.StatusBackground {
		t.Fatalf("status bar got %v want %v", got, th.StatusBackground)
	}
	if got := dst.RGBAAt(1599, 1); got != th.ToolbarBackground {
		t.Fatalf("toolbar got %v want %v", got, th.ToolbarBackground)
	}
	c := ed.canvas.Min.Image()
	if got := dst.RGBAAt(c.X+10, c.Y+30); got.R < 200 || got.G > 60 {
		t.Fatalf("rectangle edge got %v", got)
	}
}

func TestPaintCropShadesOutside(t *testing.T) {
	ed := newTestEditor(t)
	ed.EnterCrop()
	dst := image.NewRGBA(image.Rectangle{Max: ed.window})
	ed.snapshot().paint(context.Background(), dst, &buttonCache{})
	if got := dst.RGBAAt(0, 0); got == theme.Default().Background {
		t.Fatal("crop screen not shaded")
	}
}

func TestPaintStopsWhenCancelled(t *testing.T) {
	ed := newTestEditor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := image.NewRGBA(image.Rectangle{Max: ed.window})
	ed.snapshot().paint(ctx, dst, &buttonCache{})
	if got := dst.RGBAAt(0, 0); got == theme.Default().ToolbarBackground {
		t.Fatal("cancelled frame drew the toolbar")
	}
}

func TestInitialSize(t *testing.T) {
	tests := []struct {
		w, h int
		want image.Point
	}{
		{100, 100, image.Pt(640, 158)},
		{800, 400, image.Pt(800, 458)},
		{3840, 2160, image.Pt(maxWindowWidth, maxWindowHeight)},
	}
	for _, tt := range tests {
		got := initialSize(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)))
		if got != tt.want {
			t.Fatalf("%dx%d: got %v want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
