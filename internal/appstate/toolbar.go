package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/colornames"

	"github.com/example/grabmark/internal/keymap"
	"github.com/example/grabmark/internal/render"
	"github.com/example/grabmark/internal/session"
	"github.com/example/grabmark/internal/theme"
)

const (
	toolbarHeight = 36
	statusHeight  = 22
	buttonHeight  = 28
	buttonPad     = 4
	labelSize     = 13
)

// Palette is the set of pen colours offered on the toolbar.
var Palette = []color.RGBA{
	colornames.Red,
	colornames.Orange,
	colornames.Gold,
	colornames.Limegreen,
	colornames.Dodgerblue,
	colornames.Magenta,
	colornames.Black,
	colornames.White,
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateSelected
	StateDisabled
)

// button is one clickable toolbar element. Buttons without activate are
// labels.
type button struct {
	label    string
	swatch   *color.RGBA
	rect     image.Rectangle
	selected func() bool
	activate func()
}

// buttonFace is everything needed to draw a button. It is a plain value so
// frames can be drawn off the event goroutine.
type buttonFace struct {
	Label     string
	Swatch    color.RGBA
	HasSwatch bool
	Size      image.Point
	State     ButtonState
}

func (b *button) state(hover *image.Point, pressed *button) ButtonState {
	switch {
	case b.activate == nil:
		return StateDisabled
	case pressed == b:
		return StatePressed
	case b.selected != nil && b.selected():
		return StateSelected
	case hover != nil && hover.In(b.rect):
		return StateHover
	}
	return StateDefault
}

func (b *button) face(state ButtonState) buttonFace {
	f := buttonFace{Label: b.label, Size: b.rect.Size(), State: state}
	if b.swatch != nil {
		f.Swatch = *b.swatch
		f.HasSwatch = true
	}
	return f
}

// placedFace is a face positioned in the window.
type placedFace struct {
	face buttonFace
	at   image.Point
}

// buttonCache keeps rendered faces for one theme. It belongs to the paint
// goroutine.
type buttonCache struct {
	theme *theme.Theme
	faces map[buttonFace]*image.RGBA
}

func (c *buttonCache) draw(dst *image.RGBA, th *theme.Theme, p placedFace) {
	if c.theme != th || c.faces == nil {
		c.theme = th
		c.faces = make(map[buttonFace]*image.RGBA)
	}
	img, ok := c.faces[p.face]
	if !ok {
		img = renderFace(th, p.face)
		c.faces[p.face] = img
	}
	r := image.Rectangle{Min: p.at, Max: p.at.Add(p.face.Size)}
	draw.Draw(dst, r, img, image.Point{}, draw.Src)
}

func renderFace(th *theme.Theme, f buttonFace) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: f.Size})
	bg := th.ButtonBackground
	switch f.State {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed, StateSelected:
		bg = th.ButtonBackgroundActive
	case StateDisabled:
		bg = th.ToolbarBackground
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if f.HasSwatch {
		render.Fill(img, img.Bounds().Inset(5), f.Swatch)
		render.Outline(img, img.Bounds().Inset(5), th.ButtonBorder)
	}
	if f.State != StateDisabled {
		render.Outline(img, img.Bounds(), th.ButtonBorder)
	}
	if f.Label != "" {
		w, ascent, descent, err := render.MeasureText(f.Label, labelSize)
		if err != nil {
			log.Printf("button label: %v", err)
			return img
		}
		x := (f.Size.X - w) / 2
		y := (f.Size.Y - ascent - descent) / 2
		if err := render.DrawLabel(img, x, y, f.Label, th.ButtonText, labelSize); err != nil {
			log.Printf("button label: %v", err)
		}
	}
	return img
}

// labelWidth is the button width needed for label.
func labelWidth(label string) int {
	w, _, _, err := render.MeasureText(label, labelSize)
	if err != nil {
		return 8 * len(label)
	}
	return w + 16
}

// flow lays buttons out left to right starting at x, separating groups by a
// wider gap. It returns the x after the last button.
func flow(groups [][]*button, x, y int) int {
	for gi, g := range groups {
		if gi > 0 {
			x += 3 * buttonPad
		}
		for _, b := range g {
			w := buttonHeight
			if b.swatch == nil {
				w = labelWidth(b.label)
				if w < buttonHeight {
					w = buttonHeight
				}
			}
			b.rect = image.Rect(x, y, x+w, y+buttonHeight)
			x += w + buttonPad
		}
	}
	return x
}

func buttonAt(buttons []*button, p image.Point) *button {
	for _, b := range buttons {
		if b.activate != nil && p.In(b.rect) {
			return b
		}
	}
	return nil
}

// buildButtons creates the toolbar and the crop screen buttons.
func (e *Editor) buildButtons() {
	var tools []*button
	for _, m := range session.Modes {
		m := m
		tools = append(tools, &button{
			label:    toolLabels[m],
			selected: func() bool { return e.session.Mode() == m },
			activate: func() { e.session.SetMode(m) },
		})
	}
	var swatches []*button
	for i := range Palette {
		i := i
		swatches = append(swatches, &button{
			swatch:   &Palette[i],
			selected: func() bool { return e.colorIdx == i },
			activate: func() { e.setColor(i) },
		})
	}
	e.widthLabel = &button{}
	width := []*button{
		{label: "-", activate: func() { e.adjustWidth(-1) }},
		e.widthLabel,
		{label: "+", activate: func() { e.adjustWidth(1) }},
	}
	actions := []*button{
		{label: "Crop", activate: e.EnterCrop},
		{label: "Undo", activate: func() { e.Do(keymap.Undo) }},
		{label: "Redo", activate: func() { e.Do(keymap.Redo) }},
		{label: "Copy", activate: e.Copy},
		{label: "Save", activate: e.Save},
	}
	e.toolbarButtons = [][]*button{tools, swatches, width, actions}
	e.toolbar = nil
	for _, g := range e.toolbarButtons {
		e.toolbar = append(e.toolbar, g...)
	}
	e.cropButtons = []*button{
		{label: "Save", activate: e.ConfirmCrop},
		{label: "Cancel", activate: e.CancelCrop},
	}
}

var toolLabels = map[session.Mode]string{
	session.ModeBrush:     "B:Brush",
	session.ModeRectangle: "R:Rect",
	session.ModeCircle:    "O:Circle",
	session.ModeArrow:     "A:Arrow",
	session.ModeText:      "T:Text",
}

// toolbarGroups refreshes the dynamic labels and returns the toolbar groups
// in display order.
func (e *Editor) toolbarGroups() [][]*button {
	e.widthLabel.label = fmt.Sprintf("%gpx", e.session.Stroke().Width)
	return e.toolbarButtons
}
