package appstate

// Status is the screen the editor window is showing.
type Status int

const (
	// StatusMain shows the cropped image with the drawing tools.
	StatusMain Status = iota
	// StatusCrop shows the whole capture with the selection rectangle.
	StatusCrop
)

func (s Status) String() string {
	if s == StatusCrop {
		return "crop"
	}
	return "main"
}
