//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// xImageToRGBA converts a ZPixmap reply of a 24 or 32 bit visual. The
// padding byte of a depth 24 pixel is not alpha, so such images come back
// opaque.
func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	switch {
	case setup == nil:
		return nil, fmt.Errorf("xproto setup unavailable")
	case width <= 0 || height <= 0:
		return nil, fmt.Errorf("empty geometry %dx%d", width, height)
	case reply == nil || len(reply.Data) == 0:
		return nil, fmt.Errorf("pixels: empty image data")
	}

	bpp := 0
	for _, f := range setup.PixmapFormats {
		if f.Depth == reply.Depth {
			bpp = int(f.BitsPerPixel) / 8
			break
		}
	}
	if bpp < 3 {
		return nil, fmt.Errorf("unsupported depth %d", reply.Depth)
	}
	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) || stride < width*bpp {
		return nil, fmt.Errorf("pixels: unexpected stride")
	}
	msb := setup.ImageByteOrder == xproto.ImageOrderMSBFirst
	hasAlpha := reply.Depth == 32 && bpp == 4

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			px := row[x*bpp:]
			var r, g, b, a byte
			if msb {
				// xRGB, or RGB for packed 24 bit.
				o := bpp - 3
				r, g, b = px[o], px[o+1], px[o+2]
				a = px[0]
			} else {
				b, g, r = px[0], px[1], px[2]
				if bpp == 4 {
					a = px[3]
				}
			}
			if !hasAlpha {
				a = 0xff
			}
			d := dst[x*4:]
			d[0], d[1], d[2], d[3] = r, g, b, a
		}
	}
	return img, nil
}
