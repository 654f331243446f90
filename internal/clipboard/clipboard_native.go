//go:build windows || (cgo && (linux || freebsd || openbsd || netbsd || dragonfly || darwin))

package clipboard

import "golang.design/x/clipboard"

type nativeClipboard struct{}

func platformBackend() (backend, error) {
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return nativeClipboard{}, nil
}

func nativeFormat(f format) clipboard.Format {
	if f == formatImage {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}

func (nativeClipboard) write(f format, data []byte) error {
	clipboard.Write(nativeFormat(f), data)
	return nil
}

func (nativeClipboard) read(f format) ([]byte, error) {
	return clipboard.Read(nativeFormat(f)), nil
}
