//go:build !windows && !linux && !freebsd && !openbsd && !netbsd && !dragonfly && !(darwin && cgo)

package clipboard

import "fmt"

func platformBackend() (backend, error) {
	return nil, fmt.Errorf("clipboard is not supported on this platform")
}
