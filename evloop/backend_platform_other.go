//go:build !linux && unix

package evloop

const defaultBackendName = "select"

func newPlatformBackend(setSize int) (Backend, error) {
	return newSelectBackend(setSize)
}
