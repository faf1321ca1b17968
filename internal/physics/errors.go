package physics

import "errors"

var (
	// ErrNotReady is returned while the engine module is still loading.
	ErrNotReady = errors.New("physics: world not ready")

	// ErrEngineFailed wraps the loader error once initialisation failed.
	ErrEngineFailed = errors.New("physics: engine initialisation failed")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("physics: manager closed")

	ErrNilObject = errors.New("physics: nil object")
)
