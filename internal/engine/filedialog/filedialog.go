// Package filedialog shows native open dialogs without blocking the render loop.
package filedialog

import (
	"errors"
	"sync/atomic"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// Picker runs one open dialog at a time in the background. Window operations
// must stay on the main thread, so the chosen path is queued and collected
// with Poll from the render loop.
type Picker struct {
	show    func() (string, error)
	busy    atomic.Bool
	results chan string
	log     *zap.Logger
}

// NewOBJPicker returns a picker for Wavefront OBJ files.
func NewOBJPicker() *Picker {
	return &Picker{
		show: func() (string, error) {
			return dialog.File().
				Filter("Wavefront OBJ", "obj").
				Filter("All Files", "*").
				Title("Open OBJ").
				Load()
		},
		results: make(chan string, 1),
		log:     logger.Named("filedialog"),
	}
}

// Open shows the dialog unless one is already showing.
func (p *Picker) Open() {
	if !p.busy.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.busy.Store(false)
		path, err := p.show()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				p.log.Error("file dialog failed", zap.Error(err))
			}
			return
		}
		p.results <- path
	}()
}

// Poll returns a chosen path, if one is waiting.
func (p *Picker) Poll() (string, bool) {
	select {
	case path := <-p.results:
		return path, true
	default:
		return "", false
	}
}
