//go:build gocv

package display

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"
)

// pollInterval is the key poll period in milliseconds. Between polls the
// context is checked so a cancelled request releases the window.
const pollInterval = 50

type windowBackend struct{}

func newWindowBackend() Backend { return windowBackend{} }

func (windowBackend) Name() string { return BackendWindow }

func (windowBackend) Order() ChannelOrder { return OrderBGR }

func (windowBackend) Open(title string) (Window, error) {
	if title == "" {
		title = "contours"
	}
	return &cvWindow{win: gocv.NewWindow(title)}, nil
}

type cvWindow struct {
	win *gocv.Window
	mat *gocv.Mat
}

func (w *cvWindow) Show(f *Frame) error {
	if f.Order != OrderBGR {
		return fmt.Errorf("window expects BGR frames, got %s", f.Order)
	}
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
	if err != nil {
		return fmt.Errorf("frame to mat: %w", err)
	}
	w.releaseMat()
	w.mat = &mat
	w.win.IMShow(mat)
	return nil
}

func (w *cvWindow) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if key := w.win.WaitKey(pollInterval); key >= 0 {
			return nil
		}
		// Window closed with the mouse.
		if w.win.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
			return nil
		}
	}
}

func (w *cvWindow) Close() error {
	w.releaseMat()
	if w.win == nil || !w.win.IsOpen() {
		return nil
	}
	err := w.win.Close()
	w.win = nil
	return err
}

func (w *cvWindow) releaseMat() {
	if w.mat != nil {
		w.mat.Close()
		w.mat = nil
	}
}
