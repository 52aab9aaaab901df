//go:build !gocv

package display

// windowBackend stands in for the OpenCV window when the binary is built
// without the gocv tag. Opening a window always fails.
type windowBackend struct{}

func newWindowBackend() Backend { return windowBackend{} }

func (windowBackend) Name() string { return BackendWindow }

func (windowBackend) Order() ChannelOrder { return OrderBGR }

func (windowBackend) Open(string) (Window, error) {
	return nil, ErrNoWindowSystem
}
