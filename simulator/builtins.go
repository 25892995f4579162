package simulator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/arloliu/go-sharksem/arg"
	"github.com/arloliu/go-sharksem/scan"
)

// StageAxes is the number of stage axes: x, y, z, rotation and tilt.
const StageAxes = 5

// Camera frame size streamed by CameraEnable.
const (
	CameraWidth  = 512
	CameraHeight = 384
)

func (s *Server) registerBuiltins() {
	builtins := map[string]Handler{
		"TcpRegDataPort": s.handleRegDataPort,
		"TcpGetVersion": func([]arg.Arg) ([]arg.Arg, error) {
			return []arg.Arg{arg.String(s.opts.version)}, nil
		},
		"TcpGetDevice": func([]arg.Arg) ([]arg.Arg, error) {
			return []arg.Arg{arg.String(s.opts.device)}, nil
		},
		"StgGetPosition": s.handleStageGet,
		"StgMoveTo":      s.handleStageMove,
		"DtEnable":       s.handleDetectorEnable,
		"ScScanXY":       s.handleScanXY,
		"CameraEnable":   s.handleCameraEnable,
	}

	for name, h := range builtins {
		if err := s.Handle(name, h); err != nil {
			// the catalog always carries the built-in commands
			panic(err)
		}
	}
}

func (s *Server) handleRegDataPort(args []arg.Arg) ([]arg.Arg, error) {
	port, err := args[0].ToInt()
	if err != nil {
		return nil, err
	}

	if port < 1 || port > 65535 {
		return []arg.Arg{arg.Int(-1)}, nil
	}

	s.mu.Lock()
	s.dataPort = int(port)
	s.mu.Unlock()

	return []arg.Arg{arg.Int(0)}, nil
}

func (s *Server) handleStageGet([]arg.Arg) ([]arg.Arg, error) {
	pos := s.StagePosition()
	values := make([]arg.Arg, len(pos))
	for i, v := range pos {
		values[i] = arg.Float(v)
	}

	return values, nil
}

func (s *Server) handleStageMove(args []arg.Arg) ([]arg.Arg, error) {
	pos := make([]float64, len(args))
	for i, a := range args {
		v, err := a.ToFloat()
		if err != nil {
			return nil, err
		}
		pos[i] = v
	}
	s.SetStagePosition(pos...)

	return nil, nil
}

func (s *Server) handleDetectorEnable(args []arg.Arg) ([]arg.Arg, error) {
	channel, err := args[0].ToInt()
	if err != nil {
		return nil, err
	}
	enable, err := args[1].ToInt()
	if err != nil {
		return nil, err
	}
	if channel < 0 {
		return nil, fmt.Errorf("invalid channel %d", channel)
	}
	s.SetChannelEnabled(uint32(channel), enable != 0)

	return nil, nil
}

// handleScanXY streams one synthetic width x height image per enabled channel.
func (s *Server) handleScanXY(args []arg.Arg) ([]arg.Arg, error) {
	ints := make([]int32, len(args))
	for i, a := range args {
		v, err := a.ToInt()
		if err != nil {
			return nil, err
		}
		ints[i] = v
	}

	frameID, width, height := ints[0], ints[1], ints[2]
	if width <= 0 || height <= 0 {
		return []arg.Arg{arg.Int(-1)}, nil
	}

	for _, channel := range s.EnabledChannels() {
		img := SyntheticImage(channel, int(width), int(height))
		if err := s.SendImage(uint32(frameID), channel, img); err != nil {
			return nil, err
		}
	}

	return []arg.Arg{arg.Int(0)}, nil
}

func (s *Server) handleCameraEnable(args []arg.Arg) ([]arg.Arg, error) {
	channel, err := args[0].ToInt()
	if err != nil {
		return nil, err
	}
	if channel < 0 {
		return nil, fmt.Errorf("invalid channel %d", channel)
	}

	return nil, s.SendCameraFrame(scan.CameraFrame{
		Channel:      uint32(channel),
		BitsPerPixel: scan.SupportedBitsPerPixel,
		Width:        CameraWidth,
		Height:       CameraHeight,
		Data:         SyntheticImage(uint32(channel), CameraWidth, CameraHeight),
	})
}

// StagePosition returns the simulated stage position.
func (s *Server) StagePosition() [StageAxes]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stage
}

// SetStagePosition updates the leading axes of the simulated stage with pos.
// Extra values are ignored.
func (s *Server) SetStagePosition(pos ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.stage[:], pos)
}

// SetChannelEnabled enables or disables an acquisition channel.
func (s *Server) SetChannelEnabled(channel uint32, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled {
		s.channels[channel] = true
	} else {
		delete(s.channels, channel)
	}
}

// EnabledChannels returns the enabled acquisition channels in ascending order.
func (s *Server) EnabledChannels() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels := make([]uint32, 0, len(s.channels))
	for ch := range s.channels {
		channels = append(channels, ch)
	}
	slices.Sort(channels)

	return channels
}

// SendFragment queues one image fragment on the data channel.
func (s *Server) SendFragment(f scan.Fragment) error {
	body, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	return s.SendData(scan.FragmentName, body)
}

// SendImage queues img as 8-bit fragments of the configured chunk size.
func (s *Server) SendImage(frameID, channel uint32, img []byte) error {
	if len(img) == 0 {
		return errors.New("empty image")
	}

	for offset := 0; offset < len(img); offset += s.opts.chunkSize {
		end := min(offset+s.opts.chunkSize, len(img))
		err := s.SendFragment(scan.Fragment{
			FrameID:      frameID,
			Channel:      channel,
			Offset:       uint32(offset), //nolint:gosec
			BitsPerPixel: scan.SupportedBitsPerPixel,
			Data:         img[offset:end],
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// SendCameraFrame queues one camera frame on the data channel.
func (s *Server) SendCameraFrame(frame scan.CameraFrame) error {
	body, err := frame.MarshalBinary()
	if err != nil {
		return err
	}

	return s.SendData(scan.CameraFrameName, body)
}

// SyntheticImage returns a deterministic width x height 8-bit test pattern for channel.
func SyntheticImage(channel uint32, width, height int) []byte {
	img := make([]byte, width*height)
	for y := range height {
		for x := range width {
			img[y*width+x] = byte(x + y + int(channel)*64) //nolint:gosec
		}
	}

	return img
}
