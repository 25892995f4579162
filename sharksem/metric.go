package sharksem

import (
	"sync/atomic"

	"github.com/arloliu/go-sharksem/scan"
)

// SessionMetrics contains atomic metrics for a session.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type SessionMetrics struct {
	// CommandSendCount indicates the number of commands written to the control channel.
	CommandSendCount atomic.Uint64
	// RequestCount indicates the number of replies read from the control channel.
	RequestCount atomic.Uint64
	// ErrCount indicates the number of failed Send, Request and Fetch calls.
	ErrCount atomic.Uint64

	// DataMsgRecvCount indicates the number of messages read from the data channel.
	DataMsgRecvCount atomic.Uint64
	// FragmentAcceptCount indicates the number of fragments and camera frames accepted.
	FragmentAcceptCount atomic.Uint64
	// FragmentRewindCount indicates the number of fragments that rewound an image.
	FragmentRewindCount atomic.Uint64
	// FragmentDiscardCount indicates the number of data messages discarded.
	FragmentDiscardCount atomic.Uint64
	// ImageCount indicates the number of complete images and camera frames fetched.
	ImageCount atomic.Uint64
}

func (m *SessionMetrics) incCommandSendCount() {
	m.CommandSendCount.Add(1)
}

func (m *SessionMetrics) incRequestCount() {
	m.RequestCount.Add(1)
}

func (m *SessionMetrics) incErrCount() {
	m.ErrCount.Add(1)
}

func (m *SessionMetrics) incImageCount() {
	m.ImageCount.Add(1)
}

// observe is the scan.Observer feeding the data channel counters.
func (m *SessionMetrics) observe(ev scan.Event) {
	m.DataMsgRecvCount.Add(1)

	switch {
	case ev.Verdict == scan.Rewound:
		m.FragmentRewindCount.Add(1)
		m.FragmentAcceptCount.Add(1)
	case ev.Verdict.Discarded():
		m.FragmentDiscardCount.Add(1)
	default:
		m.FragmentAcceptCount.Add(1)
	}
}
