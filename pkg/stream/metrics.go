package stream

import (
	"sync"

	"github.com/camoto-project/gamecommon/pkg/clock"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	streamOperationsPrometheusMetrics sync.Once

	streamOperationsDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gamecommon",
			Subsystem: "stream",
			Name:      "operations_duration_seconds",
			Help:      "Amount of time spent per stream operation, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 2, 20),
		},
		[]string{"stream_type", "operation"})
	streamOperationsSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gamecommon",
			Subsystem: "stream",
			Name:      "operations_size_bytes",
			Help:      "Number of bytes transferred per read or write operation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		},
		[]string{"stream_type", "operation"})
)

type metricsStream struct {
	base  Stream
	clock clock.Clock

	readDuration     prometheus.Observer
	readSize         prometheus.Observer
	writeDuration    prometheus.Observer
	writeSize        prometheus.Observer
	seekDuration     prometheus.Observer
	truncateDuration prometheus.Observer
	flushDuration    prometheus.Observer
}

// NewMetricsStream creates a decorator of Stream that exposes
// Prometheus metrics on the duration of every read, write, seek,
// truncate and flush performed against it, and on the number of bytes
// each read or write transfers. Size and Tell calls are not measured.
func NewMetricsStream(base Stream, clock clock.Clock, streamType string) Stream {
	streamOperationsPrometheusMetrics.Do(func() {
		prometheus.MustRegister(streamOperationsDurationSeconds)
		prometheus.MustRegister(streamOperationsSizeBytes)
	})

	durations := streamOperationsDurationSeconds.MustCurryWith(map[string]string{"stream_type": streamType})
	sizes := streamOperationsSizeBytes.MustCurryWith(map[string]string{"stream_type": streamType})
	return &metricsStream{
		base:  base,
		clock: clock,

		readDuration:     durations.WithLabelValues("Read"),
		readSize:         sizes.WithLabelValues("Read"),
		writeDuration:    durations.WithLabelValues("Write"),
		writeSize:        sizes.WithLabelValues("Write"),
		seekDuration:     durations.WithLabelValues("Seek"),
		truncateDuration: durations.WithLabelValues("Truncate"),
		flushDuration:    durations.WithLabelValues("Flush"),
	}
}

func (s *metricsStream) updateDuration(o prometheus.Observer, start int64) {
	o.Observe(float64(s.clock.Now().UnixNano()-start) / 1e9)
}

func (s *metricsStream) TryRead(p []byte) (int, error) {
	start := s.clock.Now().UnixNano()
	n, err := s.base.TryRead(p)
	s.updateDuration(s.readDuration, start)
	s.readSize.Observe(float64(n))
	return n, err
}

func (s *metricsStream) SeekRead(offset int64, whence Whence) error {
	start := s.clock.Now().UnixNano()
	err := s.base.SeekRead(offset, whence)
	s.updateDuration(s.seekDuration, start)
	return err
}

func (s *metricsStream) TellRead() int64 {
	return s.base.TellRead()
}

func (s *metricsStream) Size() (int64, error) {
	return s.base.Size()
}

func (s *metricsStream) TryWrite(p []byte) (int, error) {
	start := s.clock.Now().UnixNano()
	n, err := s.base.TryWrite(p)
	s.updateDuration(s.writeDuration, start)
	s.writeSize.Observe(float64(n))
	return n, err
}

func (s *metricsStream) SeekWrite(offset int64, whence Whence) error {
	start := s.clock.Now().UnixNano()
	err := s.base.SeekWrite(offset, whence)
	s.updateDuration(s.seekDuration, start)
	return err
}

func (s *metricsStream) TellWrite() int64 {
	return s.base.TellWrite()
}

func (s *metricsStream) Truncate(size int64) error {
	start := s.clock.Now().UnixNano()
	err := s.base.Truncate(size)
	s.updateDuration(s.truncateDuration, start)
	return err
}

func (s *metricsStream) Flush() error {
	start := s.clock.Now().UnixNano()
	err := s.base.Flush()
	s.updateDuration(s.flushDuration, start)
	return err
}
