package progrock

import (
	"bytes"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/dem/internal/core/ports"
)

// LogSink is a progrock.Writer that forwards vertex output to a logger, one line
// at a time, prefixed with the vertex name. Standard output is logged as info and
// error output as warnings.
type LogSink struct {
	logger ports.Logger

	mu      sync.Mutex
	names   map[string]string
	partial map[streamKey]*bytes.Buffer
}

type streamKey struct {
	vertex string
	stream progrock.LogStream
}

// NewLogSink creates a LogSink writing to logger.
func NewLogSink(logger ports.Logger) *LogSink {
	return &LogSink{
		logger:  logger,
		names:   make(map[string]string),
		partial: make(map[streamKey]*bytes.Buffer),
	}
}

// WriteStatus implements progrock.Writer.
func (s *LogSink) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range update.Vertexes {
		s.names[v.Id] = v.Name
	}

	for _, l := range update.Logs {
		key := streamKey{vertex: l.Vertex, stream: l.Stream}
		buf, ok := s.partial[key]
		if !ok {
			buf = &bytes.Buffer{}
			s.partial[key] = buf
		}
		buf.Write(l.Data)
		for {
			line, err := buf.ReadString('\n')
			if err != nil {
				buf.Reset()
				buf.WriteString(line)
				break
			}
			s.emit(key, strings.TrimRight(line, "\r\n"))
		}
	}

	for _, v := range update.Vertexes {
		if v.Completed != nil {
			s.flushVertex(v.Id)
		}
	}
	return nil
}

// Close implements progrock.Writer and flushes any incomplete lines.
func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.partial {
		s.flush(key)
	}
	return nil
}

func (s *LogSink) flushVertex(id string) {
	for key := range s.partial {
		if key.vertex == id {
			s.flush(key)
		}
	}
}

func (s *LogSink) flush(key streamKey) {
	buf := s.partial[key]
	if buf.Len() > 0 {
		s.emit(key, buf.String())
	}
	delete(s.partial, key)
}

func (s *LogSink) emit(key streamKey, line string) {
	msg := line
	if name := s.names[key.vertex]; name != "" {
		msg = name + " | " + line
	}
	if key.stream == progrock.LogStream_STDERR {
		s.logger.Warn(msg)
		return
	}
	s.logger.Info(msg)
}
