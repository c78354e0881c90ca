// Package netplay carries the game over the wire: newline-delimited JSON
// frames on TCP for the session, UDP broadcast beacons for LAN discovery,
// and the single-slot input mailbox that decouples the network goroutines
// from the simulation tick.
package netplay

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/AhmadAC/Fence-Game/internal/geom"
	"github.com/AhmadAC/Fence-Game/internal/sim"
)

const (
	// ServiceTag identifies this game on the wire; both the discovery
	// beacon and the session hello carry it.
	ServiceTag = "fence-duel/1"

	DefaultTCPPort = 5555
	DefaultUDPPort = 5556

	TickRate     = 60
	TickInterval = time.Second / TickRate

	BroadcastInterval = time.Second
	SearchTimeout     = 5 * time.Second

	readChunkSize = 4096
)

// Hello is the first frame a host sends on a fresh connection. It carries
// the map so both ends share one fence layout with stable ids, and tells
// the client which player slot it drives.
type Hello struct {
	Service  string       `json:"service"`
	PlayerID int          `json:"player_id"`
	Fences   []geom.Rect  `json:"fences"`
	Starts   [][2]float64 `json:"starts"`
}

// InputFrame is the client→host message: the intent for one tick.
type InputFrame struct {
	Input *sim.Intent `json:"input"`
}

// FrameWriter emits newline-terminated JSON frames.
type FrameWriter struct {
	w io.Writer
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame marshals v and writes it as one frame, returning the number of
// bytes put on the wire.
func (fw *FrameWriter) WriteFrame(v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return fw.WriteRaw(payload)
}

// WriteRaw frames an already-marshaled payload. The payload must not
// contain a newline.
func (fw *FrameWriter) WriteRaw(payload []byte) (int, error) {
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, payload...)
	buf = append(buf, '\n')
	return fw.w.Write(buf)
}

// FrameReader splits a byte stream into newline-terminated frames. Partial
// frames are buffered across reads and multiple frames arriving in one read
// are handed out one at a time.
type FrameReader struct {
	r       io.Reader
	buf     bytes.Buffer
	scratch []byte
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, scratch: make([]byte, readChunkSize)}
}

// Next returns the payload of the next complete frame, without the
// terminating newline. On stream error any trailing partial frame is
// discarded; a partial frame is never delivered.
func (fr *FrameReader) Next() ([]byte, error) {
	for {
		if line, ok := fr.takeLine(); ok {
			return line, nil
		}
		n, err := fr.r.Read(fr.scratch)
		if n > 0 {
			fr.buf.Write(fr.scratch[:n])
			continue
		}
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
}

func (fr *FrameReader) takeLine() ([]byte, bool) {
	raw := fr.buf.Bytes()
	idx := bytes.IndexByte(raw, '\n')
	if idx < 0 {
		return nil, false
	}
	line := make([]byte, idx)
	copy(line, raw[:idx])
	fr.buf.Next(idx + 1)
	return line, true
}
