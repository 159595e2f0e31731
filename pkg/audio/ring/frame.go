package ring

import (
	"encoding/binary"
	"time"
)

// Frame is a chunk of captured PCM audio.
type Frame struct {
	Data       []byte
	Timestamp  time.Time
	SampleRate int32
	Channels   int16
}

// Duration reports how long the frame plays for, assuming 16-bit samples.
func (f *Frame) Duration() time.Duration {
	if f.SampleRate == 0 || f.Channels == 0 {
		return 0
	}
	samples := len(f.Data) / 2 / int(f.Channels)
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate)
}

func (f *Frame) MarshalBinary() ([]byte, error) {
	// Format: timestamp(8) + sampleRate(4) + channels(2) + dataLen(4) + data
	buf := make([]byte, 8+4+2+4+len(f.Data))

	offset := 0
	binary.LittleEndian.PutUint64(buf[offset:], uint64(f.Timestamp.UnixNano()))
	offset += 8

	binary.LittleEndian.PutUint32(buf[offset:], uint32(f.SampleRate))
	offset += 4

	binary.LittleEndian.PutUint16(buf[offset:], uint16(f.Channels))
	offset += 2

	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(f.Data)))
	offset += 4

	copy(buf[offset:], f.Data)

	return buf, nil
}

func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < 18 { // minimum size: 8+4+2+4
		return nil
	}

	offset := 0

	timestamp := int64(binary.LittleEndian.Uint64(data[offset:]))
	f.Timestamp = time.Unix(0, timestamp)
	offset += 8

	f.SampleRate = int32(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	f.Channels = int16(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2

	dataLen := binary.LittleEndian.Uint32(data[offset:])
	offset += 4

	if len(data[offset:]) >= int(dataLen) {
		f.Data = make([]byte, dataLen)
		copy(f.Data, data[offset:offset+int(dataLen)])
	}

	return nil
}

// Buffer holds captured frames between the capture source and the
// recognizer. Oldest frames are evicted when the buffer fills up, so a slow
// recognizer costs old audio instead of blocking capture.
type Buffer interface {
	Enqueue(frame Frame) error
	Dequeue() (Frame, bool)
	PeekN(n int32) []Frame
	Len() int
	Capacity() int
	Flush(ch chan<- Frame) error
}
