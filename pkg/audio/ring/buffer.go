package ring

import (
	"errors"

	"github.com/smallnest/ringbuffer"
)

// Frames are stored size-prefixed in the underlying byte ring so variable
// sized chunks survive the round trip intact.
type rbBuffer struct {
	size int
	rb   *ringbuffer.RingBuffer
}

// Capacity implements Buffer.
func (r *rbBuffer) Capacity() int {
	return r.size
}

// Dequeue implements Buffer.
func (r *rbBuffer) Dequeue() (Frame, bool) {
	if r.rb.IsEmpty() {
		return Frame{}, false
	}

	sizeBytes := make([]byte, 4)
	n, err := r.rb.Read(sizeBytes)
	if err != nil || n != 4 {
		return Frame{}, false
	}

	size := int(sizeBytes[0]) | int(sizeBytes[1])<<8 | int(sizeBytes[2])<<16 | int(sizeBytes[3])<<24

	data := make([]byte, size)
	n, err = r.rb.Read(data)
	if err != nil || n != size {
		return Frame{}, false
	}

	var frame Frame
	if err := frame.UnmarshalBinary(data); err != nil {
		return Frame{}, false
	}

	return frame, true
}

// Enqueue implements Buffer.
func (r *rbBuffer) Enqueue(frame Frame) error {
	data, err := frame.MarshalBinary()
	if err != nil {
		return err
	}

	// data size + 4 bytes for the size prefix
	requiredSpace := len(data) + 4

	if requiredSpace > r.rb.Capacity() {
		return errors.New("audio frame too large for buffer")
	}

	// Evict old frames until the new one fits.
	for r.rb.Free() < requiredSpace {
		if !r.dropOldestFrame() {
			// Prefix bookkeeping is broken, start over.
			r.rb.Reset()
			break
		}
	}

	sizeBytes := make([]byte, 4)
	sizeBytes[0] = byte(len(data))
	sizeBytes[1] = byte(len(data) >> 8)
	sizeBytes[2] = byte(len(data) >> 16)
	sizeBytes[3] = byte(len(data) >> 24)

	if _, err := r.rb.Write(sizeBytes); err != nil {
		return err
	}

	_, err = r.rb.Write(data)
	return err
}

// dropOldestFrame removes the oldest complete frame from the ring.
func (r *rbBuffer) dropOldestFrame() bool {
	if r.rb.IsEmpty() {
		return false
	}

	sizeBytes := make([]byte, 4)
	n, err := r.rb.Read(sizeBytes)
	if err != nil || n != 4 {
		return false
	}

	size := int(sizeBytes[0]) | int(sizeBytes[1])<<8 | int(sizeBytes[2])<<16 | int(sizeBytes[3])<<24

	if size > 0 {
		skip := make([]byte, size)
		n, err := r.rb.Read(skip)
		if err != nil || n != size {
			return false
		}
	}

	return true
}

// Flush implements Buffer.
func (r *rbBuffer) Flush(ch chan<- Frame) error {
	defer close(ch)

	for !r.rb.IsEmpty() {
		frame, ok := r.Dequeue()
		if !ok {
			break
		}

		select {
		case ch <- frame:
		default:
			return errors.New("channel blocked during flush")
		}
	}

	return nil
}

// Len implements Buffer.
func (r *rbBuffer) Len() int {
	return r.rb.Length()
}

// PeekN implements Buffer.
func (r *rbBuffer) PeekN(n int32) []Frame {
	result := make([]Frame, 0, n)

	if r.rb.IsEmpty() {
		return result
	}

	// Replay the ring contents through a scratch buffer so nothing is consumed.
	tempRB := ringbuffer.New(r.rb.Capacity())

	buf := make([]byte, r.rb.Length())
	r.rb.Bytes(buf)
	tempRB.Write(buf)

	count := int32(0)
	for count < n && !tempRB.IsEmpty() {
		sizeBytes := make([]byte, 4)
		readN, err := tempRB.Read(sizeBytes)
		if err != nil || readN != 4 {
			break
		}

		size := int(sizeBytes[0]) | int(sizeBytes[1])<<8 | int(sizeBytes[2])<<16 | int(sizeBytes[3])<<24

		data := make([]byte, size)
		readN, err = tempRB.Read(data)
		if err != nil || readN != size {
			break
		}

		var frame Frame
		if err := frame.UnmarshalBinary(data); err != nil {
			break
		}

		result = append(result, frame)
		count++
	}

	return result
}

func New(size int) Buffer {
	return &rbBuffer{
		size: size,
		rb:   ringbuffer.New(size).SetBlocking(false), // non-blocking so overflow evicts instead of stalling
	}
}
