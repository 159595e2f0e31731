package ring

import (
	"testing"
	"time"
)

func TestBufferRoundTrip(t *testing.T) {
	buffer := New(1024)

	if buffer.Capacity() != 1024 {
		t.Errorf("Expected capacity 1024, got %d", buffer.Capacity())
	}

	if buffer.Len() != 0 {
		t.Errorf("Expected empty buffer, got length %d", buffer.Len())
	}

	frame := Frame{
		Data:       []byte{1, 2, 3, 4, 5},
		Timestamp:  time.Now(),
		SampleRate: 16000,
		Channels:   1,
	}

	if err := buffer.Enqueue(frame); err != nil {
		t.Errorf("Failed to enqueue: %v", err)
	}

	if buffer.Len() == 0 {
		t.Error("Buffer should not be empty after enqueue")
	}

	dequeued, ok := buffer.Dequeue()
	if !ok {
		t.Error("Failed to dequeue")
	}

	if len(dequeued.Data) != len(frame.Data) {
		t.Errorf("Expected data length %d, got %d", len(frame.Data), len(dequeued.Data))
	}

	for i, b := range dequeued.Data {
		if b != frame.Data[i] {
			t.Errorf("Data mismatch at index %d: expected %d, got %d", i, frame.Data[i], b)
		}
	}

	if dequeued.SampleRate != frame.SampleRate {
		t.Errorf("Expected sample rate %d, got %d", frame.SampleRate, dequeued.SampleRate)
	}

	if dequeued.Channels != frame.Channels {
		t.Errorf("Expected channels %d, got %d", frame.Channels, dequeued.Channels)
	}
}

func TestBufferPeekAndFlush(t *testing.T) {
	buffer := New(1024)

	for i := 0; i < 3; i++ {
		frame := Frame{
			Data:       []byte{byte(i), byte(i + 1), byte(i + 2)},
			Timestamp:  time.Now().Add(time.Duration(i) * time.Millisecond),
			SampleRate: 16000,
			Channels:   1,
		}
		if err := buffer.Enqueue(frame); err != nil {
			t.Errorf("Failed to enqueue frame %d: %v", i, err)
		}
	}

	peeked := buffer.PeekN(2)
	if len(peeked) != 2 {
		t.Errorf("Expected 2 peeked frames, got %d", len(peeked))
	}

	// Peek must not consume.
	if buffer.Len() == 0 {
		t.Error("Buffer should not be empty after peek")
	}

	ch := make(chan Frame, 10)
	if err := buffer.Flush(ch); err != nil {
		t.Errorf("Failed to flush: %v", err)
	}

	flushedCount := 0
	for range ch {
		flushedCount++
	}

	if flushedCount != 3 {
		t.Errorf("Expected 3 flushed frames, got %d", flushedCount)
	}

	if buffer.Len() != 0 {
		t.Errorf("Buffer should be empty after flush, got length %d", buffer.Len())
	}
}

func TestBufferEvictsOldestOnOverflow(t *testing.T) {
	// Each frame takes 26 bytes in the ring (22 marshalled + 4 size prefix),
	// so 60 bytes hold two frames and the third enqueue must evict the first.
	buffer := New(60)

	for i := 0; i < 3; i++ {
		frame := Frame{
			Data:       []byte{byte(10 * i), byte(10*i + 1), byte(10*i + 2), byte(10*i + 3)},
			Timestamp:  time.Now(),
			SampleRate: 16000,
			Channels:   1,
		}
		if err := buffer.Enqueue(frame); err != nil {
			t.Errorf("Failed to enqueue frame %d: %v", i, err)
		}
	}

	first, ok := buffer.Dequeue()
	if !ok {
		t.Fatal("Expected a frame after overflow")
	}
	if first.Data[0] != 10 {
		t.Errorf("Oldest frame should have been evicted on overflow, got leading byte %d", first.Data[0])
	}
}

func TestFrameSerialization(t *testing.T) {
	original := Frame{
		Data:       []byte{10, 20, 30, 40, 50},
		Timestamp:  time.Now(),
		SampleRate: 48000,
		Channels:   1,
	}

	data, err := original.MarshalBinary()
	if err != nil {
		t.Errorf("Failed to marshal: %v", err)
	}

	var restored Frame
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Errorf("Failed to unmarshal: %v", err)
	}

	if len(restored.Data) != len(original.Data) {
		t.Errorf("Expected data length %d, got %d", len(original.Data), len(restored.Data))
	}

	for i, b := range restored.Data {
		if b != original.Data[i] {
			t.Errorf("Data mismatch at index %d: expected %d, got %d", i, original.Data[i], b)
		}
	}

	if restored.SampleRate != original.SampleRate {
		t.Errorf("Expected sample rate %d, got %d", original.SampleRate, restored.SampleRate)
	}

	timeDiff := restored.Timestamp.Sub(original.Timestamp)
	if timeDiff < 0 {
		timeDiff = -timeDiff
	}
	if timeDiff > time.Microsecond {
		t.Errorf("Timestamp difference too large: %v", timeDiff)
	}
}
