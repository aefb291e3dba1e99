package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func sampleEvents(connID string) []Event {
	value := uint8(0x01)
	code := uint8(5)
	now := time.Now()

	return []Event{
		{
			Timestamp:    now,
			ConnectionID: connID,
			Direction:    DirectionOut,
			Layer:        LayerTransport,
			Category:     CategoryMessage,
			Frame:        &FrameEvent{Size: 14, Data: []byte("DTH:123456,01;")},
		},
		{
			Timestamp:    now.Add(10 * time.Millisecond),
			ConnectionID: connID,
			Direction:    DirectionIn,
			Layer:        LayerWire,
			Category:     CategoryMessage,
			Message:      &MessageEvent{Keyword: "DTH", Address: "123456", Value: &value},
		},
		{
			Timestamp:    now.Add(20 * time.Millisecond),
			ConnectionID: connID,
			Direction:    DirectionIn,
			Layer:        LayerWire,
			Category:     CategoryMessage,
			Message:      &MessageEvent{Keyword: "ERR", ErrorCode: &code},
		},
		{
			Timestamp:    now.Add(30 * time.Millisecond),
			ConnectionID: connID,
			Direction:    DirectionIn,
			Layer:        LayerService,
			Category:     CategoryState,
			StateChange:  &StateChangeEvent{OldState: "CONNECTING", NewState: "CONNECTED"},
		},
	}
}

func TestFileLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error: %v", err)
	}

	events := sampleEvents("conn-1")
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// Log after Close is silently ignored.
	logger.Log(events[0])

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error: %v", err)
	}
	defer reader.Close()

	got, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}

	if got[0].Frame == nil || string(got[0].Frame.Data) != "DTH:123456,01;" {
		t.Errorf("event 0 frame = %+v, want raw message text", got[0].Frame)
	}
	if got[1].Message == nil || got[1].Message.Keyword != "DTH" {
		t.Errorf("event 1 message = %+v, want DTH keyword", got[1].Message)
	}
	if got[2].Message == nil || got[2].Message.ErrorCode == nil || *got[2].Message.ErrorCode != 5 {
		t.Errorf("event 2 message = %+v, want error code 5", got[2].Message)
	}
	if got[3].StateChange == nil || got[3].StateChange.NewState != "CONNECTED" {
		t.Errorf("event 3 state change = %+v, want CONNECTED", got[3].StateChange)
	}
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error: %v", err)
	}
	for _, e := range sampleEvents("conn-1") {
		logger.Log(e)
	}
	for _, e := range sampleEvents("conn-2") {
		logger.Log(e)
	}
	logger.Close()

	wireLayer := LayerWire
	reader, err := NewFilteredReader(path, Filter{
		ConnectionID: "conn-2",
		Layer:        &wireLayer,
	})
	if err != nil {
		t.Fatalf("NewFilteredReader() error: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}
		if event.ConnectionID != "conn-2" {
			t.Errorf("ConnectionID = %q, want conn-2", event.ConnectionID)
		}
		if event.Layer != LayerWire {
			t.Errorf("Layer = %v, want WIRE", event.Layer)
		}
		count++
	}
	if count != 2 {
		t.Errorf("matched %d events, want 2", count)
	}
}

func TestEncodeDecodeEvent(t *testing.T) {
	event := sampleEvents("conn-x")[1]

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent() error: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent() error: %v", err)
	}
	if decoded.ConnectionID != "conn-x" {
		t.Errorf("ConnectionID = %q, want conn-x", decoded.ConnectionID)
	}
	if decoded.Message == nil || decoded.Message.Address != "123456" {
		t.Errorf("Message = %+v, want address 123456", decoded.Message)
	}
}
