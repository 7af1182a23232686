package logger

import (
	"encoding/json"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldTimestamp = "timestamp_micros"
	fieldSession   = "session_id"
)

// MarshalEntry encodes an entry as a protobuf JSON object with the event
// stored under its name.
func MarshalEntry(le *LogEntry) ([]byte, error) {
	fields := map[string]interface{}{
		fieldTimestamp: le.TimestampMicros,
		fieldSession:   le.SessionID,
	}

	if le.Event != nil {
		raw, err := json.Marshal(le.Event)
		if err != nil {
			return nil, err
		}
		var event map[string]interface{}
		if err := json.Unmarshal(raw, &event); err != nil {
			return nil, err
		}
		fields[le.Event.EventName()] = event
	}

	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(st)
}

// UnmarshalEntry decodes an entry written by MarshalEntry. Unknown events
// leave Event nil.
func UnmarshalEntry(data []byte) (*LogEntry, error) {
	var st structpb.Struct
	if err := protojson.Unmarshal(data, &st); err != nil {
		return nil, err
	}

	le := &LogEntry{}
	for name, field := range st.AsMap() {
		switch name {
		case fieldTimestamp:
			if ts, ok := field.(float64); ok {
				le.TimestampMicros = int64(ts)
			}
		case fieldSession:
			le.SessionID, _ = field.(string)
		default:
			newEvent, ok := eventTypes[name]
			if !ok {
				continue
			}
			raw, err := json.Marshal(field)
			if err != nil {
				return nil, err
			}
			event := newEvent()
			if err := json.Unmarshal(raw, event); err != nil {
				return nil, err
			}
			le.Event = event
		}
	}
	return le, nil
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		logEntry, err := UnmarshalEntry(rawEntry)
		if err != nil {
			return err
		}

		handler(logEntry)
	}
	return nil
}
