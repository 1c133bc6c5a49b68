package service

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// jsonCodec lets Connect carry the plain Go message structs in this package.
// It replaces Connect's default "json" codec, which only accepts protobuf messages.
type jsonCodec struct{}

// Name implements connect.Codec.
func (jsonCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// Codec returns the codec every SplitEase handler and client must use.
func Codec() connect.Codec {
	return jsonCodec{}
}
