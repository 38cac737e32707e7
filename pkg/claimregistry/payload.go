package claimregistry

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

const (
	dataURLPrefix    = "data:application/json;base64,"
	dataURLPartCount = 2
)

type wrappedPayload struct {
	Content string `json:"c"`
}

// EncodeMessage marshals message as registry JSON. With compress set, the
// JSON is brotli-compressed and wrapped in a base64 data URL.
func EncodeMessage(message Message, compress bool) ([]byte, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registry message: %w", err)
	}
	if !compress {
		return payload, nil
	}

	var buffer bytes.Buffer
	writer := brotli.NewWriterLevel(&buffer, brotli.BestCompression)
	if _, err := writer.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to compress registry message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress registry message: %w", err)
	}

	return json.Marshal(wrappedPayload{
		Content: dataURLPrefix + base64.StdEncoding.EncodeToString(buffer.Bytes()),
	})
}

// DecodeMessage parses a registry message, unwrapping compressed payloads.
func DecodeMessage(payload []byte) (Message, error) {
	unwrapped, err := unwrapPayload(payload)
	if err != nil {
		return Message{}, err
	}

	var message Message
	if err := json.Unmarshal(unwrapped, &message); err != nil {
		return Message{}, fmt.Errorf("failed to decode registry message: %w", err)
	}
	message.P = strings.TrimSpace(message.P)
	message.Holder = strings.TrimSpace(message.Holder)
	message.Topic = strings.ToLower(strings.TrimSpace(message.Topic))
	message.Value = strings.TrimSpace(message.Value)
	return message, nil
}

func unwrapPayload(payload []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' || !bytes.Contains(trimmed, []byte(`"c"`)) {
		return payload, nil
	}

	var wrapped wrappedPayload
	if err := json.Unmarshal(trimmed, &wrapped); err != nil || strings.TrimSpace(wrapped.Content) == "" {
		return payload, nil
	}

	content := strings.TrimSpace(wrapped.Content)
	parts := strings.SplitN(content, ",", dataURLPartCount)
	if !strings.HasPrefix(content, "data:") || len(parts) != dataURLPartCount {
		return nil, fmt.Errorf("unsupported wrapped registry payload format")
	}
	if !strings.Contains(strings.ToLower(parts[0]), ";base64") {
		return nil, fmt.Errorf("wrapped registry payload must be base64 encoded")
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode wrapped registry payload: %w", err)
	}

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(decoded)))
	if err == nil && len(decompressed) > 0 {
		return decompressed, nil
	}
	return decoded, nil
}
