package queue

import (
	"encoding/json"
	"time"
)

// MessageVersion is bumped whenever Message changes incompatibly.
const MessageVersion = 1

// Message announces that a resume record was stored.
type Message struct {
	ResumeID   int64  `json:"resumeId"`
	FileName   string `json:"fileName"`
	Rating     int    `json:"rating"`
	RequestID  string `json:"requestId,omitempty"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// NewMessage stamps a message with the current time and version.
func NewMessage(resumeID int64, fileName string, rating int, requestID string) Message {
	return Message{
		ResumeID:   resumeID,
		FileName:   fileName,
		Rating:     rating,
		RequestID:  requestID,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    MessageVersion,
	}
}

func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
