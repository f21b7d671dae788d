package caster

import "encoding/json"

// ChannelCaster converts values to and from the strings carried on pubsub
// channels and browser websockets.
type ChannelCaster[T any] interface {
	From(string) (T, error)
	To(T) (string, error)
}

type JSONChannelCaster[T any] struct{}

func (jc JSONChannelCaster[T]) From(data string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(data), &v)
	return v, err
}

func (jc JSONChannelCaster[T]) To(v T) (string, error) {
	data, err := json.Marshal(v)
	return string(data), err
}

// Envelope tags a message pushed to the dashboard page.
type Envelope[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

func Wrap[T any](kind string, v T) Envelope[T] {
	return Envelope[T]{Type: kind, Payload: v}
}
