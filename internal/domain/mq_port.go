package domain

import "context"

type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}
