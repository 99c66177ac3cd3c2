package event

// Publisher decouples services from the message broker. The mq package
// provides the RabbitMQ implementation; tests inject stubs.
type Publisher interface {
	Publish(topic string, msg interface{}) error
}

// NopPublisher drops every event. Used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) error { return nil }
