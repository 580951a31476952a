package queue

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// A forwarder blocked sending on the shared channel must exit when the
// consume loop's done channel closes, otherwise every reconnect leaks
// one goroutine per queue holding an in-flight message.
func TestForward_ExitsOnDoneWhileBlocked(t *testing.T) {
	msgs := make(chan amqp.Delivery, 1)
	deliveries := make(chan delivery) // no reader, the send blocks
	done := make(chan struct{})
	exited := make(chan struct{})

	msgs <- amqp.Delivery{Body: []byte("{}")}
	go func() {
		forward(BookingQueueName, msgs, deliveries, done)
		close(exited)
	}()

	time.Sleep(10 * time.Millisecond) // let the forwarder block on the send
	close(done)

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not exit after done closed")
	}
}

// A forwarder returns once its own delivery stream closes, after passing
// every message through tagged with its queue name.
func TestForward_DrainsStreamThenReturns(t *testing.T) {
	msgs := make(chan amqp.Delivery, 2)
	deliveries := make(chan delivery, 2)
	done := make(chan struct{})
	exited := make(chan struct{})

	msgs <- amqp.Delivery{Body: []byte("a")}
	msgs <- amqp.Delivery{Body: []byte("b")}
	close(msgs)

	go func() {
		forward(ReminderQueueName, msgs, deliveries, done)
		close(exited)
	}()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not return after its stream closed")
	}
	if got := len(deliveries); got != 2 {
		t.Fatalf("forwarded deliveries: got %d, want 2", got)
	}
	d := <-deliveries
	if d.queue != ReminderQueueName {
		t.Fatalf("queue name: got %q, want %q", d.queue, ReminderQueueName)
	}
}
