package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishIsScopedToTopic(t *testing.T) {
	h := NewHub()
	a := h.Subscribe("client-a")
	b := h.Subscribe("client-b")
	defer h.Unsubscribe("client-a", a)
	defer h.Unsubscribe("client-b", b)

	h.Publish("client-a", "hello")

	assert.Equal(t, "hello", <-a)
	select {
	case msg := <-b:
		t.Fatalf("client-b received %q", msg)
	default:
	}
}

func TestHub_DropsWhenSubscriberIsSlow(t *testing.T) {
	h := NewHub()
	ch := h.Subscribe("c")
	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish("c", "evt")
	}
	assert.Len(t, ch, subscriberBuffer)
	h.Unsubscribe("c", ch)
	assert.Zero(t, h.Subscribers("c"))
}

func TestMakeEvent(t *testing.T) {
	raw := MakeEvent("req-1", TypeToastShown, 1, map[string]string{"id": "t1"})

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, TypeToastShown, e.Type)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, "req-1", e.RequestID)
	assert.JSONEq(t, `{"id":"t1"}`, string(e.Data))
	assert.False(t, e.At.IsZero())
}
