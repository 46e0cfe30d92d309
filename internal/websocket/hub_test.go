// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestKnownChannel(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{ChannelTrending, true},
		{ChannelWordCloud, true},
		{ChannelNews, true},
		{ChannelHistory, true},
		{ChannelAll, true},
		{"", false},
		{"Trending", false},
		{"metadata", false},
	}
	for _, tc := range cases {
		if got := KnownChannel(tc.name); got != tc.want {
			t.Errorf("KnownChannel(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMessageWireFormat(t *testing.T) {
	t.Run("error text rides the message field", func(t *testing.T) {
		raw, err := json.Marshal(Message{Type: MessageTypeError, Error: "unknown channel: x"})
		if err != nil {
			t.Fatal(err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatal(err)
		}
		if decoded["message"] != "unknown channel: x" {
			t.Errorf("frame = %s", raw)
		}
		if _, ok := decoded["error"]; ok {
			t.Errorf("unexpected error key in %s", raw)
		}
	})

	t.Run("empty fields are omitted", func(t *testing.T) {
		raw, err := json.Marshal(Message{Type: MessageTypePong})
		if err != nil {
			t.Fatal(err)
		}
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatal(err)
		}
		if len(decoded) != 1 || decoded["type"] != MessageTypePong {
			t.Errorf("frame = %s", raw)
		}
	})

	t.Run("stamp fills a missing timestamp only", func(t *testing.T) {
		if got := stamp(Message{Type: MessageTypePong}); got.Timestamp == "" {
			t.Error("timestamp not filled")
		}
		keep := stamp(Message{Type: MessageTypePong, Timestamp: "2026-03-15T12:00:00Z"})
		if keep.Timestamp != "2026-03-15T12:00:00Z" {
			t.Errorf("timestamp rewritten to %q", keep.Timestamp)
		}
	})
}

// testClient builds a hub-attachable client without a real connection.
func testClient(channel string, buffer int) *Client {
	return &Client{
		id:      clientIDCounter.Add(1),
		channel: channel,
		send:    make(chan Message, buffer),
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()
	return hub, cancel, done
}

func recv(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return Message{}
	}
}

func TestHub(t *testing.T) {
	t.Run("broadcast reaches the channel and all listeners", func(t *testing.T) {
		hub, cancel, done := startHub(t)
		defer func() { cancel(); <-done }()

		trending := testClient(ChannelTrending, 4)
		news := testClient(ChannelNews, 4)
		everything := testClient(ChannelAll, 4)
		for _, c := range []*Client{trending, news, everything} {
			hub.Register <- c
		}
		if n := hub.GetClientCount(); n != 3 {
			t.Fatalf("client count = %d, want 3", n)
		}

		hub.Broadcast(ChannelTrending, Message{Type: MessageTypeUpdate, Channel: ChannelTrending})

		got := recv(t, trending)
		if got.Channel != ChannelTrending || got.Timestamp == "" {
			t.Errorf("trending frame = %+v", got)
		}
		if all := recv(t, everything); all.Channel != ChannelTrending {
			t.Errorf("all-listener frame = %+v", all)
		}

		select {
		case msg := <-news.send:
			t.Errorf("news client received a trending frame: %+v", msg)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("a full client buffer drops instead of blocking", func(t *testing.T) {
		hub, cancel, done := startHub(t)
		defer func() { cancel(); <-done }()

		slow := testClient(ChannelNews, 1)
		fast := testClient(ChannelNews, 4)
		hub.Register <- slow
		hub.Register <- fast

		hub.Broadcast(ChannelNews, Message{Type: MessageTypeUpdate, Data: "first"})
		hub.Broadcast(ChannelNews, Message{Type: MessageTypeUpdate, Data: "second"})

		if got := recv(t, fast); got.Data != "first" {
			t.Errorf("fast first frame = %+v", got)
		}
		if got := recv(t, fast); got.Data != "second" {
			t.Errorf("fast second frame = %+v", got)
		}
		// The slow client keeps its first frame; the second was dropped.
		if got := recv(t, slow); got.Data != "first" {
			t.Errorf("slow frame = %+v", got)
		}
	})

	t.Run("unregister closes the send channel", func(t *testing.T) {
		hub, cancel, done := startHub(t)
		defer func() { cancel(); <-done }()

		c := testClient(ChannelAll, 1)
		hub.Register <- c
		hub.Unregister <- c

		select {
		case _, open := <-c.send:
			if open {
				t.Error("send channel still open after unregister")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("send channel never closed")
		}
		if n := hub.GetClientCount(); n != 0 {
			t.Errorf("client count = %d after unregister", n)
		}
	})

	t.Run("shutdown closes every client", func(t *testing.T) {
		hub, cancel, done := startHub(t)

		c := testClient(ChannelAll, 1)
		hub.Register <- c
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}

		if _, open := <-c.send; open {
			t.Error("client send channel survived shutdown")
		}
	})
}
