package main

import (
	"fmt"
	"io"
	"sync"
)

const (
	keyFirst  = "MsgKey1"
	keySecond = "MsgKey2"

	initialText = "No Received"
)

// textMessage is the message type exchanged between the demo views.
type textMessage struct {
	Key   string
	Value string
}

// textView mimics a bound UI label: it shows the last value it received.
type textView struct {
	mu   sync.Mutex
	name string
	text string
}

func newTextView(name string) *textView {
	return &textView{name: name, text: initialText}
}

func (v *textView) Receive(msg textMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.text = msg.Value
}

func (v *textView) Text() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.text
}

func (v *textView) Render(w io.Writer) {
	fmt.Fprintf(w, "%s: %s\n", v.name, v.Text())
}
