// Package hub fans preview traffic out to websocket viewers. A single Run
// goroutine owns the viewer set; producers never block on slow viewers.
package hub

// Kind tells the write pump which websocket frame type to use.
type Kind int

const (
	// KindFrame is an encoded JPEG, sent as a binary frame.
	KindFrame Kind = iota
	// KindStatus is a JSON run snapshot, sent as a text frame.
	KindStatus
)

func (k Kind) String() string {
	if k == KindStatus {
		return "status"
	}
	return "frame"
}

// Message is one unit of fan-out. Data is shared between viewers and must
// not be modified after it is queued.
type Message struct {
	Kind Kind
	Data []byte
}
