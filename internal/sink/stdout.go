package sink

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Stdout writes notifications as JSON lines to an io.Writer (default
// os.Stdout). Used for dry runs and local debugging.
type Stdout struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStdout creates a Stdout sink. If w is nil, os.Stdout is used.
func NewStdout(w io.Writer) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	return &Stdout{enc: json.NewEncoder(w)}
}

type stdoutLine struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

func (s *Stdout) Send(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(stdoutLine{Time: time.Now().UTC(), Message: message})
}
