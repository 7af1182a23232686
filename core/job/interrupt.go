package job

import (
	"errors"
	"os"
	"os/signal"
	"sync"

	"github.com/tevino/abool/v2"
)

// ErrInterrupted is returned when a wait was cancelled by an interrupt.
var ErrInterrupted = errors.New("interrupted")

// Signal is a cancellation flag shared by everything that waits on a job.
// Done returns a channel that is closed while the flag is raised.
type Signal struct {
	raised *abool.AtomicBool

	mu   sync.Mutex
	done chan struct{}
}

// NewSignal creates a lowered signal.
func NewSignal() *Signal {
	return &Signal{
		raised: abool.New(),
		done:   make(chan struct{}),
	}
}

// Interrupt is the process-wide signal raised by Ctrl-C.
var Interrupt = NewSignal()

// Raise sets the flag and wakes every waiter.
func (s *Signal) Raise() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raised.SetToIf(false, true) {
		close(s.done)
	}
}

// Clear lowers the flag so new waits block again.
func (s *Signal) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raised.SetToIf(true, false) {
		s.done = make(chan struct{})
	}
}

// IsRaised reports whether there has been an interrupt since the last Clear.
func (s *Signal) IsRaised() bool {
	return s.raised.IsSet()
}

// Done returns a channel closed when the signal is raised.
func (s *Signal) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// ListenInterrupts raises sig on every os.Interrupt until the returned stop
// function is called.
func ListenInterrupts(sig *Signal) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	// Closed by stop to ask the relay to quit.
	quit := make(chan struct{})
	// Closed by the relay once it has quit.
	stopped := make(chan struct{})

	go func() {
	loop:
		for {
			select {
			case <-sigCh:
				sig.Raise()
			case <-quit:
				break loop
			}
		}
		signal.Stop(sigCh)
		close(stopped)
	}()

	return func() {
		close(quit)
		<-stopped
	}
}
