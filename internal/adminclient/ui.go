package adminclient

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"grocery-admin/internal/dto"
)

// Confirmer asks the operator a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Notifier shows a flash message to the operator. It is passed to every page helper
// explicitly; there is no process-wide flash state.
type Notifier interface {
	Notify(f *dto.Flash)
}

// Guard is the single pending-mutation flag of a page. Every mutating helper of the
// page shares it, so at most one mutation is in flight.
type Guard struct {
	mu      sync.Mutex
	pending bool
}

func (g *Guard) TryAcquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending {
		return false
	}
	g.pending = true
	return true
}

func (g *Guard) Release() {
	g.mu.Lock()
	g.pending = false
	g.mu.Unlock()
}

func (g *Guard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// PromptConfirmer reads y/N answers from In.
type PromptConfirmer struct {
	In  *bufio.Reader
	Out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{In: bufio.NewReader(in), Out: out}
}

func (p *PromptConfirmer) Confirm(_ context.Context, prompt string) bool {
	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)
	line, err := p.In.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "ya":
		return true
	}
	return false
}

// AutoConfirm answers every prompt with the same value.
type AutoConfirm bool

func (a AutoConfirm) Confirm(context.Context, string) bool { return bool(a) }

// WriterNotifier prints flashes as "[type] message" lines.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(f *dto.Flash) {
	if f == nil {
		return
	}
	fmt.Fprintf(n.W, "[%s] %s\n", f.Type, f.Message)
}

// flashFor turns a request error into the flash shown to the operator.
func flashFor(err error) *dto.Flash {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Flash != nil && len(apiErr.Fields) == 0 {
			return apiErr.Flash
		}
		return dto.Error(apiErr.Error())
	}
	return dto.Error("Permintaan gagal: " + err.Error())
}
