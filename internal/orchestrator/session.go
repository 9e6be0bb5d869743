package orchestrator

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	fxerrors "github.com/dusk-indust/fxforge/internal/errors"
	"github.com/dusk-indust/fxforge/internal/llm"
	"github.com/dusk-indust/fxforge/internal/merge"
	"github.com/dusk-indust/fxforge/internal/runner"
	"github.com/dusk-indust/fxforge/internal/tools"
)

// ErrRunInProgress is returned when a run or preview is requested while
// another one has not resolved yet.
var ErrRunInProgress = errors.New("orchestrator: a run is already in progress")

// Dispatcher delivers callbacks on the UI thread.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) { f(fn) }

// Session is the asynchronous API a UI shell drives. Every operation runs on
// its own goroutine and every callback is delivered through the Dispatcher,
// never on the calling goroutine.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	dispatch Dispatcher
	runner   *runner.Runner
	files    *FileMerger
	gen      llm.Generator
	tools    *tools.Registry

	busy atomic.Bool
	wg   sync.WaitGroup

	mu      sync.Mutex
	preview *runner.PreviewHandle
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithGenerator sets the generation service used by Generate and Chat.
func WithGenerator(g llm.Generator) SessionOption {
	return func(s *Session) { s.gen = g }
}

// WithTools sets the registry that answers tool calls found in chat replies.
func WithTools(r *tools.Registry) SessionOption {
	return func(s *Session) { s.tools = r }
}

// NewSession creates a Session. Close releases it.
func NewSession(ctx context.Context, d Dispatcher, r *runner.Runner, files *FileMerger, opts ...SessionOption) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ctx:      ctx,
		cancel:   cancel,
		dispatch: d,
		runner:   r,
		files:    files,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Busy reports whether a run or preview is unresolved.
func (s *Session) Busy() bool { return s.busy.Load() }

// Run compiles and executes text. onSuccess or onError is posted when the
// request resolves. A second Run before that returns ErrRunInProgress.
func (s *Session) Run(text string, onSuccess func(), onError func(string)) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	s.spawn(func() {
		res, err := s.runner.Run(s.ctx, text)
		s.busy.Store(false)
		if err != nil {
			msg := runFailure(res, err)
			s.post(func() { call1(onError, msg) })
			return
		}
		log.Info().Str("request", res.RequestID).Msg("orchestrator: run succeeded")
		s.post(func() { call0(onSuccess) })
	})
	return nil
}

// Preview launches text as a live window. The previous preview, if any, is
// stopped first. onWindow receives the handle of the running preview.
func (s *Session) Preview(text string, onWindow func(*runner.PreviewHandle), onError func(string)) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	s.spawn(func() {
		s.StopPreview()
		s.runner.Preview(s.ctx, text, runner.PreviewCallbacks{
			OnWindow: func(h *runner.PreviewHandle) {
				s.mu.Lock()
				s.preview = h
				s.mu.Unlock()
				s.busy.Store(false)
				s.post(func() {
					if onWindow != nil {
						onWindow(h)
					}
				})
			},
			OnError: func(err error) {
				s.busy.Store(false)
				msg := err.Error()
				s.post(func() { call1(onError, msg) })
			},
		})
	})
	return nil
}

// StopPreview stops the current preview window, if any.
func (s *Session) StopPreview() {
	s.mu.Lock()
	h := s.preview
	s.preview = nil
	s.mu.Unlock()
	if h != nil {
		h.Stop()
	}
}

// Merge merges text into target. A directory target is scanned for the best
// file first. onDone always receives a result.
func (s *Session) Merge(target, text string, strategy merge.Strategy, onDone func(*MergeResult)) {
	s.spawn(func() {
		var res *MergeResult
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			res = s.files.MergeToProject(s.ctx, target, text, strategy)
		} else {
			res = s.files.MergeToFile(s.ctx, target, text, strategy)
		}
		s.post(func() {
			if onDone != nil {
				onDone(res)
			}
		})
	})
}

// Generate asks the generation service for code.
func (s *Session) Generate(prompt string, onText func(string), onError func(string)) {
	s.spawn(func() {
		if s.gen == nil {
			s.post(func() { call1(onError, "generate: no generation service configured") })
			return
		}
		code, err := s.gen.Generate(s.ctx, prompt)
		if err != nil {
			msg := err.Error()
			s.post(func() { call1(onError, msg) })
			return
		}
		s.post(func() { call1(onText, code) })
	})
}

// Chat sends a conversational message. A reply that encodes a tool call is
// answered by the tool registry and the tool's text is delivered instead.
func (s *Session) Chat(message string, onText func(string), onError func(string)) {
	s.spawn(func() {
		if s.gen == nil {
			s.post(func() { call1(onError, "generate: no generation service configured") })
			return
		}
		reply, err := s.gen.Chat(s.ctx, message)
		if err != nil {
			msg := err.Error()
			s.post(func() { call1(onError, msg) })
			return
		}
		if s.tools != nil && llm.IsToolCall(reply) {
			reply, err = s.dispatchTool(reply)
			if err != nil {
				msg := err.Error()
				s.post(func() { call1(onError, msg) })
				return
			}
		}
		s.post(func() { call1(onText, reply) })
	})
}

func (s *Session) dispatchTool(reply string) (string, error) {
	call, err := llm.ParseToolCall(reply)
	if err != nil {
		return "", err
	}
	log.Debug().Str("tool", call.Tool).Msg("orchestrator: dispatching tool call")
	return s.tools.Dispatch(s.ctx, call)
}

// Close cancels outstanding work, stops any preview and waits for every
// worker goroutine. Callbacks may still be posted while Close waits.
func (s *Session) Close() {
	s.cancel()
	s.StopPreview()
	s.wg.Wait()
}

func (s *Session) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Session) post(fn func()) {
	s.dispatch.Post(fn)
}

// runFailure renders a failed run for display, appending the captured
// process output when there is any.
func runFailure(res *runner.Result, err error) string {
	msg := err.Error()
	var exe *fxerrors.ExecutionError
	if errors.As(err, &exe) {
		if out := strings.TrimSpace(exe.Output); out != "" {
			return msg + "\n" + out
		}
		return msg
	}
	if res != nil && res.Execution != nil {
		if out := strings.TrimSpace(res.Execution.Output); out != "" {
			msg += "\n" + out
		}
	}
	return msg
}

func call0(fn func()) {
	if fn != nil {
		fn()
	}
}

func call1(fn func(string), v string) {
	if fn != nil {
		fn(v)
	}
}
