// Package punch drives the capture of a single punch: open the camera, take
// the photo, resolve the position and submit the record.
package punch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/geo"
)

type State string

const (
	StateIdle       State = "idle"
	StateCameraOpen State = "camera_open"
	StateCaptured   State = "captured"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
	StateError      State = "error"
)

var transitions = map[State][]State{
	StateIdle:       {StateCameraOpen, StateError},
	StateCameraOpen: {StateCaptured, StateIdle, StateError},
	StateCaptured:   {StateSubmitting, StateCameraOpen, StateIdle},
	StateSubmitting: {StateDone, StateCaptured},
	StateDone:       {StateIdle},
	StateError:      {StateIdle},
}

var (
	ErrInvalidTransition = errors.New("punch: invalid state transition")
	ErrEmptyPhoto        = errors.New("punch: camera returned an empty frame")
)

// Camera is the front-facing video stream.
type Camera interface {
	Open(ctx context.Context) error
	// Capture grabs the current frame, already encoded as an image.
	Capture(ctx context.Context) ([]byte, error)
	Close() error
}

// Capture is everything collected before submission.
type Capture struct {
	Photo     []byte
	Position  geo.Position
	TakenAt   time.Time
	Type      entity.PunchType
	Signature string
	Mood      string
}

type Submitter interface {
	Submit(ctx context.Context, c *Capture) (*entity.PointRecord, error)
}

type Options struct {
	LocateTimeout time.Duration
	Now           func() time.Time
}

// Flow is the punch state machine. A failed submission returns the flow to
// captured so the same capture can be resubmitted; nothing retries on its own.
type Flow struct {
	camera    Camera
	locator   geo.Locator
	submitter Submitter
	opts      Options

	mu      sync.Mutex
	state   State
	capture *Capture
	record  *entity.PointRecord
	lastErr error
}

func NewFlow(camera Camera, locator geo.Locator, submitter Submitter, opts Options) *Flow {
	if opts.LocateTimeout <= 0 {
		opts.LocateTimeout = geo.DefaultLocateTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Flow{
		camera:    camera,
		locator:   locator,
		submitter: submitter,
		opts:      opts,
		state:     StateIdle,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Record() *entity.PointRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record
}

func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *Flow) moveLocked(to State) error {
	for _, allowed := range transitions[f.state] {
		if allowed == to {
			f.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.state, to)
}

func (f *Flow) OpenCamera(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle && f.state != StateCaptured {
		return fmt.Errorf("%w: cannot open camera from %s", ErrInvalidTransition, f.state)
	}

	if err := f.camera.Open(ctx); err != nil {
		f.lastErr = err
		f.state = StateError
		return err
	}
	f.capture = nil
	return f.moveLocked(StateCameraOpen)
}

// Capture takes the photo and resolves the position. Position failures fall
// back to geo.Fallback, so only the camera can fail this step.
func (f *Flow) Capture(ctx context.Context, typ entity.PunchType, signature, mood string) (*Capture, error) {
	f.mu.Lock()
	if f.state != StateCameraOpen {
		state := f.state
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot capture from %s", ErrInvalidTransition, state)
	}
	f.mu.Unlock()

	photo, err := f.camera.Capture(ctx)
	if err == nil && len(photo) == 0 {
		err = ErrEmptyPhoto
	}
	if err != nil {
		f.mu.Lock()
		f.lastErr = err
		f.state = StateError
		f.mu.Unlock()
		_ = f.camera.Close()
		return nil, err
	}
	_ = f.camera.Close()

	pos := geo.LocateOrFallback(ctx, f.locator, f.opts.LocateTimeout)
	c := &Capture{
		Photo:     photo,
		Position:  pos,
		TakenAt:   f.opts.Now(),
		Type:      typ,
		Signature: signature,
		Mood:      mood,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.moveLocked(StateCaptured); err != nil {
		return nil, err
	}
	f.capture = c
	return c, nil
}

// Submit writes the captured punch. On failure the flow goes back to
// captured and the error is returned for the caller to surface.
func (f *Flow) Submit(ctx context.Context) (*entity.PointRecord, error) {
	f.mu.Lock()
	if err := f.moveLocked(StateSubmitting); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	c := f.capture
	f.mu.Unlock()

	rec, err := f.submitter.Submit(ctx, c)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.lastErr = err
		f.state = StateCaptured
		return nil, err
	}
	f.record = rec
	f.lastErr = nil
	f.state = StateDone
	return rec, nil
}

// Reset returns a finished or failed flow to idle.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateCameraOpen {
		_ = f.camera.Close()
	}
	if err := f.moveLocked(StateIdle); err != nil {
		return err
	}
	f.capture = nil
	f.record = nil
	f.lastErr = nil
	return nil
}

// Run performs a whole punch: open, capture, submit.
func (f *Flow) Run(ctx context.Context, typ entity.PunchType, signature, mood string) (*entity.PointRecord, error) {
	if err := f.OpenCamera(ctx); err != nil {
		return nil, err
	}
	if _, err := f.Capture(ctx, typ, signature, mood); err != nil {
		return nil, err
	}
	return f.Submit(ctx)
}

// PayloadCamera is a Camera over an already captured frame, used when the
// photo was taken by the client and uploaded with the request.
type PayloadCamera struct {
	Frame  []byte
	opened bool
}

func (p *PayloadCamera) Open(ctx context.Context) error {
	p.opened = true
	return nil
}

func (p *PayloadCamera) Capture(ctx context.Context) ([]byte, error) {
	if !p.opened {
		return nil, errors.New("punch: camera not open")
	}
	return p.Frame, nil
}

func (p *PayloadCamera) Close() error {
	p.opened = false
	return nil
}
