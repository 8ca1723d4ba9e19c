package refresh

import (
	"math"
	"time"
)

// AnimationID uniquely identifies an animation within its registry.
type AnimationID uint64

// EasingFunc defines how animation progress maps to value progress.
// Input t is 0-1 (time progress), output is 0-1 (value progress).
type EasingFunc func(t float64) float64

// DecelerateFactor is the strength of the decelerate curve used by the
// trigger and settle animations.
const DecelerateFactor = 2.0

// Common easing functions
var (
	// EaseLinear - constant speed
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	// EaseDecelerate - starts fast and slows down toward the end
	EaseDecelerate EasingFunc = func(t float64) float64 {
		return 1 - math.Pow(1-t, 2*DecelerateFactor)
	}

	// EaseOutCubic - smooth deceleration (good for UI)
	EaseOutCubic EasingFunc = func(t float64) float64 {
		t--
		return t*t*t + 1
	}
)

// Animation represents one running animation.
type Animation struct {
	id         AnimationID
	startTime  time.Time
	duration   time.Duration
	update     func(progress float64) // Called each frame with eased progress 0-1
	onComplete func()                 // Called when animation finishes
	easing     EasingFunc
	loop       bool // If true, animation repeats until cancelled
	cancelled  bool
	done       bool
}

// ID returns the animation's unique identifier.
func (a *Animation) ID() AnimationID {
	return a.id
}

// Cancel stops the animation. Neither update nor completion callbacks fire
// after Cancel returns.
func (a *Animation) Cancel() {
	if a != nil {
		a.cancelled = true
	}
}

// IsCancelled returns whether the animation was cancelled.
func (a *Animation) IsCancelled() bool {
	return a.cancelled
}

// Running reports whether the animation will still receive frames.
func (a *Animation) Running() bool {
	return a != nil && !a.cancelled && !a.done
}

// ============================================================================
// Animation Registry
// ============================================================================

// AnimationRegistry owns the running animations of one container and advances
// them once per frame. It is not safe for concurrent use: every call happens
// on the UI goroutine.
type AnimationRegistry struct {
	now        func() time.Time
	nextID     AnimationID
	animations []*Animation
}

// NewAnimationRegistry creates a registry that stamps animation start times
// with now. A nil clock means time.Now.
func NewAnimationRegistry(now func() time.Time) *AnimationRegistry {
	if now == nil {
		now = time.Now
	}
	return &AnimationRegistry{now: now}
}

// Add registers a new animation.
func (r *AnimationRegistry) Add(anim *Animation) {
	r.nextID++
	anim.id = r.nextID
	r.animations = append(r.animations, anim)
}

// HasActive returns true if there are any running animations.
func (r *AnimationRegistry) HasActive() bool {
	for _, anim := range r.animations {
		if anim.Running() {
			return true
		}
	}
	return false
}

// Count returns the number of running animations.
func (r *AnimationRegistry) Count() int {
	n := 0
	for _, anim := range r.animations {
		if anim.Running() {
			n++
		}
	}
	return n
}

// CancelAll cancels every registered animation without firing callbacks.
func (r *AnimationRegistry) CancelAll() {
	for _, anim := range r.animations {
		anim.Cancel()
	}
	r.animations = nil
}

// Tick updates all animations and removes completed ones.
// Called once per frame. Returns true if any animations are still active.
func (r *AnimationRegistry) Tick(now time.Time) bool {
	// Callbacks may add or cancel animations, so walk a snapshot.
	snapshot := make([]*Animation, len(r.animations))
	copy(snapshot, r.animations)

	var completed []*Animation

	for _, anim := range snapshot {
		if anim.cancelled || anim.done {
			continue
		}

		elapsed := now.Sub(anim.startTime)
		if elapsed < 0 {
			elapsed = 0
		}

		if elapsed >= anim.duration {
			if anim.loop {
				// Reset for next loop iteration
				anim.startTime = now
				elapsed = 0
			} else {
				anim.done = true
				// Final update at 100%
				if anim.update != nil {
					anim.update(anim.easing(1.0))
				}
				completed = append(completed, anim)
				continue
			}
		}

		t := 1.0
		if anim.duration > 0 {
			t = float64(elapsed) / float64(anim.duration)
		}
		if t > 1 {
			t = 1
		}
		if anim.update != nil {
			anim.update(anim.easing(t))
		}
	}

	// Completion callbacks run after every update of this frame
	for _, anim := range completed {
		if anim.onComplete != nil && !anim.cancelled {
			anim.onComplete()
		}
	}

	live := r.animations[:0]
	for _, anim := range r.animations {
		if anim.Running() {
			live = append(live, anim)
		}
	}
	for i := len(live); i < len(r.animations); i++ {
		r.animations[i] = nil
	}
	r.animations = live

	return len(r.animations) > 0
}

// ============================================================================
// Animation Builder API
// ============================================================================

// AnimationBuilder provides a fluent API for creating animations.
type AnimationBuilder struct {
	registry   *AnimationRegistry
	duration   time.Duration
	easing     EasingFunc
	loop       bool
	onComplete func()
}

// Animate starts building an animation in this registry.
func (r *AnimationRegistry) Animate() *AnimationBuilder {
	return &AnimationBuilder{
		registry: r,
		duration: 300 * time.Millisecond, // Default duration
		easing:   EaseOutCubic,           // Default easing (smooth UI feel)
	}
}

// Duration sets how long the animation runs.
func (b *AnimationBuilder) Duration(d time.Duration) *AnimationBuilder {
	b.duration = d
	return b
}

// Easing sets the easing function.
func (b *AnimationBuilder) Easing(fn EasingFunc) *AnimationBuilder {
	b.easing = fn
	return b
}

// Loop makes the animation repeat forever until cancelled.
func (b *AnimationBuilder) Loop() *AnimationBuilder {
	b.loop = true
	return b
}

// OnComplete sets a callback for when the animation finishes.
func (b *AnimationBuilder) OnComplete(fn func()) *AnimationBuilder {
	b.onComplete = fn
	return b
}

// ValueFromTo animates a scalar between two values and hands every
// interpolated value to apply.
func (b *AnimationBuilder) ValueFromTo(from, to float64, apply func(value float64)) *Animation {
	return b.Custom(func(progress float64) {
		apply(lerp(from, to, progress))
	})
}

// Custom creates an animation with a custom update function.
// The update function receives progress from 0-1.
func (b *AnimationBuilder) Custom(update func(progress float64)) *Animation {
	anim := &Animation{
		startTime:  b.registry.now(),
		duration:   b.duration,
		easing:     b.easing,
		loop:       b.loop,
		onComplete: b.onComplete,
		update:     update,
	}

	b.registry.Add(anim)
	return anim
}

// lerp linearly interpolates between two values.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
