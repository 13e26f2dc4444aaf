package lesson

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-lessons/engine/loader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/spin"
)

// LessonBuilderOption is a functional option applied to a lesson during construction via New.
type LessonBuilderOption func(*lessonImpl)

// WithLogf replaces the log sink used for setup failures and skipped frames.
//
// Parameters:
//   - logf: a printf-style logger
//
// Returns:
//   - LessonBuilderOption: a function that applies the option to a lesson
func WithLogf(logf func(format string, args ...any)) LessonBuilderOption {
	return func(l *lessonImpl) {
		if logf != nil {
			l.logf = logf
		}
	}
}

// WithClock replaces the monotonic clock that times drags, cue cooldowns and log rate
// limiting.
//
// Parameters:
//   - clock: the clock to read
//
// Returns:
//   - LessonBuilderOption: a function that applies the option to a lesson
func WithClock(clock spin.Clock) LessonBuilderOption {
	return func(l *lessonImpl) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithShaderFS replaces the embedded shader files. Config.Shader is resolved against fsys.
//
// Parameters:
//   - fsys: the file system holding WGSL sources
//
// Returns:
//   - LessonBuilderOption: a function that applies the option to a lesson
func WithShaderFS(fsys fs.FS) LessonBuilderOption {
	return func(l *lessonImpl) {
		l.shaders = fsys
	}
}

// WithLoader shares a model loader, and its mesh cache, between lessons.
//
// Parameters:
//   - ld: the loader used for mesh geometry
//
// Returns:
//   - LessonBuilderOption: a function that applies the option to a lesson
func WithLoader(ld loader.Loader) LessonBuilderOption {
	return func(l *lessonImpl) {
		l.loader = ld
	}
}

// WithCue sets the cue an interactive lesson plays when spun fast, instead of loading
// Config.CuePath.
//
// Parameters:
//   - cue: the cue to play
//
// Returns:
//   - LessonBuilderOption: a function that applies the option to a lesson
func WithCue(cue spin.Cue) LessonBuilderOption {
	return func(l *lessonImpl) {
		l.cue = cue
	}
}

// WithSkipHook registers a function called once for every skipped frame.
//
// Parameters:
//   - hook: called after the skip is counted
//
// Returns:
//   - LessonBuilderOption: a function that applies the option to a lesson
func WithSkipHook(hook func()) LessonBuilderOption {
	return func(l *lessonImpl) {
		l.onSkip = hook
	}
}
