// Package progress defines the sink that loading and exporting report row
// progress to.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Sink receives row-count based progress. SetRange is called once before the
// first row, SetValue after every processed row.
type Sink interface {
	SetRange(min, max int)
	SetValue(value int)
}

// Nop discards all progress updates.
type Nop struct{}

func (Nop) SetRange(int, int) {}
func (Nop) SetValue(int)      {}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

// Func adapts a value callback into a Sink. The range is ignored.
type Func func(value int)

func (Func) SetRange(int, int)    {}
func (f Func) SetValue(value int) { f(value) }

// Bar renders progress as a terminal progress bar.
type Bar struct {
	bar *progressbar.ProgressBar
	min int
}

// NewBar creates a progress bar writing to w.
func NewBar(w io.Writer, description string) *Bar {
	return &Bar{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetPredictTime(false),
		),
	}
}

// SetRange resets the bar to the given range.
func (b *Bar) SetRange(min, max int) {
	b.min = min
	b.bar.Reset()
	b.bar.ChangeMax(max - min)
}

// SetValue moves the bar to value.
func (b *Bar) SetValue(value int) {
	_ = b.bar.Set(value - b.min)
}

// Finish completes and clears the bar.
func (b *Bar) Finish() error {
	return b.bar.Finish()
}
