package engine

import (
	"os"

	"github.com/cheggaaa/pb/v3"
)

const barTemplate = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// progress is a nil-safe wrapper so callers need not check Options.Progress.
type progress struct {
	bar *pb.ProgressBar
}

func newProgress(enabled bool, name string, total int) *progress {
	if !enabled || total == 0 {
		return &progress{}
	}
	bar := pb.ProgressBarTemplate(barTemplate).New(total)
	bar.Set("prefix", name)
	bar.SetWriter(os.Stderr)
	bar.Start()
	return &progress{bar: bar}
}

func (p *progress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
