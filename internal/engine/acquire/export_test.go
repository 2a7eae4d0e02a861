package acquire

// SetLimit overrides the number of concurrent downloads.
func (p *Pipeline) SetLimit(n int) {
	p.limit = n
}

// StageOf exposes stageOf for testing.
var StageOf = stageOf
