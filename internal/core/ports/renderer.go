package ports

import "time"

// Renderer presents command progress to the user.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnPhaseStart is called when a phase such as "Resolving versions" begins.
	OnPhaseStart(id, name string, startTime time.Time)

	// OnPhaseComplete is called when a phase ends. err is nil on success.
	OnPhaseComplete(id string, endTime time.Time, err error)

	// OnSummary reports how many packages were downloaded and how long the command took.
	OnSummary(downloaded int, elapsed time.Duration)
}
