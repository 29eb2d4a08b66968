package progression

import "fmt"

// Engine is the training-load progression and plateau-intervention
// engine. It holds only immutable configuration, so a single instance is
// safe for concurrent use; all per-user data is passed per call.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

func NewDefaultEngine() *Engine {
	return &Engine{cfg: DefaultConfig()}
}
