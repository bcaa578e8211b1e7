package agent

import (
	"sync"

	"github.com/spetersoncode/aiagent/fsutil"
)

// promptLoader resolves the system prompt once per agent.
// A failed file read is not cached, so a later call can succeed.
type promptLoader struct {
	source SystemPrompt

	mu     sync.Mutex
	loaded bool
	text   string
}

func (p *promptLoader) load() (string, error) {
	if p.source.File == "" {
		return p.source.Text, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.text, nil
	}

	text, err := fsutil.ReadNonEmptyText(p.source.File)
	if err != nil {
		return "", err
	}
	p.text, p.loaded = text, true
	return text, nil
}
