package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptGhostStoryV1 PromptID = "ghost_story_v1"
)

// Messages 一次调用的系统指令与用户输入
type Messages struct {
	System string
	User   string
}

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]string
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]string),
	}
}

// System 返回固定的系统指令
func (r *Registry) System(id PromptID) (string, error) {
	if r == nil {
		return "", fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if text, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return text, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if text, ok := r.cache[id]; ok {
		return text, nil
	}

	path, err := resolveSystemFile(id)
	if err != nil {
		return "", err
	}
	text, err := readEmbeddedText(path)
	if err != nil {
		return "", err
	}
	r.cache[id] = text
	return text, nil
}

// Build 组装消息，用户提示词原样作为唯一变量输入
func (r *Registry) Build(id PromptID, userPrompt string) (Messages, error) {
	system, err := r.System(id)
	if err != nil {
		return Messages{}, err
	}
	return Messages{System: system, User: userPrompt}, nil
}

func resolveSystemFile(id PromptID) (string, error) {
	switch id {
	case PromptGhostStoryV1:
		return "templates/ghost_story_v1.system.txt", nil
	default:
		return "", fmt.Errorf("unknown prompt id: %s", id)
	}
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
