// Package controller 提供提交控制器：维护一次会话的表单与结果状态
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ghost-story/internal/domain/entity"
	"ghost-story/pkg/logger"
)

// SlowWarningDelay 生成仍未结束时显示慢速提示的等待时间
const SlowWarningDelay = 15 * time.Second

// 状态迁移错误
var (
	ErrBusy           = errors.New("a story is already being generated")
	ErrNothingToRetry = errors.New("nothing to retry")
	ErrClosed         = errors.New("controller closed")
	ErrInvalidState   = errors.New("invalid session state")
)

// Generator 生成调用抽象；返回 error 表示调用本身失败（网络、解码等）
type Generator interface {
	Generate(ctx context.Context, prompt string) (entity.GenerationResult, error)
}

// GeneratorFunc 函数适配 Generator
type GeneratorFunc func(ctx context.Context, prompt string) (entity.GenerationResult, error)

// Generate 实现 Generator
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (entity.GenerationResult, error) {
	return f(ctx, prompt)
}

// StoryGateway 进程内的生成网关
type StoryGateway interface {
	Generate(ctx context.Context, prompt string) entity.GenerationResult
}

// Local 把进程内网关适配为 Generator
func Local(gw StoryGateway) Generator {
	return GeneratorFunc(func(ctx context.Context, prompt string) (entity.GenerationResult, error) {
		return gw.Generate(ctx, prompt), nil
	})
}

// Attempt 一次提交的凭据，用于识别过期的结果
type Attempt struct {
	seq    uint64
	prompt string
}

// Prompt 本次提交的提示词
func (a Attempt) Prompt() string {
	return a.prompt
}

// SessionState 会话显示状态；CurrentStory 与 Error 至多一个非空
type SessionState struct {
	CurrentStory *string
	IsGenerating bool
	Error        *string
	LastPrompt   string
	SlowWarning  bool
	Retryable    bool
}

// Snapshot 某一时刻的状态副本
type Snapshot struct {
	State State
	SessionState
}

// Controller 单会话提交控制器，同一时间只允许一次生成
type Controller struct {
	gen Generator

	mu      sync.Mutex
	state   State
	session SessionState
	seq     uint64
	closed  bool
}

// New 创建提交控制器
func New(gen Generator) *Controller {
	return &Controller{gen: gen}
}

// Begin 校验提示词并进入 Generating；校验失败时状态不变
func (c *Controller) Begin(prompt string) (Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Attempt{}, ErrClosed
	}
	if c.state == Generating {
		return Attempt{}, ErrBusy
	}
	if err := ValidatePrompt(prompt); err != nil {
		return Attempt{}, err
	}
	return c.startLocked(prompt), nil
}

// BeginRetry 以上次记录的提示词重新进入 Generating，仅允许在 Failed 状态调用
func (c *Controller) BeginRetry() (Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Attempt{}, ErrClosed
	}
	if c.state == Generating {
		return Attempt{}, ErrBusy
	}
	if c.state != Failed || c.session.LastPrompt == "" {
		return Attempt{}, ErrNothingToRetry
	}
	return c.startLocked(c.session.LastPrompt), nil
}

func (c *Controller) startLocked(prompt string) Attempt {
	c.seq++
	c.state = Generating
	c.session = SessionState{
		IsGenerating: true,
		LastPrompt:   prompt,
	}
	return Attempt{seq: c.seq, prompt: prompt}
}

// Run 调用生成器并应用结果；生成器 panic 按未知错误处理
func (c *Controller) Run(ctx context.Context, a Attempt) Snapshot {
	var (
		res entity.GenerationResult
		err error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("generator panic: %v", r)
			}
		}()
		res, err = c.gen.Generate(ctx, a.prompt)
	}()
	return c.Complete(a, res, err)
}

// Complete 应用一次生成的结果；过期或已关闭的结果被忽略
func (c *Controller) Complete(a Attempt, res entity.GenerationResult, err error) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || a.seq != c.seq || c.state != Generating {
		logger.Debug(context.Background(), "discarding stale generation outcome", "attempt", a.seq, "current", c.seq)
		return c.snapshotLocked()
	}

	c.session.IsGenerating = false
	c.session.SlowWarning = false

	switch {
	case err != nil:
		msg := DescribeFailure(err)
		logger.Warn(context.Background(), "generation call failed", "error", err.Error())
		c.fail(msg, true)
	case res.IsSuccess():
		story := res.Story
		c.state = Success
		c.session.CurrentStory = &story
		c.session.Error = nil
		c.session.Retryable = false
	default:
		c.fail(res.Error, res.Retryable)
	}
	return c.snapshotLocked()
}

func (c *Controller) fail(msg string, retryable bool) {
	c.state = Failed
	c.session.CurrentStory = nil
	c.session.Error = &msg
	c.session.Retryable = retryable
}

// Submit 同步提交：Begin 后立即 Run
func (c *Controller) Submit(ctx context.Context, prompt string) (Snapshot, error) {
	a, err := c.Begin(prompt)
	if err != nil {
		return c.Snapshot(), err
	}
	return c.Run(ctx, a), nil
}

// Retry 同步重试上次的提示词
func (c *Controller) Retry(ctx context.Context) (Snapshot, error) {
	a, err := c.BeginRetry()
	if err != nil {
		return c.Snapshot(), err
	}
	return c.Run(ctx, a), nil
}

// Reset 从 Success 或 Failed 回到 Idle，不调用生成器；其他状态下无效果
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Success || c.state == Failed {
		c.state = Idle
		c.session.CurrentStory = nil
		c.session.Error = nil
		c.session.Retryable = false
		c.session.SlowWarning = false
	}
	return c.snapshotLocked()
}

// MarkSlow 若该次提交仍在进行，显示慢速提示
func (c *Controller) MarkSlow(a Attempt) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed && a.seq == c.seq && c.state == Generating {
		c.session.SlowWarning = true
	}
	return c.snapshotLocked()
}

// Close 卸载会话，之后到达的结果与提示都被丢弃
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.seq++
	c.session.SlowWarning = false
}

// Restore 由无状态前端重建会话；进行中的生成无法恢复，恢复的提示词需通过表单校验
func (c *Controller) Restore(s Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.state == Generating {
		return ErrBusy
	}

	switch s.State {
	case Idle:
		if s.CurrentStory != nil || s.Error != nil {
			return ErrInvalidState
		}
	case Success:
		if s.CurrentStory == nil || s.Error != nil {
			return ErrInvalidState
		}
	case Failed:
		if s.Error == nil || s.CurrentStory != nil {
			return ErrInvalidState
		}
	default:
		return ErrInvalidState
	}

	// 隐藏字段可被篡改，提示词按表单规则重新校验
	if s.LastPrompt != "" {
		if err := ValidatePrompt(s.LastPrompt); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
	}

	c.state = s.State
	c.session = SessionState{
		CurrentStory: copyString(s.CurrentStory),
		Error:        copyString(s.Error),
		LastPrompt:   s.LastPrompt,
		Retryable:    s.Retryable,
	}
	return nil
}

// Snapshot 返回当前状态副本
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := c.session
	s.CurrentStory = copyString(s.CurrentStory)
	s.Error = copyString(s.Error)
	return Snapshot{State: c.state, SessionState: s}
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
