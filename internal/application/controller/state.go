package controller

// State 提交控制器的显示状态
type State int

const (
	// Idle 初始状态，只显示表单
	Idle State = iota
	// Generating 有一次生成正在进行，禁止再次提交
	Generating
	// Success 最近一次生成成功
	Success
	// Failed 最近一次生成失败
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
