package domain

type ActionKind string

const (
	CLICK      ActionKind = "CLICK"
	TYPE       ActionKind = "TYPE"
	KEY_PRESS  ActionKind = "KEY_PRESS"
	DRAG       ActionKind = "DRAG"
	SCROLL     ActionKind = "SCROLL"
	LAUNCH     ActionKind = "LAUNCH"
	FILE_OP    ActionKind = "FILE_OP"
	SYSTEM_CMD ActionKind = "SYSTEM_CMD"
)

// ActionRequest is what the caller wants the input executor to perform.
type ActionRequest struct {
	ID         string     `validate:"required"`
	Command    string     `validate:"required"`
	Kind       ActionKind `validate:"required,oneof=CLICK TYPE KEY_PRESS DRAG SCROLL LAUNCH FILE_OP SYSTEM_CMD"`
	TargetApp  string
	Targets    []ClickTarget
	Parameters map[string]string
}
