package matching

import (
	"strings"
	"vision-pilot/domain"
)

// openVerb launches an app only when nothing on screen matched: "open the
// file menu" is a click on the menu.
const openVerb = "open"

var verbs = []struct {
	prefix string
	kind   domain.ActionKind
}{
	{"double click", domain.CLICK},
	{"click", domain.CLICK},
	{"tap", domain.CLICK},
	{"press", domain.KEY_PRESS},
	{"type", domain.TYPE},
	{"write", domain.TYPE},
	{"enter", domain.TYPE},
	{"scroll", domain.SCROLL},
	{"drag", domain.DRAG},
	{"open", domain.LAUNCH},
	{"launch", domain.LAUNCH},
	{"start", domain.LAUNCH},
	{"delete", domain.FILE_OP},
	{"move", domain.FILE_OP},
	{"copy", domain.FILE_OP},
	{"rename", domain.FILE_OP},
	{"run", domain.SYSTEM_CMD},
	{"execute", domain.SYSTEM_CMD},
	{"shutdown", domain.SYSTEM_CMD},
	{"restart", domain.SYSTEM_CMD},
}

// InferActionKind reads the leading verb of the command, defaulting to a click.
// The remainder of the command is returned as the verb argument. hasTarget
// tells whether the analysis found something to click.
func InferActionKind(command string, hasTarget bool) (domain.ActionKind, string) {
	trimmed := strings.TrimSpace(command)
	lower := strings.ToLower(trimmed)
	for _, v := range verbs {
		if lower == v.prefix || strings.HasPrefix(lower, v.prefix+" ") {
			argument := strings.TrimSpace(trimmed[len(v.prefix):])
			if v.prefix == openVerb && hasTarget {
				return domain.CLICK, argument
			}
			return v.kind, argument
		}
	}
	return domain.CLICK, trimmed
}
