package safety

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"vision-pilot/domain"

	"github.com/samber/lo"
)

var criticalPatterns = []string{
	`(?i)\b(delete|format|shutdown|restart|reboot|erase|wipe)\b`,
	`(?i)\bdelete\s+.*\bsystem\b`,
	`(?i)\bformat\s+[c-z]:`,
	`(?i)\brm\s+-rf\s+/`,
	`(?i)\bdel\s+/[qsf]\s+`,
	`(?i)\bshutdown\s+/[sir]`,
	`(?i)\brestart\s+/[fr]`,
	`(?i)\breg\s+delete\s+`,
	`(?i)\bregsvr32\s+`,
	`(?i)\bpowershell\s+.*\bremove\b`,
	`(?i)\bcmd\s+.*\b/c\b.*\bdel\b`,
	`(?i)\btaskkill\s+.*\b/f\b`,
	`(?i)\bnet\s+user\s+.*\bdelete\b`,
}

var highPatterns = []string{
	`(?i)\b(install|uninstall|reinstall|setup|upgrade|downgrade)\b`,
	`(?i)\b(sudo|chmod|chown|msiexec|apt(-get)?|brew|winget|choco)\b`,
}

// systemCommands match whole words only: "dismiss" is not dism.
var systemCommands = regexp.MustCompile(`(?i)\b(` + strings.Join([]string{
	"fdisk", "diskpart", "bcdedit", "bcdboot", "sfc", "dism",
	"gpedit", "regedit", "registry", `hkey_\w*`, "reg", "terminal", "powershell", "cmd",
}, "|") + `)\b`)

var dangerousKeyCombos = []string{"ctrl+alt+del", "alt+f4", "win+r", "ctrl+shift+esc"}

var dangerousPaths = []string{
	`c:\windows\system32`,
	`c:\windows\syswow64`,
	`c:\program files`,
	`c:\windows`,
	`c:\boot`,
	`c:\recovery`,
	"/etc", "/usr/bin", "/boot", "/system",
}

// Classifier assigns a risk level to an action from its command text and
// parameters. Critical patterns win over high ones, high over medium.
type Classifier struct {
	critical []*regexp.Regexp
	high     []*regexp.Regexp
	keywords *KeywordFilter
}

// NewClassifier compiles the built-in patterns plus extra, which are
// classified critical. blockedKeywords raise any match to at least medium.
func NewClassifier(extra []string, blockedKeywords []string) (*Classifier, error) {
	critical, err := compileAll(append(append([]string(nil), criticalPatterns...), extra...))
	if err != nil {
		return nil, err
	}
	high, err := compileAll(highPatterns)
	if err != nil {
		return nil, err
	}
	keywords, err := NewKeywordFilter(blockedKeywords)
	if err != nil {
		return nil, fmt.Errorf("building keyword filter: %w", err)
	}
	return &Classifier{critical: critical, high: high, keywords: keywords}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid dangerous pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Classify returns the risk of action and a reason naming what matched.
func (c *Classifier) Classify(action domain.ActionRequest) (domain.RiskLevel, string) {
	text := actionText(action)

	if re, ok := lo.Find(c.critical, func(re *regexp.Regexp) bool { return re.MatchString(text) }); ok {
		return domain.CRITICAL, fmt.Sprintf("destructive pattern %q matched", re.FindString(text))
	}
	if re, ok := lo.Find(c.high, func(re *regexp.Regexp) bool { return re.MatchString(text) }); ok {
		return domain.HIGH, fmt.Sprintf("installation pattern %q matched", re.FindString(text))
	}

	lower := strings.ToLower(text)
	switch {
	case action.Kind == domain.SYSTEM_CMD || action.Kind == domain.FILE_OP:
		return domain.MEDIUM, fmt.Sprintf("%s actions touch the system", strings.ToLower(string(action.Kind)))
	case containsAny(lower, dangerousPaths):
		return domain.MEDIUM, "command references a protected path"
	case containsAny(lower, dangerousKeyCombos):
		return domain.MEDIUM, "dangerous key combination"
	case systemCommands.MatchString(lower):
		return domain.MEDIUM, fmt.Sprintf("system command %q", systemCommands.FindString(lower))
	}
	if found := c.keywords.Find(text); len(found) > 0 {
		return domain.MEDIUM, fmt.Sprintf("blocked keyword %q", found[0])
	}
	return domain.LOW, "no dangerous pattern"
}

// actionText is everything the executor could act on: the command, the
// target application and the parameters, sorted by key.
func actionText(action domain.ActionRequest) string {
	parts := []string{action.Command}
	if action.TargetApp != "" {
		parts = append(parts, action.TargetApp)
	}
	keys := lo.Keys(action.Parameters)
	slices.Sort(keys)
	for _, k := range keys {
		parts = append(parts, action.Parameters[k])
	}
	return strings.Join(parts, " ")
}

func containsAny(text string, needles []string) bool {
	return lo.SomeBy(needles, func(n string) bool { return strings.Contains(text, n) })
}
