package recommend

import (
	"regexp"
	"strings"
)

// blockedPatterns match adversarial instruction fragments that must never
// reach the completion prompt. All are applied case-insensitively across
// multiline spans.
var blockedPatterns = []*regexp.Regexp{
	// Classic override phrases.
	regexp.MustCompile(`(?is)ignore (all )?previous instructions`),
	regexp.MustCompile(`(?is)ignore (the )?above`),
	regexp.MustCompile(`(?is)disregard (the )?above`),
	regexp.MustCompile(`(?is)overwrite instructions`),
	regexp.MustCompile(`(?is)reset (the )?conversation`),
	regexp.MustCompile(`(?is)do as user says`),
	regexp.MustCompile(`(?is)as a system prompt`),
	regexp.MustCompile(`(?is)as an ai language model`),
	// Role changes.
	regexp.MustCompile(`(?is)you are now `),
	regexp.MustCompile(`(?is)from now on `),
	regexp.MustCompile(`(?is)pretend to be `),
	// Restriction bypasses.
	regexp.MustCompile(`(?is)bypass restrictions`),
	regexp.MustCompile(`(?is)break character`),
	regexp.MustCompile(`(?is)respond in [A-Za-z]+ (only)?`),
	// Delimiter or code injection.
	regexp.MustCompile("(?is)``````"),
	regexp.MustCompile(`(?is)<.*?>`),
	regexp.MustCompile(`(?is)\{.*?\}`),
	regexp.MustCompile(`(?is)\[.*?\]`),
	// Dangerous commands and function calls.
	regexp.MustCompile(`(?is)exit\(\)`),
	regexp.MustCompile(`(?is)quit`),
	regexp.MustCompile(`(?is)run (this )?code`),
	regexp.MustCompile(`(?is)execute (the )?following`),
	// Direct manipulation.
	regexp.MustCompile(`(?is)repeat after me`),
	regexp.MustCompile(`(?is)ignore safety`),
	regexp.MustCompile(`(?is)respond with`),
	regexp.MustCompile(`(?is)write a prompt`),
}

// Sanitize strips adversarial instruction patterns from free text before it
// is embedded in the recommendation prompt.
func Sanitize(text string) string {
	for _, pat := range blockedPatterns {
		text = pat.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}
