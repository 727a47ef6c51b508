package services

import (
	"regexp"
)

var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot",
	"porn", "porno", "nudes",
	"viagra", "casino",
}

// ContentFilter screens free text sent through public forms.
type ContentFilter struct {
	banned   []*regexp.Regexp
	link     *regexp.Regexp
	maxLinks int
	maxRun   int
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{
		link:     regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		maxLinks: 3,
		maxRun:   10,
	}
	for _, word := range bannedWords {
		f.banned = append(f.banned, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return f
}

// Check returns a rejection message, or "" when the text is acceptable.
func (f *ContentFilter) Check(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range f.banned {
		if re.MatchString(text) {
			return "Your message contains inappropriate language."
		}
	}
	if len(f.link.FindAllString(text, -1)) > f.maxLinks {
		return "Your message contains too many links."
	}
	if longestRun(text) >= f.maxRun {
		return "Your message appears to be spam."
	}
	return ""
}

func longestRun(s string) int {
	longest, run := 0, 0
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
