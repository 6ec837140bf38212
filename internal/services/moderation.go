package services

import (
	"regexp"
)

// bannedWords are rejected in member-written text shown publicly on a club
// page (review comments, gallery captions).
var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

const (
	ReasonLanguage    = "inappropriate_language"
	ReasonURL         = "url_not_allowed"
	ReasonContactInfo = "contact_info_not_allowed"
	ReasonSpam        = "spam_detected"
)

var rejectionMessages = map[string]string{
	ReasonLanguage:    "contains inappropriate language",
	ReasonURL:         "must not contain links",
	ReasonContactInfo: "must not contain contact information",
	ReasonSpam:        "looks like spam",
}

// Moderator screens short public texts. It is safe for concurrent use.
type Moderator struct {
	banned []*regexp.Regexp
	url    *regexp.Regexp
	email  *regexp.Regexp
	phone  *regexp.Regexp
}

func NewModerator() *Moderator {
	m := &Moderator{
		banned: make([]*regexp.Regexp, 0, len(bannedWords)),
		url:    regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		email:  regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z]{2,}\b`),
		phone:  regexp.MustCompile(`(?:\d[\s.-]?){9,}\d`),
	}
	for _, word := range bannedWords {
		m.banned = append(m.banned, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return m
}

// Check returns "" when text is acceptable, otherwise one of the Reason
// constants.
func (m *Moderator) Check(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range m.banned {
		if re.MatchString(text) {
			return ReasonLanguage
		}
	}
	switch {
	case m.url.MatchString(text):
		return ReasonURL
	case m.email.MatchString(text), m.phone.MatchString(text):
		return ReasonContactInfo
	case longestRun(text) >= 5:
		return ReasonSpam
	}
	return ""
}

// Message is the field message for a rejection reason.
func (m *Moderator) Message(reason string) string {
	if msg, ok := rejectionMessages[reason]; ok {
		return msg
	}
	return "does not meet the content guidelines"
}

// longestRun is the length of the longest run of one repeated rune.
func longestRun(text string) int {
	longest, run := 0, 0
	var prev rune = -1
	for _, r := range text {
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
