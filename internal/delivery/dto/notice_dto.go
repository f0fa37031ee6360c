package dto

import "strings"

type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is the one shape every user-visible outcome takes, whether it is rendered
// in the page banner, carried across a redirect, or shown as a table row.
type Notice struct {
	Level   NoticeLevel
	Message string
}

func ErrorNotice(message string) *Notice {
	return &Notice{Level: NoticeError, Message: message}
}

func SuccessNotice(message string) *Notice {
	return &Notice{Level: NoticeSuccess, Message: message}
}

func InfoNotice(message string) *Notice {
	return &Notice{Level: NoticeInfo, Message: message}
}

// EncodeFlash flattens a notice into the session flash value.
func EncodeFlash(n *Notice) string {
	if n == nil || n.Message == "" {
		return ""
	}
	return string(n.Level) + ":" + n.Message
}

// DecodeFlash is the inverse of EncodeFlash. A value without a known level prefix
// is shown as an info notice.
func DecodeFlash(s string) *Notice {
	if s == "" {
		return nil
	}
	level, message, ok := strings.Cut(s, ":")
	if ok {
		switch NoticeLevel(level) {
		case NoticeError, NoticeSuccess, NoticeInfo:
			return &Notice{Level: NoticeLevel(level), Message: message}
		}
	}
	return InfoNotice(s)
}
