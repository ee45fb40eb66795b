package llm

import (
	"regexp"
	"strings"
)

var (
	thinkBlock  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	thinkMarker = regexp.MustCompile(`</?think>`)
)

// StripReasoning 去掉推理模型输出的 <think>…</think> 段（可跨行）及落单的标记，并去除首尾空白
func StripReasoning(text string) string {
	text = thinkBlock.ReplaceAllString(text, "")
	text = thinkMarker.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
