package service

import (
	"strings"
)

const fence = "```"

// ExtractJSON pulls the JSON text out of a model reply. A block fenced with
// ```json wins; otherwise the first fenced block of any kind is used;
// otherwise the whole reply. A missing closing fence takes the rest of the
// reply. The language tag of a generic block is not stripped.
func ExtractJSON(reply string) string {
	if _, after, ok := strings.Cut(reply, fence+"json"); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(reply, fence); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}
	return reply
}
