package imagegen

import "strings"

// SystemInstruction precedes every user instruction sent upstream.
const SystemInstruction = "Edit the following image according to this instruction. " +
	"Return only the edited image without captions or text."

// BuildInstruction composes the text part sent next to the image.
func BuildInstruction(prompt string) string {
	var b strings.Builder
	b.WriteString(SystemInstruction)
	b.WriteString("\nInstruction: ")
	b.WriteString(strings.TrimSpace(prompt))
	return b.String()
}
