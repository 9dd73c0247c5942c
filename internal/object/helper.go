package object

import (
	"bytes"
	"fmt"
	"lox/internal/util"
)

// RenderStacktrace formats a runtime error against the source it came from.
func RenderStacktrace(rtErr *RuntimeError, src string) string {
	var buf bytes.Buffer

	l, c := util.GetLineAndColumn(src, rtErr.Position)
	fmt.Fprintf(&buf, "RuntimeError: [%d:%d] %s\n\n", l, c, rtErr.Message)
	buf.WriteString(util.GetContextLines(src, l, c, rtErr.Kind.Error()))

	if len(rtErr.StackTrace) > 0 {
		buf.WriteString("\n\nStack trace:")
		for _, frame := range rtErr.StackTrace {
			l, c := util.GetLineAndColumn(src, frame.Position)
			fmt.Fprintf(&buf, "\n  at [%3d:%3d] %s", l, c, frame.Function)
		}
	}

	return buf.String()
}
