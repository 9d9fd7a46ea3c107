package fallback

import (
	"strings"

	"codeshape/internal/engine/model"
)

// LineNumber returns the 1-based line holding byte offset in text. Offsets
// outside the text are clamped.
func LineNumber(text string, offset int) int {
	return strings.Count(text[:clamp(offset, len(text))], "\n") + 1
}

func clamp(offset, limit int) int {
	if offset < 0 {
		return 0
	}
	if offset > limit {
		return limit
	}
	return offset
}

func position(text string, offset int) model.Position {
	offset = clamp(offset, len(text))
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	return model.Position{
		Line:   LineNumber(text, offset),
		Column: offset - lineStart + 1,
		Offset: offset,
	}
}

func spanOf(text string, start, end int) *model.Span {
	return &model.Span{Start: position(text, start), End: position(text, end)}
}
