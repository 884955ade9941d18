package tool

import "github.com/CarlosCampa21/aura-api/pkg/domain/types"

// Kind is the closed set of tools the orchestrator can dispatch.
// Dispatch goes through KindOf and an exhaustive switch per variant so
// adding a tool is a compile-time-checked addition, not a string branch.
type Kind int

const (
	KindUnknown Kind = iota
	KindSchedule
	KindNow
	KindDocument
)

const (
	nameSchedule = "get_schedule"
	nameNow      = "get_now"
	nameDocument = "get_document"
)

// KindOf maps a declared function name to its tool kind
func KindOf(name string) Kind {
	switch name {
	case nameSchedule:
		return KindSchedule
	case nameNow:
		return KindNow
	case nameDocument:
		return KindDocument
	default:
		return KindUnknown
	}
}

// Origin returns the answer origin tag for an answer composed after
// this tool ran.
func (k Kind) Origin() types.AnswerOrigin {
	switch k {
	case KindSchedule:
		return types.OriginToolSchedule
	case KindDocument:
		return types.OriginToolDocument
	case KindNow, KindUnknown:
		return types.OriginTool
	default:
		return types.OriginTool
	}
}
