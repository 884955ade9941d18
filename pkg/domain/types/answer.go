package types

// AnswerOrigin tags which path produced the final answer text
type AnswerOrigin string

const (
	// OriginAssistant is a direct model answer with no tool invocation
	OriginAssistant AnswerOrigin = "assistant"

	// OriginToolSchedule is an answer composed after a get_schedule tool call
	OriginToolSchedule AnswerOrigin = "tool:get_schedule"

	// OriginToolDocument is an answer composed after a get_document tool call
	OriginToolDocument AnswerOrigin = "tool:get_document"

	// OriginTool is an answer composed after any other tool call
	OriginTool AnswerOrigin = "tool"

	// OriginRAG is a retrieval-grounded answer from the similarity path
	OriginRAG AnswerOrigin = "rag"

	// OriginSchedule is a deterministic schedule-resolver answer
	OriginSchedule AnswerOrigin = "schedule"
)

// String returns the string representation of the answer origin
func (o AnswerOrigin) String() string {
	return string(o)
}
