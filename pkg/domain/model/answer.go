package model

import "github.com/CarlosCampa21/aura-api/pkg/domain/types"

// Answer is the final response of the question pipeline
type Answer struct {
	Text        string
	Origin      types.AnswerOrigin
	UsedContext bool
}

// Turn is one user/assistant exchange from recent conversation history
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}
