package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/CarlosCampa21/aura-api/pkg/agent/tool"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/domain/types"
	"github.com/CarlosCampa21/aura-api/pkg/service/schedule"
	"github.com/CarlosCampa21/aura-api/pkg/utils/logging"
)

// historyLimit bounds how many recent turns are folded into the
// orchestrator's system prompt.
const historyLimit = 20

const askSystemPrompt = `Eres AURA, el asistente virtual de la institución.
Responde en español, de forma breve, clara y amable.
Si la pregunta trata del horario de clases del usuario, usa la herramienta get_schedule.
Si pide un documento, formato o reglamento, usa la herramienta get_document.
Si pregunta la hora o la fecha, usa la herramienta get_now.
Para todo lo demás responde directamente con lo que sabes.`

// AskInput is one question from an authenticated user
type AskInput struct {
	Email      string
	Question   string
	EntityHint string
	History    []model.Turn
}

// Ask answers a question through the priority chain: the tool
// orchestrator first; when it yields no decision, the deterministic
// schedule resolver for schedule-shaped questions, and the
// retrieval-grounded path for everything else.
func (uc *UseCases) Ask(ctx context.Context, input AskInput) (*model.Answer, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, goerr.Wrap(types.ErrBadRequest, "question is empty")
	}

	if uc.limiter != nil && !uc.limiter.Allow(input.Email+":ask") {
		return nil, goerr.Wrap(types.ErrRateLimited, "too many questions", goerr.V("email", input.Email))
	}

	profile := uc.loadProfile(ctx, input.Email)

	answer, err := uc.orchestrate(ctx, profile, input)
	if err == nil {
		return answer, nil
	}
	if !errors.Is(err, types.ErrNoDecision) && !errors.Is(err, types.ErrNotConfigured) {
		return nil, err
	}

	logging.From(ctx).Warn("orchestrator yielded no decision, taking offline path",
		slog.Any("error", err))

	if when, dayName, ok := scheduleIntent(input.Question); ok {
		res, err := uc.resolver.Resolve(ctx, profile, when, dayName)
		if err != nil {
			return nil, err
		}
		return &model.Answer{Text: res.Message, Origin: types.OriginSchedule}, nil
	}

	answer, err = uc.answerer.Answer(ctx, input.Question, input.EntityHint)
	if err != nil {
		if errors.Is(err, types.ErrNoDecision) || errors.Is(err, types.ErrNotConfigured) {
			return &model.Answer{
				Text:   "Lo siento, no puedo responder en este momento. Intenta de nuevo más tarde.",
				Origin: types.OriginAssistant,
			}, nil
		}
		return nil, err
	}
	return answer, nil
}

// orchestrate runs the two-pass tool flow: a first model call with the
// declared tools, synchronous execution of any requested tools, then a
// second model call that composes the user-facing sentence.
func (uc *UseCases) orchestrate(ctx context.Context, profile *model.Profile, input AskInput) (*model.Answer, error) {
	if uc.llm == nil {
		return nil, goerr.Wrap(types.ErrNotConfigured, "no model provider configured")
	}

	tools := tool.NewSet(uc.resolver, uc.repo.Document(), profile)

	session, err := uc.llm.NewSession(ctx,
		gollem.WithSessionSystemPrompt(uc.buildSystemPrompt(input.History)),
		gollem.WithSessionTools(tools.All()...),
	)
	if err != nil {
		return nil, err
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(input.Question))
	if err != nil {
		return nil, err
	}

	if len(resp.FunctionCalls) == 0 {
		text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
		if text == "" {
			return nil, goerr.Wrap(types.ErrNoDecision, "model returned no content")
		}
		return &model.Answer{Text: text, Origin: types.OriginAssistant}, nil
	}

	var (
		replies  []gollem.Input
		lastKind = tool.KindUnknown
		lastRaw  string
	)
	for _, call := range resp.FunctionCalls {
		kind := tool.KindOf(call.Name)
		data, runErr := uc.runTool(ctx, tools, kind, call.Arguments)
		if runErr == nil {
			lastKind = kind
			lastRaw = rawToolText(kind, data)
		} else {
			logging.From(ctx).Warn("tool execution failed",
				slog.String("tool", call.Name), slog.Any("error", runErr))
		}
		replies = append(replies, gollem.FunctionResponse{
			ID:    call.ID,
			Name:  call.Name,
			Data:  data,
			Error: runErr,
		})
	}

	// the second call is always issued so the model composes the final
	// sentence; its failure degrades to the last tool's raw text
	second, err := session.GenerateContent(ctx, replies...)
	if err == nil {
		if text := strings.TrimSpace(strings.Join(second.Texts, "\n")); text != "" {
			return &model.Answer{Text: text, Origin: lastKind.Origin(), UsedContext: true}, nil
		}
	} else {
		logging.From(ctx).Warn("second model call failed, returning raw tool result",
			slog.Any("error", err))
	}

	if lastRaw == "" {
		return nil, goerr.Wrap(types.ErrNoDecision, "no tool produced a result")
	}
	return &model.Answer{Text: lastRaw, Origin: lastKind.Origin(), UsedContext: true}, nil
}

func (uc *UseCases) runTool(ctx context.Context, tools *tool.Set, kind tool.Kind, args map[string]any) (map[string]any, error) {
	impl := tools.ByKind(kind)
	if impl == nil {
		return nil, goerr.New("model requested an undeclared tool")
	}
	return impl.Run(ctx, args)
}

// rawToolText renders a tool payload as a plain sentence, used when the
// composing model call fails.
func rawToolText(kind tool.Kind, data map[string]any) string {
	switch kind {
	case tool.KindSchedule:
		if msg, ok := data["message"].(string); ok {
			return msg
		}
	case tool.KindDocument:
		if title, ok := data["title"].(string); ok {
			if url, ok := data["url"].(string); ok {
				return fmt.Sprintf("%s: %s", title, url)
			}
		}
		if msg, ok := data["message"].(string); ok {
			return msg
		}
	case tool.KindNow:
		if now, ok := data["now"].(string); ok {
			return now
		}
	case tool.KindUnknown:
	}
	return ""
}

func (uc *UseCases) buildSystemPrompt(history []model.Turn) string {
	var sb strings.Builder
	sb.WriteString(askSystemPrompt)
	if uc.academicContext != "" {
		sb.WriteString("\n\nContexto institucional:\n")
		sb.WriteString(uc.academicContext)
	}

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	if len(history) > 0 {
		sb.WriteString("\n\nConversación reciente:\n")
		for _, turn := range history {
			role := "Usuario"
			if turn.Role == "assistant" {
				role = "Asistente"
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", role, turn.Text))
		}
	}
	return sb.String()
}

// loadProfile is best-effort: a user without a stored profile still
// gets the non-schedule paths.
func (uc *UseCases) loadProfile(ctx context.Context, email string) *model.Profile {
	profile, err := uc.repo.Profile().GetByEmail(ctx, email)
	if err != nil || profile == nil {
		if err != nil {
			logging.From(ctx).Debug("no profile for user", slog.String("email", email), slog.Any("error", err))
		}
		return &model.Profile{Email: email}
	}
	return profile
}

var scheduleKeywords = []string{
	"clase", "clases", "horario", "materia", "materias", "me toca", "qué toca", "que toca",
}

var dayNames = []string{"lunes", "martes", "miércoles", "miercoles", "jueves", "viernes", "sábado", "sabado"}

// scheduleIntent detects schedule-shaped questions for the offline
// fallback and picks the resolution mode from the phrasing.
func scheduleIntent(question string) (schedule.When, string, bool) {
	q := strings.ToLower(question)

	matched := false
	for _, kw := range scheduleKeywords {
		if strings.Contains(q, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return "", "", false
	}

	for _, day := range dayNames {
		if strings.Contains(q, "el "+day) || strings.Contains(q, "los "+day) {
			return schedule.WhenDay, day, true
		}
	}
	switch {
	case strings.Contains(q, "mañana"):
		return schedule.WhenTomorrow, "", true
	case strings.Contains(q, "ahora") || strings.Contains(q, "ahorita"):
		return schedule.WhenNow, "", true
	default:
		return schedule.WhenToday, "", true
	}
}
