package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/CarlosCampa21/aura-api/pkg/domain/interfaces"
	"github.com/CarlosCampa21/aura-api/pkg/domain/model"
	"github.com/CarlosCampa21/aura-api/pkg/service/schedule"
)

// Set holds the question-answering tools for one request. The profile
// is bound per request because schedule lookups resolve against the
// asking user's timetable.
type Set struct {
	schedule gollem.Tool
	now      gollem.Tool
	document gollem.Tool
}

// NewSet builds the tool set for one request
func NewSet(resolver *schedule.Resolver, catalog interfaces.DocumentCatalog, profile *model.Profile) *Set {
	return &Set{
		schedule: &getScheduleTool{resolver: resolver, profile: profile},
		now:      &getNowTool{profile: profile, now: time.Now},
		document: &getDocumentTool{catalog: catalog},
	}
}

// All lists the tools in declaration order
func (s *Set) All() []gollem.Tool {
	return []gollem.Tool{s.schedule, s.now, s.document}
}

// ByKind returns the tool for a dispatched kind, or nil for an unknown
// kind.
func (s *Set) ByKind(k Kind) gollem.Tool {
	switch k {
	case KindSchedule:
		return s.schedule
	case KindNow:
		return s.now
	case KindDocument:
		return s.document
	case KindUnknown:
		return nil
	default:
		return nil
	}
}

// getScheduleTool delegates to the deterministic schedule resolver and
// returns a structured payload, not free text.
type getScheduleTool struct {
	resolver *schedule.Resolver
	profile  *model.Profile
}

func (t *getScheduleTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        nameSchedule,
		Description: "Look up the user's class schedule. Use for any question about their classes, rooms or class times.",
		Parameters: map[string]*gollem.Parameter{
			"when": {
				Type:        gollem.TypeString,
				Description: "One of: now, today, tomorrow, day",
				Required:    true,
			},
			"day_name": {
				Type:        gollem.TypeString,
				Description: "Spanish weekday name, required only when when=day",
				Required:    false,
			},
		},
	}
}

func (t *getScheduleTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	when, _ := args["when"].(string)
	if when == "" {
		return nil, fmt.Errorf("when is required")
	}
	dayName, _ := args["day_name"].(string)

	Update(ctx, "Consultando tu horario")

	res, err := t.resolver.Resolve(ctx, t.profile, schedule.When(when), dayName)
	if err != nil {
		return nil, goerr.Wrap(err, "schedule lookup failed", goerr.V("when", when))
	}

	entries := make([]map[string]any, len(res.Entries))
	for i, e := range res.Entries {
		entries[i] = map[string]any{
			"day":        e.Day.String(),
			"start":      e.Start.String(),
			"end":        e.End.String(),
			"course":     e.Course,
			"instructor": e.Instructor,
			"room":       e.Room,
		}
	}

	out := map[string]any{
		"message": res.Message,
		"entries": entries,
	}
	if len(res.Missing) > 0 {
		out["missing_profile_fields"] = res.Missing
	}
	return out, nil
}

// getNowTool formats the current time in the requested timezone
type getNowTool struct {
	profile *model.Profile
	now     func() time.Time
}

func (t *getNowTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        nameNow,
		Description: "Get the current date and time. Use when the user asks for the time or today's date.",
		Parameters: map[string]*gollem.Parameter{
			"tz": {
				Type:        gollem.TypeString,
				Description: "IANA timezone name, e.g. America/Mexico_City. Defaults to the user's timezone.",
				Required:    false,
			},
		},
	}
}

func (t *getNowTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	tz, _ := args["tz"].(string)
	if tz == "" && t.profile != nil {
		tz = t.profile.Timezone
	}

	loc := time.Local
	if tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	now := t.now().In(loc)
	return map[string]any{
		"now":      now.Format("2006-01-02 15:04"),
		"weekday":  now.Format("Monday"),
		"timezone": loc.String(),
	}, nil
}

// getDocumentTool finds the best-matching catalog document by title,
// alias or tag and returns its title and link.
type getDocumentTool struct {
	catalog interfaces.DocumentCatalog
}

func (t *getDocumentTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        nameDocument,
		Description: "Find an institutional document (form, guide, regulation) by name and return its link.",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Document name or topic to search for",
				Required:    true,
			},
		},
	}
}

func (t *getDocumentTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	Update(ctx, fmt.Sprintf("Buscando documento: %s", query))

	docs, err := t.catalog.Search(ctx, query, 1)
	if err != nil {
		return nil, goerr.Wrap(err, "document search failed", goerr.V("query", query))
	}
	if len(docs) == 0 {
		return map[string]any{
			"found":   false,
			"message": fmt.Sprintf("No encontré un documento que coincida con %q.", query),
		}, nil
	}

	return map[string]any{
		"found": true,
		"title": docs[0].Title,
		"url":   docs[0].URL,
	}, nil
}
