package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/discoveros/backend/internal/types"
)

// PersonaLookupFunc resolves candidate persona ids to the subset that
// exists, in lookup order.
type PersonaLookupFunc func(ctx context.Context, personaIDs []uuid.UUID) ([]*types.Persona, error)

type PersonaSnapshot struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Context  string    `json:"context"`
	Goal     string    `json:"goal"`
	MainPain string    `json:"main_pain"`
}

type JourneyDraft struct {
	Name      string   `json:"name"`
	PersonaID *string  `json:"persona_id"`
	Stages    []string `json:"stages"`
}

type OKRDraft struct {
	Objective  string   `json:"objective"`
	KeyResults []string `json:"key_results"`
}

// BlueprintDraft is the synthesized output before persistence. The
// caller decides what to do with it; synthesis has no side effects.
type BlueprintDraft struct {
	ProductName    string
	Vision         string
	Boundaries     map[string]interface{}
	Personas       []PersonaSnapshot
	Journeys       []JourneyDraft
	Metrics        map[string]interface{}
	Features       []interface{}
	Roadmap        map[string]interface{}
	ExpectedResult string
	CostTimeline   map[string]interface{}
	OKRs           []OKRDraft
}

// SynthesizeBlueprint builds a blueprint draft from the full step-key →
// payload mapping of one inception. Missing keys behave as empty
// objects; unrecognized keys are ignored.
func SynthesizeBlueprint(ctx context.Context, steps map[string]datatypes.JSON, lookupPersonas PersonaLookupFunc) (*BlueprintDraft, error) {
	draft := &BlueprintDraft{}

	vision := stepObject(steps, types.StepProductVision)
	draft.ProductName = strings.TrimSpace(stringField(vision, "product_name"))
	draft.Vision = buildVisionSummary(vision)

	personas := stepObject(steps, types.StepPersonas)
	snapshot, err := resolvePersonaSnapshot(ctx, personas, lookupPersonas)
	if err != nil {
		return nil, err
	}
	draft.Personas = snapshot

	draft.Journeys = normalizeJourneys(stepObject(steps, types.StepJourneyMap))

	metrics := stepObject(steps, types.StepProductMetrics)
	objectives := objectivesList(metrics)
	draft.Metrics = map[string]interface{}{"objectives": objectives}
	draft.OKRs = ExpandOKRDrafts(metrics)

	draft.Boundaries = normalizeBoundaries(stepObject(steps, types.StepBoundaries))

	review := stepObject(steps, types.StepFeatureReview)
	draft.Features = listField(review, "features")

	costTimeline := stepObject(steps, types.StepCostTimeline)
	waves := listField(costTimeline, "waves")
	if waves == nil {
		waves = []interface{}{}
	}
	draft.Roadmap = map[string]interface{}{
		"sequencing": objectField(review, "sequencing"),
		"waves":      waves,
	}
	draft.CostTimeline = map[string]interface{}{
		"total_cost": costTimeline["total_cost"],
		"waves":      waves,
		"text":       stringField(costTimeline, "text"),
	}

	expected := stepObject(steps, types.StepExpectedResult)
	draft.ExpectedResult = stringField(expected, "text")

	return draft, nil
}

// buildVisionSummary produces the deterministic vision sentence. The
// first sentence concatenates the populated vision fields in fixed
// order; the second contrasts alternatives and differential, with
// three phrasing variants depending on which of the two is present.
func buildVisionSummary(vision map[string]interface{}) string {
	var parts []string
	if v := strings.TrimSpace(stringField(vision, "target_audience")); v != "" {
		parts = append(parts, "Para "+v)
	}
	if v := strings.TrimSpace(stringField(vision, "product_name")); v != "" {
		parts = append(parts, "o "+v)
	}
	if v := strings.TrimSpace(stringField(vision, "problem_statement")); v != "" {
		parts = append(parts, "resolve "+v)
	}
	if v := strings.TrimSpace(stringField(vision, "product_category")); v != "" {
		parts = append(parts, "como "+v)
	}
	if v := strings.TrimSpace(stringField(vision, "key_benefit")); v != "" {
		parts = append(parts, "trazendo "+v)
	}
	var sentences []string
	if len(parts) > 0 {
		sentences = append(sentences, strings.Join(parts, ", ")+".")
	}

	alternatives := strings.TrimSpace(stringField(vision, "alternatives"))
	differential := strings.TrimSpace(stringField(vision, "differential"))
	switch {
	case alternatives != "" && differential != "":
		sentences = append(sentences, "Diferentemente de "+alternatives+", o nosso produto "+differential+".")
	case alternatives != "":
		sentences = append(sentences, "Diferentemente de "+alternatives+".")
	case differential != "":
		sentences = append(sentences, "O nosso produto "+differential+".")
	}
	return strings.Join(sentences, " ")
}

// resolvePersonaSnapshot resolves the persona_ids references, silently
// dropping ids that fail to parse or do not exist. Snapshot order is
// lookup order, not request order.
func resolvePersonaSnapshot(ctx context.Context, payload map[string]interface{}, lookup PersonaLookupFunc) ([]PersonaSnapshot, error) {
	var ids []uuid.UUID
	for _, raw := range listField(payload, "persona_ids") {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 || lookup == nil {
		return []PersonaSnapshot{}, nil
	}
	personas, err := lookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	snapshot := make([]PersonaSnapshot, 0, len(personas))
	for _, p := range personas {
		if p == nil {
			continue
		}
		snapshot = append(snapshot, PersonaSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Context:  p.Context,
			Goal:     p.Goal,
			MainPain: p.MainPain,
		})
	}
	return snapshot, nil
}

// normalizeJourneys accepts either an explicit journeys list or a flat
// stages list; the latter becomes a single unnamed-persona journey.
func normalizeJourneys(payload map[string]interface{}) []JourneyDraft {
	if rawJourneys := listField(payload, "journeys"); rawJourneys != nil {
		journeys := make([]JourneyDraft, 0, len(rawJourneys))
		for _, raw := range rawJourneys {
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			var personaID *string
			if s := strings.TrimSpace(stringField(item, "persona_id")); s != "" {
				personaID = &s
			}
			journeys = append(journeys, JourneyDraft{
				Name:      strings.TrimSpace(stringField(item, "name")),
				PersonaID: personaID,
				Stages:    normalizeStages(listField(item, "stages")),
			})
		}
		return journeys
	}
	if rawStages := listField(payload, "stages"); rawStages != nil {
		return []JourneyDraft{{
			Name:   "Jornada principal",
			Stages: normalizeStages(rawStages),
		}}
	}
	return []JourneyDraft{}
}

// normalizeStages flattens stage entries (plain strings or objects with
// a "stage" field) into trimmed strings, dropping empties.
func normalizeStages(raw []interface{}) []string {
	stages := make([]string, 0, len(raw))
	for _, entry := range raw {
		var s string
		switch v := entry.(type) {
		case string:
			s = v
		case map[string]interface{}:
			s = stringField(v, "stage")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		stages = append(stages, s)
	}
	return stages
}

// objectivesList returns the objectives from either metrics shape:
// an "objectives" list, or a singular "objective" with "key_results".
func objectivesList(metrics map[string]interface{}) []interface{} {
	if list := listField(metrics, "objectives"); list != nil {
		return list
	}
	if objective := strings.TrimSpace(stringField(metrics, "objective")); objective != "" {
		item := map[string]interface{}{"objective": objective}
		if kr, ok := metrics["key_results"]; ok {
			item["key_results"] = kr
		}
		return []interface{}{item}
	}
	return []interface{}{}
}

// ExpandOKRDrafts derives OKR drafts from a metrics document. Blank
// objectives are dropped; key results are trimmed with empties removed.
// Blueprint backfill reuses this to expand legacy metrics snapshots.
func ExpandOKRDrafts(metrics map[string]interface{}) []OKRDraft {
	objectives := objectivesList(metrics)
	drafts := make([]OKRDraft, 0, len(objectives))
	for _, raw := range objectives {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		objective := strings.TrimSpace(stringField(item, "objective"))
		if objective == "" {
			continue
		}
		keyResults := []string{}
		for _, kr := range listField(item, "key_results") {
			s, ok := kr.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			keyResults = append(keyResults, s)
		}
		drafts = append(drafts, OKRDraft{Objective: objective, KeyResults: keyResults})
	}
	return drafts
}

func normalizeBoundaries(payload map[string]interface{}) map[string]interface{} {
	boundaries := map[string]interface{}{}
	for _, key := range []string{"is", "is_not", "does", "does_not"} {
		list := listField(payload, key)
		if list == nil {
			list = []interface{}{}
		}
		boundaries[key] = list
	}
	return boundaries
}

func stepObject(steps map[string]datatypes.JSON, key string) map[string]interface{} {
	payload, ok := steps[key]
	if !ok || len(payload) == 0 {
		return map[string]interface{}{}
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return map[string]interface{}{}
	}
	return obj
}

func stringField(obj map[string]interface{}, key string) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func listField(obj map[string]interface{}, key string) []interface{} {
	if obj == nil {
		return nil
	}
	if list, ok := obj[key].([]interface{}); ok {
		return list
	}
	return nil
}

func objectField(obj map[string]interface{}, key string) map[string]interface{} {
	if obj == nil {
		return nil
	}
	if m, ok := obj[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}
