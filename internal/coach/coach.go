// Package coach turns user profiles and edit requests into plan documents
// using a generative text model.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/metrics"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=generator_mocks_test.go -package=coach_test

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// EditAction is what the model proposes to do with a chat request.
type EditAction string

const (
	ActionUpdatePlan EditAction = "update_plan"
	ActionNone       EditAction = "none"
)

// EditResult is the decoded answer to a chat edit request.
type EditResult struct {
	Message  string
	Action   EditAction
	PlanData *domain.PlanData
}

// Changed reports whether the model returned a replacement plan.
func (r *EditResult) Changed() bool {
	return r.Action == ActionUpdatePlan && r.PlanData != nil
}

type Coach struct {
	generator TextGenerator
	metrics   *metrics.Manager
}

func New(generator TextGenerator, m *metrics.Manager) *Coach {
	return &Coach{
		generator: generator,
		metrics:   m,
	}
}

// GeneratePlan asks the model for a new multi-week plan for the profile.
// The returned document is decoded but not yet validated.
func (c *Coach) GeneratePlan(ctx context.Context, profile *domain.UserProfile) (*domain.PlanData, error) {
	text, err := c.generate(ctx, "generate", planPrompt(profile))
	if err != nil {
		return nil, err
	}

	plan, err := decodePlan(text)
	if err != nil {
		c.observe("generate", "invalid")
		return nil, err
	}
	c.observe("generate", "ok")
	return plan, nil
}

// EditPlan asks the model to apply a free-text instruction to the current plan.
func (c *Coach) EditPlan(ctx context.Context, current *domain.PlanData, instruction string) (*EditResult, error) {
	planJSON, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("marshal current plan: %w", err)
	}

	text, err := c.generate(ctx, "edit", editPrompt(string(planJSON), instruction))
	if err != nil {
		return nil, err
	}

	result, err := decodeEdit(text)
	if err != nil {
		c.observe("edit", "invalid")
		return nil, err
	}
	c.observe("edit", "ok")
	return result, nil
}

func (c *Coach) generate(ctx context.Context, kind, prompt string) (string, error) {
	start := time.Now()
	text, err := c.generator.GenerateContent(ctx, prompt+jsonOnlySuffix)
	if c.metrics != nil {
		c.metrics.HistGenerationDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.observe(kind, "error")
		log.WithFields(log.Fields{"kind": kind}).Errorf("plan generator failed: %s", err)
		return "", fmt.Errorf("%w: plan generator: %v", domain.ErrTransientIO, err)
	}
	log.WithFields(log.Fields{"kind": kind, "chars": len(text)}).Debug("plan generator responded")
	return text, nil
}

func (c *Coach) observe(kind, outcome string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CounterPlanGenerations.WithLabelValues(kind, outcome).Inc()
}
