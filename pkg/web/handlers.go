// Package web provides the HTTP surface: event delivery, pipeline
// management and run inspection.
package web

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/runwayci/runway/pkg/eventbus"
	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/persistence"
	"github.com/runwayci/runway/pkg/pipeline"
)

type APIHandlers struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	loader      *pipeline.Loader
	validator   *validator.Validate
}

func NewAPIHandlers(
	store persistence.Persistence,
	publisher eventbus.EventPublisher,
	loader *pipeline.Loader,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		persistence: store,
		publisher:   publisher,
		loader:      loader,
		validator:   validate,
	}
}

// DeliverEvent accepts a repository event, gates it against every stored
// pipeline, and publishes a run request for each match. Execution happens
// on the agents; the response lists what was triggered.
func (h *APIHandlers) DeliverEvent(c fiber.Ctx) error {
	var req DeliverEventRequest

	err := c.Bind().Body(&req)
	if err != nil {
		return badRequest(c, "Invalid event payload: "+err.Error())
	}

	err = h.validator.Struct(&req)
	if err != nil {
		return badRequest(c, err.Error())
	}

	event := models.RepoEvent{
		ID:         "evt-" + uuid.New().String()[:8],
		Kind:       models.EventKind(req.Kind),
		Ref:        req.Ref,
		Commit:     req.Commit,
		Repository: req.Repository,
		Actor:      req.Actor,
		Payload:    req.Payload,
		ReceivedAt: time.Now().UTC(),
	}

	triggered, err := DispatchEvent(c.Context(), h.persistence, h.publisher, event)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(DeliverEventResponse{
		EventID:   event.ID,
		Triggered: triggered,
	})
}

func (h *APIHandlers) GetPipelines(c fiber.Ctx) error {
	pipelines, err := h.persistence.Pipelines(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"pipelines": pipelines})
}

func (h *APIHandlers) GetPipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	p, err := h.persistence.PipelineByID(c.Context(), id)
	if err != nil {
		return handlePersistenceError(c, err)
	}

	return c.JSON(p)
}

// CreatePipeline loads a raw pipeline document, running schema and
// configuration validation before anything is stored.
func (h *APIHandlers) CreatePipeline(c fiber.Ctx) error {
	p, err := h.loader.Load(c.Body())
	if err != nil {
		return badRequest(c, err.Error())
	}

	err = h.persistence.SavePipeline(c.Context(), p)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *APIHandlers) DeletePipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	err := h.persistence.DeletePipeline(c.Context(), id)
	if err != nil {
		return handlePersistenceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	run, err := h.persistence.RunByID(c.Context(), id)
	if err != nil {
		return handlePersistenceError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) GetPipelineRuns(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	runs, err := h.persistence.RunsByPipeline(c.Context(), id)
	if err != nil {
		return handlePersistenceError(c, err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, RunSummary{
			ID:         run.ID,
			PipelineID: run.PipelineID,
			Status:     run.Status,
			Ref:        run.Event.Ref,
			StartedAt:  run.StartedAt.UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{"runs": summaries})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.persistence.HealthCheck(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}
