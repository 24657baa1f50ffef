package handler

import (
	"errors"
	"io"
	"net/http"

	"messenger-fixtures/internal/faker"
	"messenger-fixtures/internal/services"
	"messenger-fixtures/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// GenerateDefaults fills the sizes a request leaves out.
type GenerateDefaults struct {
	Contacts    int
	MultiMember int
	Messages    int
	Seed        uint64
}

type FixtureHandler struct {
	service  *services.FixtureService
	defaults GenerateDefaults
}

func NewFixtureHandler(service *services.FixtureService, defaults GenerateDefaults) *FixtureHandler {
	return &FixtureHandler{service: service, defaults: defaults}
}

func (h *FixtureHandler) options(req httpdto.GenerateFixtureRequest) services.GenerateOptions {
	opts := services.GenerateOptions{
		BatchOptions: faker.BatchOptions{
			Contacts:                h.defaults.Contacts,
			ContactsStart:           req.ContactsStart,
			MultiMember:             h.defaults.MultiMember,
			MultiMemberStart:        req.MultiMemberStart,
			MessagesPerConversation: h.defaults.Messages,
			MessagesStart:           req.MessagesStart,
		},
		Seed: h.defaults.Seed,
	}
	if req.Contacts != nil {
		opts.Contacts = *req.Contacts
	}
	if req.MultiMember != nil {
		opts.MultiMember = *req.MultiMember
	}
	if req.MessagesPerConversation != nil {
		opts.MessagesPerConversation = *req.MessagesPerConversation
	}
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}
	return opts
}

func (h *FixtureHandler) Generate(c *gin.Context) {
	var req httpdto.GenerateFixtureRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	name := services.BatchName(req.Name)
	batch, err := h.service.Generate(c.Request.Context(), name, h.options(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FixtureResponse{
		Name:   name,
		Counts: batch.Counts(),
		Batch:  batch,
	}))
}

func (h *FixtureHandler) Get(c *gin.Context) {
	name := c.Param("name")
	batch, err := h.service.Load(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FixtureResponse{
		Name:   name,
		Counts: batch.Counts(),
		Batch:  batch,
	}))
}

func (h *FixtureHandler) Persist(c *gin.Context) {
	name := c.Param("name")
	batch, err := h.service.Load(c.Request.Context(), name)
	if err != nil {
		writeError(c, err)
		return
	}
	inserted, err := h.service.Persist(c.Request.Context(), batch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.PersistResponse{
		Name:     name,
		Inserted: inserted,
	}))
}

func (h *FixtureHandler) Snapshot(c *gin.Context) {
	res, err := h.service.Snapshot(c.Request.Context(), c.Param("name"), nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.SnapshotResponse{
		Key: res.Key,
		URL: res.URL,
	}))
}

func (h *FixtureHandler) Delete(c *gin.Context) {
	if err := h.service.Discard(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
