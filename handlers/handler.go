package handlers

import (
	"go.uber.org/zap"

	"github.com/padraicbc/yachtclub/identity"
	"github.com/padraicbc/yachtclub/store"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	store     *store.Store
	ids       *identity.Service
	log       *zap.Logger
	uploadDir string
}

// New creates a Handler. Uploaded files are written below uploadDir.
func New(st *store.Store, ids *identity.Service, log *zap.Logger, uploadDir string) *Handler {
	return &Handler{store: st, ids: ids, log: log, uploadDir: uploadDir}
}
