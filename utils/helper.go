package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/gstbilling/appctx"
	"github.com/google/uuid"
)

// NewId returns an opaque unique record id.
func NewId() string {
	return uuid.NewString()
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, appctx.ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return appctx.Set(ctx, appctx.ContextKeyCorrelationId, id)
}
