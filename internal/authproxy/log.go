package authproxy

import (
	"context"
	"log"

	"github.com/go-chi/chi/v5/middleware"
)

func logError(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}
	reqID := middleware.GetReqID(ctx)
	if reqID != "" {
		log.Printf("authproxy: %s (req_id=%s): %v", msg, reqID, err)
		return
	}
	log.Printf("authproxy: %s: %v", msg, err)
}
