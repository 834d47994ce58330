package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/itqanlabs/itqan/internal/store"
)

// AuditProvider is a decorator that records every model call as an
// AICallLog row, success or failure.
type AuditProvider struct {
	inner Provider
	audit store.AuditRepo
}

// WithAudit wraps a Provider with call auditing.
func WithAudit(p Provider, audit store.AuditRepo) Provider {
	return &AuditProvider{inner: p, audit: audit}
}

func (a *AuditProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := a.inner.Generate(ctx, req)

	row := store.AICallLog{
		Provider:    a.inner.ModelID(),
		Model:       a.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		row.InputTokens = resp.Usage.InputTokens
		row.OutputTokens = resp.Usage.OutputTokens
		row.Model = resp.Model
		row.ResponseBody = string(resp.Content)
	}

	if err != nil {
		row.ErrorMessage = err.Error()
	}

	// Record the call but never fail the request over a failed write.
	if auditErr := a.audit.Append(ctx, &row); auditErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record model call: %v\n", auditErr)
	}

	return resp, err
}

func (a *AuditProvider) ModelID() string {
	return a.inner.ModelID()
}

// serializeRequest builds a readable representation of the model request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
