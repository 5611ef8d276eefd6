package llm

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// LoggingProvider logs every attempt: model, purpose, latency, tokens and
// estimated cost.
type LoggingProvider struct {
	inner  Provider
	logger log.Logger
}

// WithLogging wraps p. A nil logger discards output.
func WithLogging(p Provider, logger log.Logger) Provider {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &LoggingProvider{inner: p, logger: log.With(logger, "component", "llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	kv := []any{
		"request_id", RequestIDFrom(ctx),
		"purpose", PurposeFrom(ctx),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if req.Schema != nil {
		kv = append(kv, "schema", req.Schema.Name)
	}
	if resp != nil {
		kv = append(kv,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"stop", resp.StopReason,
		)
		if c := LookupCost(resp.Model); c != nil {
			kv = append(kv, "cost_usd", c.Cost(resp.Usage.InputTokens, resp.Usage.OutputTokens))
		}
	}

	if err != nil {
		level.Warn(l.logger).Log(append(kv, "msg", "generate failed", "err", err)...)
		return nil, err
	}
	level.Info(l.logger).Log(append(kv, "msg", "generate")...)
	return resp, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
