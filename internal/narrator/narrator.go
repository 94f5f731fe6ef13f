package narrator

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/lead-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/resilience"
	"github.com/ZanzyTHEbar/lead-o-meter/internal/types"
)

// EnhancerService is the name the enhancer is tracked under in health reports.
const EnhancerService = "enhancer"

// Enhancer rephrases a prompt into a conversational answer.
type Enhancer interface {
	Enhance(ctx context.Context, prompt string) (string, error)
}

var errEmptyResponse = stderrors.New("empty response from language model")

// Options configures a Narrator. Every field is optional.
type Options struct {
	Timeout time.Duration
	Retry   resilience.RetryConfig
	Breaker *resilience.CircuitBreaker
	Logger  *monitoring.Logger
	Metrics *monitoring.Metrics
	Health  *resilience.DegradationManager
}

// Narrator turns fetched records into a chat answer.
type Narrator struct {
	enhancer Enhancer
	opts     Options
}

// New creates a Narrator. A nil enhancer yields the plain summary.
func New(enhancer Enhancer, opts Options) *Narrator {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = resilience.DefaultRetryConfig()
		opts.Retry.MaxAttempts = 2
	}
	opts.Retry.RetryableErrors = retryableEnhance
	if opts.Breaker == nil {
		opts.Breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})
	}
	return &Narrator{enhancer: enhancer, opts: opts}
}

// Available reports whether answers are rephrased by a language model.
func (n *Narrator) Available() bool {
	return n.enhancer != nil
}

// Narrate answers a chat query about fetched records. It never fails: when the
// enhancer errors the deterministic summary is returned with a note appended.
func (n *Narrator) Narrate(ctx context.Context, fetch types.FetchResult, query string, filters map[string]interface{}) string {
	start := time.Now()
	insights := Summarize(fetch, query)

	if fetch.Failed() {
		n.observe("fetch_error", len(query), 0, fetch.Error, start)
		return insights
	}
	if n.enhancer == nil {
		n.observe("deterministic", len(query), len(fetch.Data), "", start)
		return insights
	}

	text, err := n.enhance(ctx, BuildPrompt(query, insights, filters))
	if n.opts.Health != nil {
		n.opts.Health.RecordRequest(EnhancerService, err)
	}
	if err != nil {
		n.observe("fallback", len(query), len(fetch.Data), err.Error(), start)
		return fmt.Sprintf("%s\n\n(Note: AI enhancement unavailable: %v)", insights, err)
	}

	n.observe("enhanced", len(query), len(fetch.Data), "", start)
	return text
}

func (n *Narrator) enhance(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.opts.Timeout)
	defer cancel()

	var text string
	err := resilience.RetryWithConfig(ctx, n.opts.Retry, func() error {
		return n.opts.Breaker.Call(func() error {
			out, err := n.enhancer.Enhance(ctx, prompt)
			if err != nil {
				return err
			}
			if strings.TrimSpace(out) == "" {
				return errEmptyResponse
			}
			text = out
			return nil
		})
	})
	return text, err
}

func (n *Narrator) observe(mode string, queryLen, records int, reason string, start time.Time) {
	if n.opts.Metrics != nil {
		n.opts.Metrics.RecordNarration(mode)
	}
	if n.opts.Logger != nil {
		n.opts.Logger.NarrationLogger(queryLen, records, mode == "enhanced", reason, time.Since(start))
	}
}

func retryableEnhance(err error) bool {
	var cbErr *resilience.CircuitBreakerError
	switch {
	case stderrors.As(err, &cbErr):
		return false
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

// BuildPrompt assembles the language-model prompt for one query.
func BuildPrompt(query, insights string, filters map[string]interface{}) string {
	applied := "None"
	if len(filters) > 0 {
		if b, err := json.MarshalIndent(filters, "", "  "); err == nil {
			applied = string(b)
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a helpful assistant analyzing student application data.\n\n")
	fmt.Fprintf(&sb, "User Query: %s\n\n", query)
	fmt.Fprintf(&sb, "Current Data Insights: %s\n\n", insights)
	fmt.Fprintf(&sb, "Applied Filters: %s\n\n", applied)
	sb.WriteString("Please provide a helpful, conversational response about the student data.\n")
	sb.WriteString("Keep it concise and relevant to the user's question. If they're asking for\n")
	sb.WriteString("specific information that's not in the insights, acknowledge what data is\n")
	sb.WriteString("available and suggest how they might refine their query or filters.\n")
	return sb.String()
}
