// Package contact relays contact form submissions from the site to a
// configured endpoint, or to the log when none is configured.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("invalid submission")

// ErrUpstream wraps failures forwarding to the configured endpoint.
var ErrUpstream = errors.New("forwarding failed")

// Submission is one contact form post.
type Submission struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=320"`
	// Fields holds every other form field, such as subject or message.
	Fields     map[string]string `json:"fields,omitempty"`
	ReceivedAt time.Time         `json:"received_at"`
}

// Config configures a Relay.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Store, when set, keeps every accepted submission.
	Store *Store
}

// Relay validates submissions and delivers them.
type Relay struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	store      *Store
	validate   *validator.Validate
	now        func() time.Time
}

// NewRelay creates a Relay.
func NewRelay(cfg Config) *Relay {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		endpoint:   cfg.Endpoint,
		httpClient: hc,
		logger:     logger,
		store:      cfg.Store,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// Submit validates s, assigns it an id and delivers it. Validation failures
// wrap ErrInvalid and delivery failures wrap ErrUpstream.
func (r *Relay) Submit(ctx context.Context, s *Submission) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	if err := r.validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(FormatValidationErrors(err), "; "))
	}

	s.ID = uuid.NewString()
	s.ReceivedAt = r.now().UTC()

	if r.endpoint == "" {
		r.logger.Info("contact submission",
			zap.String("id", s.ID),
			zap.String("name", s.Name),
			zap.String("email", s.Email),
			zap.Any("fields", s.Fields),
		)
		r.save(ctx, s, false)
		return nil
	}
	if err := r.forward(ctx, s); err != nil {
		r.logger.Error("forwarding contact submission", zap.String("id", s.ID), zap.Error(err))
		r.save(ctx, s, false)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	r.logger.Info("contact submission forwarded", zap.String("id", s.ID))
	r.save(ctx, s, true)
	return nil
}

// save records s when a store is configured. Failures are logged only.
func (r *Relay) save(ctx context.Context, s *Submission, forwarded bool) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, s, forwarded); err != nil {
		r.logger.Warn("storing contact submission", zap.String("id", s.ID), zap.Error(err))
	}
}

func (r *Relay) forward(ctx context.Context, s *Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshalling submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

var fieldLabels = map[string]string{
	"Name":  "full-name",
	"Email": "email",
}

// FormatValidationErrors converts validator.ValidationErrors to messages
// naming the form fields.
func FormatValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		label, ok := fieldLabels[e.Field()]
		if !ok {
			label = strings.ToLower(e.Field())
		}
		switch e.Tag() {
		case "required":
			messages = append(messages, label+" is required")
		case "email":
			messages = append(messages, label+" must be a valid email address")
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", label, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", label, e.Tag()))
		}
	}
	return messages
}
