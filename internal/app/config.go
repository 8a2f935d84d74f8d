package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath string `validate:"required"` // .hcl / .yaml files or a directory

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`

	// WorkerCount is the maximum number of nodes computing at once.
	WorkerCount int           `validate:"gte=1"`
	FailPolicy  string        `validate:"oneof=continue fail-fast"`
	NodeTimeout time.Duration `validate:"gte=0s"`

	TraceExporter string `validate:"oneof=none stdout"`
	// ValidateOnly stops after the graph is built and the plan is printed.
	ValidateOnly bool
}

var configValidate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig fills defaults for the optional string fields and validates the
// result.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.FailPolicy == "" {
		cfg.FailPolicy = "continue"
	}
	if cfg.TraceExporter == "" {
		cfg.TraceExporter = "none"
	}

	if err := configValidate.Struct(cfg); err != nil {
		return nil, describeValidation(err)
	}
	return &cfg, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s must satisfy '%s' (got %v)", fe.Field(), rule, fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
