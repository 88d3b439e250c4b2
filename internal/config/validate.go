package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Workflow.validate(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}

	return nil
}

func (w *WorkflowConfig) validate() error {
	if w.MaxAssigneesPerJob <= 0 {
		return fmt.Errorf("max_assignees_per_job must be > 0 (got %d)", w.MaxAssigneesPerJob)
	}
	if w.MaxPhotosPerJob <= 0 {
		return fmt.Errorf("max_photos_per_job must be > 0 (got %d)", w.MaxPhotosPerJob)
	}
	if w.MaxLineItemsPerQuote <= 0 {
		return fmt.Errorf("max_line_items_per_quote must be > 0 (got %d)", w.MaxLineItemsPerQuote)
	}
	if w.QuoteExpiryDays <= 0 {
		return fmt.Errorf("quote_expiry_days must be > 0 (got %d)", w.QuoteExpiryDays)
	}
	if w.ExpireSweepBatchSize <= 0 {
		return fmt.Errorf("expire_sweep_batch_size must be > 0 (got %d)", w.ExpireSweepBatchSize)
	}
	if w.MaxTimeEntryHours <= 0 {
		return fmt.Errorf("max_time_entry_hours must be > 0 (got %d)", w.MaxTimeEntryHours)
	}
	return nil
}
