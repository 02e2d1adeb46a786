package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/arbmove/bot/internal/suirpc"
)

// Submitter submits signed transactions with bounded linear-backoff retry.
type Submitter struct {
	client     *suirpc.Client
	maxRetries int
}

// NewSubmitter builds a Submitter over an already-dialed client.
func NewSubmitter(client *suirpc.Client) *Submitter {
	return &Submitter{client: client, maxRetries: 2}
}

// SubmitResult is the outcome of one transaction submission.
type SubmitResult struct {
	Digest       string
	Success      bool
	GasCostMist  uint64
	ProfitMist   uint64
	HasProfit    bool
	ErrorMessage string
}

type executeEffects struct {
	Status  txStatus `json:"status"`
	GasUsed gasUsed  `json:"gasUsed"`
}

type executeRPCResult struct {
	Digest  string          `json:"digest"`
	Effects executeEffects  `json:"effects"`
	Events  []dryRunEvent   `json:"events"`
}

// Submit submits txBytes together with an already-computed signature,
// waiting for local execution, retrying up to maxRetries times with
// 200ms*attempt backoff.
func (s *Submitter) Submit(ctx context.Context, txBytes, signature string) (*SubmitResult, error) {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(200*attempt) * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := s.submitOnce(ctx, txBytes, signature)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("execution: submission failed after %d retries: %w", s.maxRetries, lastErr)
}

func (s *Submitter) submitOnce(ctx context.Context, txBytes, signature string) (*SubmitResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var result executeRPCResult
	err := s.client.Call(callCtx, &result, "sui_executeTransactionBlock",
		txBytes,
		[]string{signature},
		map[string]bool{"showEffects": true, "showEvents": true},
		"WaitForLocalExecution",
	)
	if err != nil {
		return nil, err
	}

	gasCost := extractGasCost(result.Effects.GasUsed)
	success := result.Effects.Status.Status == "success"

	out := &SubmitResult{
		Digest:      result.Digest,
		Success:     success,
		GasCostMist: gasCost,
	}
	if profit, ok := actualProfitFromEvents(result.Events); ok {
		out.ProfitMist = profit
		out.HasProfit = true
	}
	if !success {
		out.ErrorMessage = result.Effects.Status.Error
		if out.ErrorMessage == "" {
			out.ErrorMessage = "unknown error"
		}
	}

	return out, nil
}
