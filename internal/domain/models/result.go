package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Signal is the arbitrage verdict of a model evaluation.
type Signal string

const (
	SignalArbitrage    Signal = "arbitrage"
	SignalNoArbitrage  Signal = "no_arbitrage"
	SignalInconclusive Signal = "inconclusive"
)

// Confidence qualifies how much weight a result deserves.
type Confidence string

const (
	ConfidenceHigh      Confidence = "high"
	ConfidenceMedium    Confidence = "medium"
	ConfidenceLow       Confidence = "low"
	ConfidenceUncertain Confidence = "uncertain"
)

// ModelResult is the uniform output of every model evaluation. Components
// carries the intermediate values of the computation for auditability.
// Results are value types: produced once, never mutated.
type ModelResult struct {
	ModelName      string             `json:"model_name"`
	InputsDigest   string             `json:"inputs_digest"`
	Signal         Signal             `json:"signal"`
	Magnitude      float64            `json:"magnitude"`
	Confidence     Confidence         `json:"confidence"`
	Components     map[string]float64 `json:"components"`
	Recommendation string             `json:"recommendation,omitempty"`
}

// Inputs is implemented by every typed model input struct.
type Inputs interface {
	// Digest returns a stable identifier of the input contents.
	Digest() string
	// Validate checks the record invariants of every carried input.
	Validate() error
}

// DigestOf computes a SHA-256 digest over the canonical JSON encoding of v.
// encoding/json emits struct fields in declaration order and map keys sorted,
// so identical values always produce identical digests.
func DigestOf(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
