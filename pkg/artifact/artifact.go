// Package artifact defines the immutable record a processing run leaves
// behind: the final output, its provenance, and a content hash.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/mindsparkle/docintel/pkg/modes"
	"github.com/mindsparkle/docintel/pkg/pipeline"
)

// Record is one processing run's persistable snapshot. Records are
// immutable once built; re-processing the same document yields a new
// version via NewVersion.
type Record struct {
	ID              string            `json:"id"`
	Version         int               `json:"version"`
	DocumentID      string            `json:"documentId,omitempty"`
	UserID          string            `json:"userId,omitempty"`
	Mode            string            `json:"mode"`
	VendorID        string            `json:"vendorId,omitempty"`
	Model           string            `json:"model"`
	Provider        string            `json:"provider,omitempty"`
	Success         bool              `json:"success"`
	ValidationScore float64           `json:"validationScore"`
	PassCount       int               `json:"passCount"`
	TokensUsed      int               `json:"tokensUsed"`
	ElapsedMs       int64             `json:"elapsedMs"`
	Output          string            `json:"output,omitempty"`
	Passes          []*pipeline.Pass  `json:"passes,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	Hash            string            `json:"hash"`
}

// FromResult snapshots a pipeline result as a version-1 record.
func FromResult(res *pipeline.Result, mode modes.Mode, documentID, userID string) *Record {
	r := &Record{
		ID:              uuid.NewString(),
		Version:         1,
		DocumentID:      documentID,
		UserID:          userID,
		Mode:            mode.String(),
		VendorID:        res.Metadata.Vendor,
		Model:           res.Metadata.Model,
		Provider:        res.Metadata.Provider,
		Success:         res.Success,
		ValidationScore: res.Metadata.ValidationScore,
		PassCount:       res.Metadata.PassCount,
		TokensUsed:      res.Metadata.TokensUsed,
		ElapsedMs:       res.Metadata.ElapsedMs,
		Output:          res.FinalOutput,
		Passes:          res.Passes,
		Warnings:        res.Warnings,
		Metadata:        make(map[string]string),
		CreatedAt:       time.Now().UTC(),
	}
	r.Hash = r.computeHash()
	return r
}

// NewVersion snapshots a re-run of the same document. Identity fields
// carry over from r; everything the run produced comes from res.
func (r *Record) NewVersion(res *pipeline.Result) *Record {
	nr := &Record{
		ID:              r.ID,
		Version:         r.Version + 1,
		DocumentID:      r.DocumentID,
		UserID:          r.UserID,
		Mode:            r.Mode,
		VendorID:        res.Metadata.Vendor,
		Model:           res.Metadata.Model,
		Provider:        res.Metadata.Provider,
		Success:         res.Success,
		ValidationScore: res.Metadata.ValidationScore,
		PassCount:       res.Metadata.PassCount,
		TokensUsed:      res.Metadata.TokensUsed,
		ElapsedMs:       res.Metadata.ElapsedMs,
		Output:          res.FinalOutput,
		Passes:          res.Passes,
		Warnings:        res.Warnings,
		Metadata:        copyMetadata(r.Metadata),
		CreatedAt:       time.Now().UTC(),
	}
	nr.Hash = nr.computeHash()
	return nr
}

// WithMetadata returns a copy of the record with one more metadata entry.
func (r *Record) WithMetadata(key, value string) *Record {
	nr := *r
	nr.Metadata = copyMetadata(r.Metadata)
	nr.Metadata[key] = value
	return &nr
}

func (r *Record) computeHash() string {
	h := sha256.New()
	h.Write([]byte(r.Output))
	h.Write([]byte(r.Provider))
	h.Write([]byte(r.Model))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func copyMetadata(m map[string]string) map[string]string {
	nm := make(map[string]string, len(m))
	for k, v := range m {
		nm[k] = v
	}
	return nm
}
