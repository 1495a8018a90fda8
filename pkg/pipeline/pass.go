package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/mindsparkle/docintel/pkg/modes"
)

// Status is a pass's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Built-in pass names, in default pipeline order.
const (
	PassExtraction = "extraction"
	PassEnrichment = "enrichment"
	PassValidation = "validation"
	PassFormatting = "formatting"
)

// Pass records one stage's lifecycle within a single run.
type Pass struct {
	Name            string    `json:"name"`
	Status          Status    `json:"status"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	Result          string    `json:"result,omitempty"`
	Err             string    `json:"error,omitempty"`
	ValidationScore float64   `json:"validationScore,omitempty"`
}

// PassContext carries everything a pass prompt builder may draw on.
// Prior outputs fill in as passes complete; a failed pass leaves its
// field empty.
type PassContext struct {
	Source     string // document text, already cut to the mode budget
	Grounding  string // vendor-grounded system prefix shared by every pass
	Structure  string // mode output structure, applied by the formatting pass
	Mode       modes.Mode
	Extraction string
	Enrichment string
	Validation string // self-review critique
	Best       string // latest completed content output
}

// PassDef defines one pipeline stage: a name, the prompt builder invoked
// with the run context when the stage starts, and optional decoding
// overrides. Zero MaxTokens or Temperature fall back to the pass
// defaults.
type PassDef struct {
	Name        string
	MaxTokens   int
	Temperature float64
	Build       func(pc PassContext) (system, user string)
}

func defaultPasses() []PassDef {
	return []PassDef{
		{Name: PassExtraction, Build: buildExtractionPass},
		{Name: PassEnrichment, Build: buildEnrichmentPass},
		{Name: PassValidation, Build: buildValidationPass},
		{Name: PassFormatting, Build: buildFormattingPass},
	}
}

// DefaultPassNames lists the standard pass chain in run order.
func DefaultPassNames() []string {
	defs := defaultPasses()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// The pipeline runs cold; only formatting gets room to phrase the final
// output.
var passTemperatures = map[string]float64{
	PassExtraction: 0.2,
	PassEnrichment: 0.3,
	PassValidation: 0.2,
	PassFormatting: 0.4,
}

func temperatureFor(name string) float64 {
	if t, ok := passTemperatures[name]; ok {
		return t
	}
	return 0.3
}

// Per-pass role instructions, appended to the grounded system prefix.
const (
	extractionRole = `For this pass you are an extraction engine. Pull out the document's facts, commands, configuration blocks, numbers, and key terms exactly as written. Keep vendor terminology untouched. Do not interpret, reorder, or add anything the document does not state.`

	enrichmentRole = `For this pass you are a formatter. Rework the extracted content into clean Markdown: rebuild tables, put commands and configuration in fenced code blocks, and note any referenced diagrams. Introduce no information that is not already in the extraction.`

	validationRole = `For this pass you are a reviewer. Compare the generated content against the original document. Report an accuracy score from 0 to 100, then list every discrepancy you find: changed values, invented facts, altered commands, missing steps.`

	formattingRole = `For this pass you are the final editor. Produce the finished output from the material below, correcting every issue the review flagged. Follow the output structure exactly.`
)

func buildExtractionPass(pc PassContext) (string, string) {
	system := pc.Grounding + "\n" + extractionRole
	user := fmt.Sprintf("Extract the key content from the document below.\n\nDocument:\n---\n%s\n---", pc.Source)
	return system, user
}

func buildEnrichmentPass(pc PassContext) (string, string) {
	system := pc.Grounding + "\n" + enrichmentRole
	var sb strings.Builder
	sb.WriteString("Reformat the extracted content. Check anything doubtful against the original document.")
	writeSection(&sb, "Extracted content", pc.Extraction)
	writeSection(&sb, "Original document", pc.Source)
	return system, sb.String()
}

func buildValidationPass(pc PassContext) (string, string) {
	system := pc.Grounding + "\n" + validationRole
	var sb strings.Builder
	sb.WriteString("Review the generated content against the original document.")
	writeSection(&sb, "Original document", pc.Source)
	writeSection(&sb, "Extraction", pc.Extraction)
	writeSection(&sb, "Enrichment", pc.Enrichment)
	return system, sb.String()
}

func buildFormattingPass(pc PassContext) (string, string) {
	system := pc.Grounding + "\n" + formattingRole
	if pc.Structure != "" {
		system += "\n\n" + pc.Structure
	}
	var sb strings.Builder
	sb.WriteString("Produce the final output from the material below.")
	writeSection(&sb, "Extraction", pc.Extraction)
	writeSection(&sb, "Enrichment", pc.Enrichment)
	writeSection(&sb, "Review findings", pc.Validation)
	return system, sb.String()
}

// writeSection appends a labeled block, skipping empty bodies so failed
// passes leave no dangling headers.
func writeSection(sb *strings.Builder, label, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(sb, "\n\n%s:\n---\n%s\n---", label, body)
}
