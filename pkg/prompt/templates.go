package prompt

import "github.com/mindsparkle/docintel/pkg/modes"

// template is one mode's instruction pair: system carries the structural
// contract, task opens the user prompt.
type template struct {
	system string
	task   string
}

func templateFor(m modes.Mode) template {
	switch m {
	case modes.ModeQuiz:
		return quizTemplate
	case modes.ModeInterview:
		return interviewTemplate
	case modes.ModeVideo:
		return videoTemplate
	case modes.ModeLabs:
		return labsTemplate
	case modes.ModeSummary:
		return summaryTemplate
	case modes.ModeFlashcards:
		return flashcardsTemplate
	default:
		return studyTemplate
	}
}

// Structure returns a mode's structural instructions on their own, for
// callers that assemble prompts around them instead of calling Build.
func Structure(m modes.Mode) string {
	return templateFor(m).system
}

var studyTemplate = template{
	system: `Structure the study guide as Markdown with these sections:
## Overview
## Key Concepts
## Detailed Notes
## Commands & Examples
## Review Questions

Cover topics in document order. Put every command or configuration snippet under Commands & Examples in fenced code blocks.`,
	task: `Create a comprehensive study guide from the document below.

Requirements:
1. Cover every major topic the document contains.
2. Define each key term the first time it appears.
3. Keep all technical values (numbers, versions, names) exactly as the document states them.
4. End with 5-10 review questions that test the document's content.`,
}

var quizTemplate = template{
	system: `Respond ONLY with JSON matching this schema, no prose before or after:
{
  "questions": [
    {
      "question": "string",
      "options": ["A. ...", "B. ...", "C. ...", "D. ..."],
      "answer": "A",
      "explanation": "string"
    }
  ]
}`,
	task: `Generate 10 to 15 multiple-choice questions from the document below.

Requirements:
1. Every question must be answerable from the document alone.
2. Exactly four options per question, one correct.
3. Explanations must cite what the document says, not outside knowledge.
4. Spread questions across the whole document, not just the opening.`,
}

var interviewTemplate = template{
	system: `Structure the output as Markdown:
### Question N: <topic>
**Question:** the interviewer's question
**Strong answer:** a model answer grounded in the document
**Follow-up:** one probing follow-up question`,
	task: `Create 8 to 12 interview questions with model answers from the document below.

Requirements:
1. Progress from fundamentals to advanced topics.
2. Model answers must only use facts from the document.
3. Include at least two scenario-based questions.`,
}

var videoTemplate = template{
	system: `Structure the output as a narration script:
[SCENE N: <title>]
(<visual note>)
Narration text.

Keep narration conversational but technically exact: spoken numbers and commands must match the document.`,
	task: `Write a video lesson script from the document below.

Requirements:
1. Open with a hook stating what the viewer will learn.
2. One scene per major topic, 6 to 10 scenes total.
3. Close with a recap scene summarizing the key points.`,
}

var labsTemplate = template{
	system: `Structure each lab as Markdown:
## Lab N: <title>
**Objective:**
**Prerequisites:**
### Steps
1. numbered actions, commands in fenced code blocks
### Verification
### Troubleshooting

Commands must be copy-paste exact; never paraphrase CLI syntax.`,
	task: `Create hands-on lab exercises from the document below.

Requirements:
1. Build 2 to 4 labs covering the document's practical content.
2. Number steps without gaps; each step is one action.
3. Verification sections must use commands the document shows.
4. Troubleshooting entries pair a symptom with its fix.`,
}

var summaryTemplate = template{
	system: `Structure the output as Markdown:
## Summary
A tight narrative summary, 300 words or fewer.
## Key Takeaways
5 to 8 bullets, each one self-contained fact from the document.`,
	task: `Summarize the document below.

Requirements:
1. Lead with the document's main purpose in one sentence.
2. Keep every number, version, and name exactly as written.
3. Do not editorialize or add recommendations.`,
}

var flashcardsTemplate = template{
	system: `Respond ONLY with JSON matching this schema, no prose before or after:
{
  "cards": [
    {
      "front": "string",
      "back": "string",
      "tags": ["string"]
    }
  ]
}`,
	task: `Generate 20 to 30 flashcards from the document below.

Requirements:
1. Fronts are a single question or term; backs are concise answers.
2. Every card must be answerable from the document alone.
3. Tag cards by the document section they come from.`,
}
