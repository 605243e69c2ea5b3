// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Article is the structured result of a full article generation.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// Idea is one suggested blog topic.
type Idea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContentGenerator is the blog-facing AI surface. Handlers depend on this
// interface rather than a concrete provider so tests can substitute a stub.
type ContentGenerator interface {
	// GenerateArticle writes a complete article about a topic. Model output
	// that cannot be parsed as JSON degrades to a synthetic article carrying
	// the raw text; only a failed external call returns an error.
	GenerateArticle(ctx context.Context, topic, category, tone string) (*Article, error)

	// ImproveArticle rewrites existing content per a free-text instruction
	// and returns the improved text verbatim.
	ImproveArticle(ctx context.Context, content, instruction string) (string, error)

	// SuggestIdeas proposes blog topics for a category. Unparseable model
	// output degrades silently to an empty list.
	SuggestIdeas(ctx context.Context, category string, count int) ([]Idea, error)
}

// DefaultTone is used when a generation request doesn't specify one.
const DefaultTone = "professional"

// Writer implements ContentGenerator on top of a Provider.
type Writer struct {
	provider Provider
}

// NewWriter creates a Writer backed by the given provider (typically the
// Registry, so the active provider can change at runtime).
func NewWriter(p Provider) *Writer {
	return &Writer{provider: p}
}

const writerSystemPrompt = "You are an expert content writer for a blogging platform. " +
	"Follow the requested output format exactly."

// GenerateArticle builds the article prompt, calls the provider once, and
// parses the first brace-delimited JSON object out of the response.
func (w *Writer) GenerateArticle(ctx context.Context, topic, category, tone string) (*Article, error) {
	if tone == "" {
		tone = DefaultTone
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a comprehensive blog post about %q in the %s category.\n", topic, category)
	fmt.Fprintf(&b, "The tone should be %s.\n\n", tone)
	b.WriteString("Please structure the blog post with:\n")
	b.WriteString("1. An engaging title (max 100 characters)\n")
	b.WriteString("2. A compelling description/excerpt (max 200 characters)\n")
	b.WriteString("3. Well-structured content with proper headings, paragraphs, and formatting\n")
	b.WriteString("4. Include relevant examples and insights\n")
	b.WriteString("5. A conclusion\n\n")
	b.WriteString("Format the response as JSON with the following structure:\n")
	b.WriteString(`{"title": "Blog title here", "description": "Brief description here", ` +
		`"content": "Full blog content with HTML formatting (use <h2>, <h3>, <p>, <ul>, <li>, <strong>, <em> tags)"}`)

	text, err := w.provider.Generate(ctx, writerSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var article Article
	if raw, ok := extractObject(text); ok {
		if err := json.Unmarshal([]byte(raw), &article); err == nil && article.Title != "" {
			return &article, nil
		}
	}

	// Parse failure is not an error: callers always get a well-shaped
	// article, with the raw model output as its content.
	return &Article{
		Title:       topic,
		Description: fmt.Sprintf("An insightful article about %s", topic),
		Content:     text,
	}, nil
}

// ImproveArticle builds the rewrite prompt and returns the model's output
// verbatim, with no JSON wrapping and no check that HTML structure survived.
func (w *Writer) ImproveArticle(ctx context.Context, content, instruction string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Improve the following blog content based on this instruction: %q\n\n", instruction)
	b.WriteString("Original content:\n")
	b.WriteString(content)
	b.WriteString("\n\nPlease return the improved content maintaining HTML formatting.")

	text, err := w.provider.Generate(ctx, writerSystemPrompt, b.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return text, nil
}

// SuggestIdeas builds the ideas prompt and parses the first
// bracket-delimited JSON array out of the response.
func (w *Writer) SuggestIdeas(ctx context.Context, category string, count int) ([]Idea, error) {
	if count <= 0 {
		count = 5
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d creative and engaging blog post ideas for the %s category.\n\n", count, category)
	b.WriteString("Return the response as a JSON array of objects with this structure:\n")
	b.WriteString(`[{"title": "Blog idea title", "description": "Brief description of the blog idea"}]`)

	text, err := w.provider.Generate(ctx, writerSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if raw, ok := extractArray(text); ok {
		var ideas []Idea
		if err := json.Unmarshal([]byte(raw), &ideas); err == nil {
			return ideas, nil
		}
	}

	// Silent degradation: malformed model output yields no ideas, not an error.
	return []Idea{}, nil
}

// extractObject returns the substring from the first '{' to the last '}'.
func extractObject(s string) (string, bool) {
	return extractDelimited(s, '{', '}')
}

// extractArray returns the substring from the first '[' to the last ']'.
func extractArray(s string) (string, bool) {
	return extractDelimited(s, '[', ']')
}

func extractDelimited(s string, open, closing byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
